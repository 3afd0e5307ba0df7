package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "converso-api",
	Short: "Converso API - chat e autorização multi-tenant",
	Long:  `API REST de conversas com autenticação JWT, RBAC e observabilidade.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
