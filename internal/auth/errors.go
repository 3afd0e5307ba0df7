package auth

import "errors"

var (
	ErrTokenMissing   = errors.New("missing bearer token")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("invalid token signature")
)

// maskToken masks a JWT token for safe logging. Shows only the first 12
// characters followed by "...".
func maskToken(token string) string {
	if len(token) <= 12 {
		return "***"
	}
	return token[:12] + "..."
}
