package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"converso-api/internal/apperr"
	"converso-api/internal/domain"

	"github.com/go-chi/chi/v5"
)

// successResponse é o envelope de sucesso da API: mensagem em português,
// dados opcionais e metadados de paginação quando a rota lista.
type successResponse struct {
	Message    string             `json:"message"`
	Data       any                `json:"data,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, successResponse{Message: message, Data: data})
}

func writePage(w http.ResponseWriter, message string, data any, pagination *domain.Pagination) {
	writeJSON(w, http.StatusOK, successResponse{Message: message, Data: data, Pagination: pagination})
}

// decodeJSON lê o corpo da requisição. Campos desconhecidos são rejeitados
// para que erros de digitação no payload não passem em silêncio.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.BadRequest("Corpo da requisição inválido")
	}
	return nil
}

// urlID extrai um parâmetro de rota numérico positivo.
func urlID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequestf("Parâmetro %s inválido", name)
	}
	return id, nil
}

// parsePagination lê os parâmetros de consulta compartilhados de listagem.
// Valores não numéricos são ignorados e caem nos padrões.
func parsePagination(r *http.Request) *domain.PaginationParams {
	q := r.URL.Query()
	params := &domain.PaginationParams{
		Search:         q.Get("search"),
		OrderBy:        q.Get("order_by"),
		OrderDirection: domain.OrderDirection(q.Get("order_direction")),
	}

	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil {
		params.PerPage = v
	}
	if raw := q.Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			params.Offset = &v
		}
	}
	return params
}
