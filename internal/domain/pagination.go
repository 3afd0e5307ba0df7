package domain

// Valores padrão de paginação. A API expõe parâmetros de consulta em
// snake_case (page, per_page, offset, search, order_by, order_direction).
const (
	PaginationDefaultPage    = 1
	PaginationDefaultPerPage = 10
	PaginationMaxPerPage     = 100
)

// OrderDirection de ordenação ('asc' ou 'desc').
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// IsValid valida se o valor de OrderDirection é válido.
func (d OrderDirection) IsValid() bool {
	return d == OrderAsc || d == OrderDesc
}

// PaginationParams carrega os parâmetros de paginação e filtro já
// interpretados. Offset, quando presente, sobrepõe o offset derivado da
// página.
type PaginationParams struct {
	Page           int
	PerPage        int
	Offset         *int
	Search         string
	OrderBy        string
	OrderDirection OrderDirection
}

// Normalize aplica os padrões e limita PerPage ao máximo permitido.
func (p *PaginationParams) Normalize() {
	if p.Page < 1 {
		p.Page = PaginationDefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = PaginationDefaultPerPage
	}
	if p.PerPage > PaginationMaxPerPage {
		p.PerPage = PaginationMaxPerPage
	}
	if !p.OrderDirection.IsValid() {
		p.OrderDirection = OrderDesc
	}
	if p.OrderBy == "" {
		p.OrderBy = "created_at"
	}
}

// EffectiveOffset resolve o offset de linhas: um offset explícito prevalece,
// caso contrário (page-1)*per_page.
func (p *PaginationParams) EffectiveOffset() int {
	if p.Offset != nil && *p.Offset >= 0 {
		return *p.Offset
	}
	return (p.Page - 1) * p.PerPage
}

// Pagination é o envelope de metadados de paginação da resposta.
type Pagination struct {
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	PerPage         int   `json:"per_page"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// NewPagination calcula o envelope de página para um total de linhas.
// total_pages = ceil(total/per_page); os campos has_* derivam da página
// atual em relação a total_pages.
func NewPagination(total int64, page, perPage int) Pagination {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return Pagination{
		Total:           total,
		Page:            page,
		PerPage:         perPage,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
