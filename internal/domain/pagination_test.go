package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams_Normalize_Defaults(t *testing.T) {
	p := PaginationParams{}
	p.Normalize()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, PaginationDefaultPerPage, p.PerPage)
	assert.Equal(t, "created_at", p.OrderBy)
	assert.Equal(t, OrderDesc, p.OrderDirection)
}

func TestPaginationParams_Normalize_ClampsPerPage(t *testing.T) {
	p := PaginationParams{PerPage: 10_000}
	p.Normalize()

	assert.Equal(t, PaginationMaxPerPage, p.PerPage)
}

func TestPaginationParams_EffectiveOffset(t *testing.T) {
	p := PaginationParams{Page: 3, PerPage: 10}
	p.Normalize()
	assert.Equal(t, 20, p.EffectiveOffset())

	explicit := 7
	p.Offset = &explicit
	assert.Equal(t, 7, p.EffectiveOffset())

	negative := -1
	p.Offset = &negative
	assert.Equal(t, 20, p.EffectiveOffset())
}

func TestNewPagination_TotalPagesCeil(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		page       int
		perPage    int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"exact multiple", 20, 1, 10, 2, true, false},
		{"remainder rounds up", 21, 1, 10, 3, true, false},
		{"middle page", 21, 2, 10, 3, true, true},
		{"last page", 21, 3, 10, 3, false, true},
		{"empty", 0, 1, 10, 0, false, false},
		{"single item", 1, 1, 10, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := NewPagination(tt.total, tt.page, tt.perPage)
			assert.Equal(t, tt.totalPages, pg.TotalPages)
			assert.Equal(t, tt.hasNext, pg.HasNextPage)
			assert.Equal(t, tt.hasPrev, pg.HasPreviousPage)
			assert.Equal(t, tt.total, pg.Total)
		})
	}
}

// For any N items and per_page=P, the last page (ceil(N/P)) holds N mod P
// items (or P when N mod P == 0) and has_next_page is false.
func TestNewPagination_LastPageInvariant(t *testing.T) {
	for _, n := range []int64{1, 9, 10, 11, 25, 100} {
		perPage := 10
		lastPage := int((n + int64(perPage) - 1) / int64(perPage))

		pg := NewPagination(n, lastPage, perPage)
		assert.False(t, pg.HasNextPage, "N=%d", n)
		assert.Equal(t, lastPage, pg.TotalPages, "N=%d", n)

		itemsOnLast := int(n) - (lastPage-1)*perPage
		expected := int(n) % perPage
		if expected == 0 {
			expected = perPage
		}
		assert.Equal(t, expected, itemsOnLast, "N=%d", n)
	}
}
