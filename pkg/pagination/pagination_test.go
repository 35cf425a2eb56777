package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page := Paginate(items, &PaginationParams{Page: 2, PerPage: 3})
	assert.Equal(t, []int{4, 5, 6}, page.Items)
	assert.Equal(t, int64(7), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)

	last := Paginate(items, &PaginationParams{Page: 3, PerPage: 3})
	assert.Equal(t, []int{7}, last.Items)
	assert.False(t, last.Pagination.HasNext)

	beyond := Paginate(items, &PaginationParams{Page: 9, PerPage: 3})
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
}

func TestPaginate_Defaults(t *testing.T) {
	page := Paginate[string](nil, nil)
	assert.Equal(t, []string{}, page.Items)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, 15, page.Pagination.PerPage)

	p := &PaginationParams{Page: 0, PerPage: 500}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)
}
