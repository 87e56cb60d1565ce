package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSortField(t *testing.T) {
	assert.Equal(t, SortByCreatedAt, ParseSortField("created_at"))
	assert.Equal(t, SortByExpiresAt, ParseSortField("expires_at"))
	assert.Equal(t, SortByViews, ParseSortField("views"))

	t.Run("unknown field falls back to created_at", func(t *testing.T) {
		assert.Equal(t, SortByCreatedAt, ParseSortField("origin; DROP TABLE urls"))
		assert.Equal(t, SortByCreatedAt, ParseSortField(""))
	})
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, OrderAsc, ParseSortOrder("asc"))
	assert.Equal(t, OrderDesc, ParseSortOrder("desc"))
	assert.Equal(t, OrderDesc, ParseSortOrder(""))
	assert.Equal(t, OrderDesc, ParseSortOrder("ASC"))
}

func TestListParams_Normalize(t *testing.T) {
	t.Run("zero value gets defaults", func(t *testing.T) {
		p := ListParams{}.Normalize()

		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 20, p.PerPage)
		assert.Equal(t, SortByCreatedAt, p.SortBy)
		assert.Equal(t, OrderDesc, p.Order)
	})

	t.Run("out of range pagination is clamped", func(t *testing.T) {
		p := ListParams{Page: -3, PerPage: 500}.Normalize()

		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 20, p.PerPage)
	})

	t.Run("valid values survive", func(t *testing.T) {
		p := ListParams{Page: 3, PerPage: 50, SortBy: SortByViews, Order: OrderAsc}.Normalize()

		assert.Equal(t, 3, p.Page)
		assert.Equal(t, 50, p.PerPage)
		assert.Equal(t, SortByViews, p.SortBy)
		assert.Equal(t, OrderAsc, p.Order)
	})
}

func TestListParams_Offset(t *testing.T) {
	assert.Zero(t, ListParams{Page: 1, PerPage: 20}.Offset())
	assert.Equal(t, 40, ListParams{Page: 3, PerPage: 20}.Offset())
}
