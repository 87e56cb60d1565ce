package entity

// Sortable fields for short URL listings. Anything outside this set falls
// back to SortByCreatedAt so arbitrary sort expressions never reach the store.
const (
	SortByCreatedAt = "created_at"
	SortByExpiresAt = "expires_at"
	SortByViews     = "views"
)

// ParseSortField maps a caller-supplied sort field onto the allow-list.
func ParseSortField(s string) string {
	switch s {
	case SortByCreatedAt, SortByExpiresAt, SortByViews:
		return s
	default:
		return SortByCreatedAt
	}
}

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ParseSortOrder maps a caller-supplied order onto asc/desc, defaulting to desc.
func ParseSortOrder(s string) string {
	if s == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}

// ListParams describes pagination, sorting and an optional substring search
// for listing operations.
type ListParams struct {
	Search  string
	Page    int
	PerPage int
	SortBy  string
	Order   string
}

// Normalize clamps pagination and resolves the sort allow-list.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 || p.PerPage > 100 {
		p.PerPage = 20
	}
	p.SortBy = ParseSortField(p.SortBy)
	p.Order = ParseSortOrder(p.Order)
	return p
}

// Offset returns the number of rows to skip for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// URLPage is a page of short URLs together with the total match count.
type URLPage struct {
	Items   []*ShortURL
	Total   int64
	Page    int
	PerPage int
}

// UserPage is a page of users together with the total match count.
type UserPage struct {
	Items   []*User
	Total   int64
	Page    int
	PerPage int
}
