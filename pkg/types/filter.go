package types

// Filter represents query parameters for filtering and pagination.
type Filter struct {
	Search         string                 `json:"search,omitempty"`
	Sort           map[string]string      `json:"sort,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	Page           int                    `json:"page"`
	WithPagination bool                   `json:"with_pagination"`
}

// FilterString возвращает значение filter[key] строкой или "" если его нет.
func (f Filter) FilterString(key string) string {
	if f.Filter == nil {
		return ""
	}
	if v, ok := f.Filter[key].(string); ok {
		return v
	}
	return ""
}

// Pagination represents pagination metadata.
type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// http://localhost:8080/api/reservations?filter[status]=active&filter[branch_id]=1&limit=10&withPagination=true
