package pagination

type OffsetResult[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Size    int   `json:"size"`
	HasMore bool  `json:"has_more"`
}

// Paginate cuts the requested page out of items.
func Paginate[T any](items []T, req OffsetRequest) *OffsetResult[T] {
	start, end := req.Bounds(len(items))
	page := items[start:end]
	if page == nil {
		page = []T{}
	}
	return &OffsetResult[T]{
		Items:   page,
		Total:   int64(len(items)),
		Page:    req.Page,
		Size:    req.Size,
		HasMore: end < len(items),
	}
}
