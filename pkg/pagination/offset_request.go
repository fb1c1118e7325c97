package pagination

// OffsetRequest is a 1-based page request bound from the query string.
type OffsetRequest struct {
	Page int `json:"page" query:"page"`
	Size int `json:"size" query:"size"`
}

// Normalize clamps the request into range: page at least 1, size between 1 and PageMaxSize.
func (r *OffsetRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
}

// Bounds returns the slice bounds of the requested page within total items.
// Pages past the end yield an empty range.
func (r OffsetRequest) Bounds(total int) (start, end int) {
	start = min((r.Page-1)*r.Size, total)
	end = min(start+r.Size, total)
	return start, end
}
