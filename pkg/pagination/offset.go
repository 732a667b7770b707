package pagination

// OffsetRequest represents a limit/offset pagination request
type OffsetRequest struct {
	Limit  int `json:"limit" query:"limit" validate:"min=1,max=500"`
	Offset int `json:"offset" query:"offset" validate:"min=0"`
}

// Normalize clamps pagination parameters into their allowed ranges
func (r *OffsetRequest) Normalize() {
	if r.Limit <= 0 {
		r.Limit = LimitDefault
	}
	if r.Limit > LimitMax {
		r.Limit = LimitMax
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// Metadata describes the position of a page within the full result set.
// Total and HasMore are computed from the storage-side count; when post-hoc
// filtering removes rows after the fetch they are an upper bound, not exact.
type Metadata struct {
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

func NewMetadata(limit, offset int, total int64) Metadata {
	return Metadata{
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		HasMore: int64(offset+limit) < total,
	}
}
