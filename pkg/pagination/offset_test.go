package pagination

import "testing"

func TestOffsetRequest_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         OffsetRequest
		wantLimit  int
		wantOffset int
	}{
		{"zero limit gets default", OffsetRequest{Limit: 0, Offset: 10}, LimitDefault, 10},
		{"negative offset clamped", OffsetRequest{Limit: 20, Offset: -5}, 20, 0},
		{"limit above max clamped", OffsetRequest{Limit: 10_000, Offset: 0}, LimitMax, 0},
		{"valid request untouched", OffsetRequest{Limit: 25, Offset: 50}, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in.Limit != tt.wantLimit {
				t.Errorf("limit: got %d, want %d", tt.in.Limit, tt.wantLimit)
			}
			if tt.in.Offset != tt.wantOffset {
				t.Errorf("offset: got %d, want %d", tt.in.Offset, tt.wantOffset)
			}
		})
	}
}

func TestNewMetadata_HasMore(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		offset  int
		total   int64
		hasMore bool
	}{
		{"first page of many", 10, 0, 100, true},
		{"exactly last page", 10, 90, 100, false},
		{"middle page", 10, 50, 100, true},
		{"offset beyond total", 10, 200, 100, false},
		{"empty result set", 10, 0, 0, false},
		{"boundary offset+limit == total", 25, 75, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetadata(tt.limit, tt.offset, tt.total)
			if m.HasMore != tt.hasMore {
				t.Errorf("hasMore: got %v, want %v", m.HasMore, tt.hasMore)
			}
			if m.Total != tt.total {
				t.Errorf("total: got %d, want %d", m.Total, tt.total)
			}
		})
	}
}
