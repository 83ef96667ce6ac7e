package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginatedRequest_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         PaginatedRequest
		wantPage   int
		wantOffset int
		wantLimit  int
	}{
		{"defaults", PaginatedRequest{}, 1, 0, 10},
		{"second page", PaginatedRequest{Page: 2, PerPage: 20}, 2, 20, 20},
		{"per page capped", PaginatedRequest{Page: 1, PerPage: 500}, 1, 0, 100},
		{"huge page capped", PaginatedRequest{Page: 1 << 62, PerPage: 100}, MaxPage, (MaxPage - 1) * 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Normalize()

			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantOffset, req.Offset())
			assert.Equal(t, tt.wantLimit, req.Limit())
		})
	}
}

func TestPaginatedRequest_OffsetNeverNegative(t *testing.T) {
	req := PaginatedRequest{Page: 1<<62 + 1, PerPage: 100}
	assert.GreaterOrEqual(t, req.Offset(), 0)
}
