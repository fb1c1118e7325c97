package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   OffsetRequest
		want OffsetRequest
	}{
		{name: "zero", in: OffsetRequest{}, want: OffsetRequest{Page: 1, Size: PageDefaultSize}},
		{name: "negative", in: OffsetRequest{Page: -3, Size: -1}, want: OffsetRequest{Page: 1, Size: PageDefaultSize}},
		{name: "too large", in: OffsetRequest{Page: 2, Size: 5000}, want: OffsetRequest{Page: 2, Size: PageMaxSize}},
		{name: "valid", in: OffsetRequest{Page: 3, Size: 10}, want: OffsetRequest{Page: 3, Size: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Normalize()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	first := Paginate(items, OffsetRequest{Page: 1, Size: 2})
	assert.Equal(t, []int{1, 2}, first.Items)
	assert.Equal(t, int64(5), first.Total)
	assert.True(t, first.HasMore)

	last := Paginate(items, OffsetRequest{Page: 3, Size: 2})
	assert.Equal(t, []int{5}, last.Items)
	assert.False(t, last.HasMore)

	past := Paginate(items, OffsetRequest{Page: 9, Size: 2})
	assert.Empty(t, past.Items)
	assert.NotNil(t, past.Items)
	assert.False(t, past.HasMore)
}
