package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	p := PageRequest{}
	p.Defaults()
	assert.Equal(t, PageRequest{Page: 1, PageSize: DefaultPageSize}, p)

	p = PageRequest{Page: 3, PageSize: 500}
	p.Defaults()
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 200, p.Offset())
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[string](nil, 1, 20, 41)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)

	last := NewPageResponse([]string{"a"}, 3, 20, 41)
	assert.False(t, last.HasNext)

	empty := NewPageResponse([]string{}, 1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}
