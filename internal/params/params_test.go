package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	q := url.Values{"page": {"3"}, "limit": {"10"}}
	p := ParsePagination(q)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.Offset)

	defaults := ParsePagination(url.Values{})
	assert.Equal(t, 20, defaults.Limit)
	assert.Equal(t, 1, defaults.Page)
	assert.Equal(t, 0, defaults.Offset)

	clamped := ParsePagination(url.Values{"limit": {"500"}, "page": {"-2"}})
	assert.Equal(t, 50, clamped.Limit)
	assert.Equal(t, 1, clamped.Page)
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Limit: 10, Page: 2}
	p.ComputeMeta(35)

	assert.Equal(t, 35, p.Total)
	assert.Equal(t, 4, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	last := Pagination{Limit: 10, Page: 4}
	last.ComputeMeta(35)
	assert.False(t, last.HasNext)
}
