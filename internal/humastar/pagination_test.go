package humastar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageBody_PaginationLinks_FirstPage(t *testing.T) {
	p := PageBody[int]{Total: 25, Offset: 0, Limit: 10}

	links := p.PaginationLinks("/api/v1/parcels")

	assert.Equal(t, []string{
		`</api/v1/parcels?offset=0&limit=10>; rel="first"`,
		`</api/v1/parcels?offset=10&limit=10>; rel="next"`,
		`</api/v1/parcels?offset=20&limit=10>; rel="last"`,
	}, links)
}

func TestPageBody_PaginationLinks_MiddlePage(t *testing.T) {
	p := PageBody[int]{Total: 25, Offset: 10, Limit: 10}

	links := p.PaginationLinks("/api/v1/parcels")

	assert.Contains(t, links, `</api/v1/parcels?offset=0&limit=10>; rel="prev"`)
	assert.Contains(t, links, `</api/v1/parcels?offset=20&limit=10>; rel="next"`)
}

func TestPageBody_PaginationLinks_LastPage(t *testing.T) {
	p := PageBody[int]{Total: 25, Offset: 20, Limit: 10}

	links := p.PaginationLinks("/api/v1/parcels")

	assert.Contains(t, links, `</api/v1/parcels?offset=10&limit=10>; rel="prev"`)
	for _, link := range links {
		assert.NotContains(t, link, `rel="next"`)
	}
}

func TestPageBody_PaginationLinks_PrevClampsAtZero(t *testing.T) {
	p := PageBody[int]{Total: 25, Offset: 5, Limit: 10}

	links := p.PaginationLinks("/api/v1/parcels")

	assert.Contains(t, links, `</api/v1/parcels?offset=0&limit=10>; rel="prev"`)
}
