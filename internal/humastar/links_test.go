package humastar

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
)

func TestAutoLinks(t *testing.T) {
	api := newTestAPI(t)
	huma.Get(api, "/health", okHandler, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/parcels", okHandler, huma.OperationTags("parcels"))
	huma.Post(api, "/api/v1/parcels", okHandler, huma.OperationTags("parcels"))
	huma.Get(api, "/api/v1/parcels/{id}",
		func(ctx context.Context, input *struct {
			ID string `path:"id"`
		}) (*okOutput, error) {
			return &okOutput{}, nil
		}, huma.OperationTags("parcels"))
	huma.Post(api, "/api/v1/capture/click", okHandler, huma.OperationTags("capture"))

	AutoLinks(api)

	// Item → collection and up.
	assert.Contains(t, linkMap["/api/v1/parcels/{id}"], `</api/v1/parcels>; rel="collection"`)
	assert.Contains(t, linkMap["/api/v1/parcels/{id}"], `</api/v1/parcels>; rel="up"`)

	// Collection → item template, entry point, create action.
	assert.Contains(t, linkMap["/api/v1/parcels"], `</api/v1/parcels/{id}>; rel="item"`)
	assert.Contains(t, linkMap["/api/v1/parcels"], `</health>; rel="up"`)
	assert.Contains(t, linkMap["/api/v1/parcels"], `</api/v1/parcels>; rel="create-form"`)

	// Entry point fans out to collections and API discovery rels.
	assert.Contains(t, linkMap["/health"], `</api/v1/parcels>; rel="parcels"`)
	assert.Contains(t, linkMap["/health"], `</openapi.json>; rel="describedby"`)
	assert.Contains(t, linkMap["/health"], `</openapi.json>; rel="service-desc"`)
	assert.Contains(t, linkMap["/health"], `</docs>; rel="service-doc"`)

	// SSE endpoints stay out of the link graph.
	_, ok := linkMap["/api/v1/capture/click"]
	assert.False(t, ok)

	assert.Equal(t, linkMap["/health"], RootLinks())
}

func TestAutoLinks_DeduplicatesLinks(t *testing.T) {
	api := newTestAPI(t)
	huma.Get(api, "/api/v1/parcels", okHandler, huma.OperationTags("parcels"))
	huma.Get(api, "/api/v1/parcels/{id}",
		func(ctx context.Context, input *struct {
			ID string `path:"id"`
		}) (*okOutput, error) {
			return &okOutput{}, nil
		}, huma.OperationTags("parcels"))

	AutoLinks(api)

	seen := map[string]int{}
	for _, link := range linkMap["/api/v1/parcels/{id}"] {
		seen[link]++
	}
	for link, n := range seen {
		assert.Equal(t, 1, n, "duplicate link %s", link)
	}
}
