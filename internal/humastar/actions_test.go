package humastar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_LinkHeader(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   string
	}{
		{
			name:   "rel and href only",
			action: Action{Rel: "self", Href: "/api/v1/parcels/1"},
			want:   `</api/v1/parcels/1>; rel="self"`,
		},
		{
			name:   "with method and title",
			action: Action{Rel: "capture", Href: "/api/v1/capture/click", Method: "POST", Title: "Capture"},
			want:   `</api/v1/capture/click>; rel="capture"; method="POST"; title="Capture"`,
		},
		{
			name:   "with schema",
			action: Action{Rel: "edit", Href: "/x", Method: "PUT", Schema: "/schemas/X.json"},
			want:   `</x>; rel="edit"; method="PUT"; schema="/schemas/X.json"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.LinkHeader())
		})
	}
}

func TestActionsFor(t *testing.T) {
	defs := []ActionDef{
		{Rel: "duplicate", Pattern: "/api/v1/parcels/%s/duplicate", Method: "POST", Title: "Duplicate"},
		{Rel: "capture", Pattern: "/api/v1/capture/click", Method: "POST"},
	}

	actions := ActionsFor("p-42", defs)
	require.Len(t, actions, 2)

	// Patterns with a verb interpolate the id.
	assert.Equal(t, "/api/v1/parcels/p-42/duplicate", actions[0].Href)
	assert.Equal(t, "POST", actions[0].Method)
	assert.Equal(t, "Duplicate", actions[0].Title)

	// Fixed paths pass through untouched, id or not.
	assert.Equal(t, "/api/v1/capture/click", actions[1].Href)
}

func TestActionsFor_EmptyID(t *testing.T) {
	actions := ActionsFor("", []ActionDef{
		{Rel: "capture", Pattern: "/api/v1/capture/click", Method: "POST"},
	})
	require.Len(t, actions, 1)
	assert.Equal(t, "/api/v1/capture/click", actions[0].Href)
}
