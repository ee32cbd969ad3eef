package humastar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-landval/internal/templates"
)

// newTestRenderer builds a renderer over a throwaway fragments directory.
func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	dir := t.TempDir()

	fragments := map[string]string{
		"select-option.html": `{{define "select-option"}}<option value="{{.Value}}">{{.Label}}</option>
{{end}}`,
		"empty-state.html": `{{define "empty-state"}}<div class="empty-state"><h3>{{.Title}}</h3><p>{{.Message}}</p></div>{{end}}`,
		"card.html":        `{{define "card"}}<div class="card">{{.}}</div>{{end}}`,
	}
	for name, content := range fragments {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	r, err := templates.New(dir)
	require.NoError(t, err)
	return r
}

func TestParseSignals(t *testing.T) {
	signals, err := ParseSignals([]byte(`{"name":"ada","count":3,"ratio":1.5,"on":true}`))
	require.NoError(t, err)

	assert.Equal(t, "ada", signals.String("name"))
	assert.Equal(t, 3, signals.Int("count"))
	assert.Equal(t, 1.5, signals.Float("ratio"))
	assert.True(t, signals.Bool("on"))
	assert.True(t, signals.Has("name"))
	assert.False(t, signals.Has("missing"))
}

func TestParseSignals_Invalid(t *testing.T) {
	_, err := ParseSignals([]byte(`{not json`))
	assert.Error(t, err)
}

func TestSignals_ZeroValuesForWrongTypes(t *testing.T) {
	signals := Signals{"name": 42, "count": "three", "on": "yes"}

	assert.Equal(t, "", signals.String("name"))
	assert.Equal(t, 0, signals.Int("count"))
	assert.Equal(t, 0.0, signals.Float("count"))
	assert.False(t, signals.Bool("on"))
	assert.True(t, signals.Has("on"))
}

func TestSignalsInput_MustParse(t *testing.T) {
	in := &SignalsInput{RawBody: []byte(`{"a":1}`)}
	signals, err := in.MustParse()
	require.NoError(t, err)
	assert.Equal(t, 1, signals.Int("a"))

	bad := &SignalsInput{RawBody: []byte(`nope`)}
	_, err = bad.MustParse()
	assert.Error(t, err)
}

func TestRenderSelect(t *testing.T) {
	r := newTestRenderer(t)

	html := RenderSelect(r, "Pick one", []SelectOptionData{
		{Value: "a", Label: "Alpha"},
		{Value: "b", Label: "Beta"},
	})

	assert.Contains(t, html, `<option value="">Pick one</option>`)
	assert.Contains(t, html, `<option value="a">Alpha</option>`)
	assert.Contains(t, html, `<option value="b">Beta</option>`)
}

func TestRenderSelect_NoPlaceholder(t *testing.T) {
	r := newTestRenderer(t)

	html := RenderSelect(r, "", []SelectOptionData{{Value: "a", Label: "Alpha"}})

	assert.NotContains(t, html, `value=""`)
	assert.Contains(t, html, `<option value="a">Alpha</option>`)
}

func TestRenderList(t *testing.T) {
	r := newTestRenderer(t)

	html := RenderList(r, "card", []any{"one", "two"}, "Empty", "Nothing here")
	assert.Equal(t, `<div class="card">one</div><div class="card">two</div>`, html)
}

func TestRenderList_EmptyState(t *testing.T) {
	r := newTestRenderer(t)

	html := RenderList(r, "card", nil, "No widgets", "Add one to get started")
	assert.Contains(t, html, "<h3>No widgets</h3>")
	assert.Contains(t, html, "<p>Add one to get started</p>")
}
