package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkers(t *testing.T) {
	tests := []struct {
		name   string
		marker func(doc *HTML) Marker
	}{
		{name: "set", marker: func(*HTML) Marker { return NewSetMarker() }},
		{name: "class", marker: func(doc *HTML) Marker { return NewClassMarker(doc) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(page)
			require.NoError(t, err)
			m := tt.marker(doc)

			nodes := doc.TextNodes()
			p, span := nodes[1].Parent, nodes[2].Parent

			assert.False(t, m.Marked(p))
			assert.Equal(t, 0, m.Count())

			m.Mark(p)
			m.Mark(p)
			assert.True(t, m.Marked(p))
			assert.False(t, m.Marked(span))
			assert.Equal(t, 1, m.Count())

			// a fresh snapshot yields handles to the same nodes
			assert.True(t, m.Marked(doc.TextNodes()[1].Parent))
		})
	}
}

func TestClassMarker_SurvivesRender(t *testing.T) {
	doc, err := Parse(`<p class="price">$5</p>`)
	require.NoError(t, err)

	NewClassMarker(doc).Mark(doc.TextNodes()[0].Parent)
	assert.Contains(t, doc.String(), `class="price money-is-time-processed"`)

	reloaded, err := Parse(doc.String())
	require.NoError(t, err)
	m := NewClassMarker(reloaded)
	assert.True(t, m.Marked(reloaded.TextNodes()[0].Parent))
	assert.Equal(t, 1, m.Count())
}
