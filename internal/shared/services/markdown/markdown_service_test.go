package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	r := NewRenderer()

	out, err := r.ToHTML("**Breached** by 2h\nsee https://records.example/dossiers/D-9")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Breached</strong>")
	assert.Contains(t, out, "<br")
	assert.Contains(t, out, `rel="nofollow"`)
}

func TestToHTML_StripsUnsafeMarkup(t *testing.T) {
	out, err := NewRenderer().ToHTML("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestToHTML_Empty(t *testing.T) {
	out, err := NewRenderer().ToHTML("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
