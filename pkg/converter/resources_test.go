package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractExternalResources(t *testing.T) {
	doc := `<html><head>
<link rel="stylesheet" href="a.css">
<link rel="icon" href="favicon.ico">
<script src="b.js"></script>
</head><body><script>inline()</script><script src="c.js" defer></script></body></html>`

	res, err := ExtractExternalResources(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.css"}, res.Stylesheets)
	assert.Equal(t, []string{"b.js", "c.js"}, res.Scripts)

	empty, err := ExtractExternalResources("<p>x</p>")
	require.NoError(t, err)
	assert.Empty(t, empty.Stylesheets)
	assert.Empty(t, empty.Scripts)
}

func TestParseStructure(t *testing.T) {
	t.Run("缺少doctype时使用默认值", func(t *testing.T) {
		st, err := ParseStructure("<p>x</p>")
		require.NoError(t, err)
		assert.Equal(t, "<!DOCTYPE html>", st.Doctype)
		assert.Equal(t, "<html><head></head><body><p>x</p></body></html>", st.HTML)
		assert.Equal(t, "", st.Title)
	})

	t.Run("标题", func(t *testing.T) {
		st, err := ParseStructure("<!DOCTYPE html><html><head><title> Demo </title></head><body></body></html>")
		require.NoError(t, err)
		assert.Equal(t, "<!DOCTYPE html>", st.Doctype)
		assert.Equal(t, "Demo", st.Title)
		assert.True(t, strings.HasPrefix(st.HTML, "<html><head><title>"))
	})
}
