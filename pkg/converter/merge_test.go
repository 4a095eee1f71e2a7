package converter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeToHTML(t *testing.T) {
	t.Run("已有head和body且无内容注入时原样返回", func(t *testing.T) {
		doc := "<html><head><title>t</title></head><body><p>x</p></body></html>"
		assert.Equal(t, doc, MergeToHTML(doc, "", ""))
	})

	t.Run("没有head和body时生成骨架", func(t *testing.T) {
		fragment := "<p>fragment</p>"
		result := MergeToHTML(fragment, "", "")

		assert.True(t, strings.HasPrefix(result, "<!DOCTYPE html>\n<html lang=\"zh-CN\">"))
		assert.Contains(t, result, "<title>合并的HTML文档</title>")
		assert.Contains(t, result, "<body>\n"+fragment+"\n</body>")
	})

	t.Run("注入到锚点之前", func(t *testing.T) {
		doc := "<html><head><title>t</title></head><body><p>x</p></body></html>"
		expected := "<html><head><title>t</title><style>\na{}\n</style>\n</head><body><p>x</p><script>\nf()\n</script>\n</body></html>"
		assert.Equal(t, expected, MergeToHTML(doc, "a{}", "f()"))
	})

	t.Run("骨架中CSS紧跟head开始标签", func(t *testing.T) {
		result := MergeToHTML("<p>x</p>", "a{}", "")
		assert.Contains(t, result, "<head>\n<style>\na{}\n</style>")
	})

	t.Run("没有body时JS放在html结束标签之前", func(t *testing.T) {
		doc := "<html><head></head><div>x</div></html>"
		assert.Equal(t, "<html><head></head><div>x</div><script>\nf()\n</script>\n</html>", MergeToHTML(doc, "", "f()"))
	})

	t.Run("找不到锚点时静默丢弃", func(t *testing.T) {
		result := MergeToHTML("<body>x</body>", "a{}", "")
		assert.Equal(t, "<body>x</body>", result)
	})
}

func TestMergeToHTMLStrict(t *testing.T) {
	t.Run("报告无法注入的部分", func(t *testing.T) {
		result, err := MergeToHTMLStrict("<body>x</body>", "a{}", "f()")
		require.Error(t, err)

		var anchorErr *AnchorError
		require.True(t, errors.As(err, &anchorErr))
		assert.Equal(t, []string{"css"}, anchorErr.Parts)
		assert.Equal(t, "<body>x<script>\nf()\n</script>\n</body>", result)
	})

	t.Run("全部注入成功", func(t *testing.T) {
		result, err := MergeToHTMLStrict("<p>x</p>", "a{}", "f()")
		require.NoError(t, err)
		assert.Equal(t, MergeToHTML("<p>x</p>", "a{}", "f()"), result)
	})
}

func TestMergeFilesIsAlias(t *testing.T) {
	assert.Equal(t, MergeToHTML("<p>x</p>", "a{}", "f()"), MergeFiles("<p>x</p>", "a{}", "f()"))
}

func TestSplitHTML(t *testing.T) {
	t.Run("在head和body中加入引用", func(t *testing.T) {
		parts := SplitHTML(sampleDocument)

		assert.Equal(t, "body{color:red}\np{margin:0}", parts.CSS)
		assert.Equal(t, "var a = 1;", parts.JS)
		assert.Equal(t,
			"<html><head><link rel=\"stylesheet\" href=\"styles.css\">\n</head><body><p>hi</p><script src=\"lib.js\"></script><script src=\"script.js\"></script>\n</body></html>",
			parts.HTML)
	})

	t.Run("缺少head时在html标签后生成", func(t *testing.T) {
		doc := `<html lang="en"><body><p>x</p><style>a{}</style></body></html>`
		parts := SplitHTML(doc)
		assert.Equal(t,
			"<html lang=\"en\">\n<head>\n<link rel=\"stylesheet\" href=\"styles.css\">\n</head><body><p>x</p><script src=\"script.js\"></script>\n</body></html>",
			parts.HTML)
	})

	t.Run("片段不加引用", func(t *testing.T) {
		parts := SplitHTML("<p>x</p><style>a{}</style>")
		assert.Equal(t, "<p>x</p>", parts.HTML)
		assert.Equal(t, "a{}", parts.CSS)
	})
}

func TestSplitMergeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		html string
		css  string
		js   string
	}{
		{"简单片段", "<p>hello</p>", "p { color: red; }", "console.log(1);"},
		{"多行内容", "<div>\n  <span>a</span>\n</div>", "div {\n  margin: 0;\n}", "function a() {\n  return 1;\n}"},
		{"只有样式", "<h1>t</h1>", "h1{}", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parts := SplitHTML(MergeFiles(tc.html, tc.css, tc.js))
			assert.Equal(t, strings.TrimSpace(tc.css), parts.CSS)
			assert.Equal(t, strings.TrimSpace(tc.js), parts.JS)
			assert.Contains(t, parts.HTML, tc.html)
			assert.Contains(t, parts.HTML, stylesheetLink)
		})
	}
}

func TestSplitBundle(t *testing.T) {
	t.Run("空的部分不输出", func(t *testing.T) {
		b := SplitBundle("<p>x</p>")
		assert.Equal(t, []string{SplitHTMLFile}, b.Paths())
	})

	t.Run("往返", func(t *testing.T) {
		b := SplitBundle(sampleDocument)
		assert.Equal(t, []string{SplitHTMLFile, SplitCSSFile, SplitJSFile}, b.Paths())

		merged := SplitBundleToHTML(b)
		assert.Equal(t, b.Get(SplitCSSFile), ExtractCSS(merged))
		assert.Equal(t, b.Get(SplitJSFile), ExtractJS(merged))
	})
}
