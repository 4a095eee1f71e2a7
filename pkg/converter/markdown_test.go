package converter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fallbackConverter() *MarkdownConverter {
	return NewMarkdownConverter(MarkdownOptions{Strategy: StrategyFallback})
}

func TestMarkdownFallbackDocuments(t *testing.T) {
	ctx := context.Background()
	c := fallbackConverter()

	t.Run("标题转HTML", func(t *testing.T) {
		doc, err := c.MarkdownToHTML(ctx, "# Title")
		require.NoError(t, err)
		assert.Contains(t, doc, "<h1>Title</h1>")
		assert.Contains(t, doc, "<title>从Markdown转换的HTML</title>")
		assert.Contains(t, doc, "max-width: 800px;")
	})

	t.Run("标题转Markdown", func(t *testing.T) {
		markdown, err := c.HTMLToMarkdown(ctx, "<h1>Title</h1>")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(markdown, "# Title"))
	})
}

func TestFallbackHTMLToMarkdown(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"段落与行内格式", `<p>Hello <strong>world</strong> and <a href="https://x.y">link</a></p>`, "Hello **world** and [link](https://x.y)"},
		{"b和i", "<p><b>B</b> <i>I</i> <em>E</em></p>", "**B** *I* *E*"},
		{"多级标题", "<h2>Sub</h2><h6>Six</h6>", "## Sub\n###### Six"},
		{"无序列表", "<ul><li>a</li><li>b</li></ul>", "- a\n- b"},
		{"有序列表", "<ol><li>x</li><li>y</li></ol>", "1. x\n2. y"},
		{"代码块", "<pre><code>a &lt; b</code></pre>", "```\na < b\n```"},
		{"行内代码", "<p>use <code>go test</code></p>", "use `go test`"},
		{"图片", `<img src="a.png" alt="a">`, "![](a.png)"},
		{"引用", "<blockquote>quoted</blockquote>", "> quoted"},
		{"实体", "<p>&lt;div&gt; &amp; &quot;q&quot; &apos;s&apos;</p>", `<div> & "q" 's'`},
		{"换行标签不是粗体", "<p>a<br>b</p>", "ab"},
		{"其余标签移除", "<div><span>text</span></div>", "text"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, fallbackHTMLToMarkdown(tc.input))
		})
	}
}

func TestFallbackMarkdownToHTML(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"标题", "## Sub", "<h2>Sub</h2>"},
		{"段落与强调", "Some **bold** and *em* text", "<p>Some <strong>bold</strong> and <em>em</em> text</p>"},
		{"链接", "see [docs](https://x.y)", `<p>see <a href="https://x.y">docs</a></p>`},
		{"图片优先于链接", "![alt](a.png)", `<p><img src="a.png" alt="alt"></p>`},
		{"无序列表", "- a\n- b", "<ul><li>a</li>\n<li>b</li></ul>"},
		{"有序列表", "1. x\n2. y", "<ol><li>x</li>\n<li>y</li></ol>"},
		{"行内代码不再处理", "Use `a*b*c` here", "<p>Use <code>a*b*c</code> here</p>"},
		{"分隔线", "---", "<hr>"},
		{"引用", "> quote", "<blockquote>quote</blockquote>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, fallbackMarkdownToHTML(tc.input))
		})
	}

	t.Run("代码块内容转义", func(t *testing.T) {
		result := fallbackMarkdownToHTML("```go\nfmt.Println(\"<b>\")\n```")
		assert.Contains(t, result, `<pre><code class="language-go">`)
		assert.Contains(t, result, "&lt;b&gt;")
		assert.NotContains(t, result, "<p>")
	})

	t.Run("列表后接段落", func(t *testing.T) {
		result := fallbackMarkdownToHTML("- a\n\nafter")
		assert.Equal(t, "<ul><li>a</li></ul>\n\n<p>after</p>", result)
	})
}

func TestMarkdownLibrary(t *testing.T) {
	ctx := context.Background()
	c := NewMarkdownConverter(MarkdownOptions{Strategy: StrategyLibrary, FrontMatter: true})

	t.Run("HTML转Markdown", func(t *testing.T) {
		markdown, err := c.HTMLToMarkdown(ctx, "<h1>Title</h1><p>a <del>b</del></p>")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(markdown, "# Title"))
		assert.Contains(t, markdown, "~~b~~")
	})

	t.Run("Markdown转HTML", func(t *testing.T) {
		doc, err := c.MarkdownToHTML(ctx, "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
		require.NoError(t, err)
		assert.Contains(t, doc, "<h1>Title</h1>")
		assert.Contains(t, doc, "<table>")
	})

	t.Run("去除front matter", func(t *testing.T) {
		doc, err := c.MarkdownToHTML(ctx, "---\ntitle: x\n---\n# H\n")
		require.NoError(t, err)
		assert.Contains(t, doc, "<h1>H</h1>")
		assert.NotContains(t, doc, "title: x")
	})

	t.Run("默认入口", func(t *testing.T) {
		doc, err := MarkdownToHTML(ctx, "# Title")
		require.NoError(t, err)
		assert.Contains(t, doc, "<h1>Title</h1>")

		markdown, err := HTMLToMarkdown(ctx, "<h1>Title</h1>")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(markdown, "# Title"))
	})
}

func TestMarkdownCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fallbackConverter().MarkdownToHTML(ctx, "# Title")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = fallbackConverter().HTMLToMarkdown(ctx, "<h1>Title</h1>")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMarkdownFallbackOnLoadFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := NewMarkdownConverter(MarkdownOptions{Logger: zap.New(core)})

	// 模拟转换库不可用
	c.once.Do(func() {})
	c.initErr = assert.AnError

	doc, err := c.MarkdownToHTML(context.Background(), "# Title")
	require.NoError(t, err)
	assert.Contains(t, doc, "<h1>Title</h1>")
	assert.Equal(t, 1, logs.Len())

	strict := NewMarkdownConverter(MarkdownOptions{Strategy: StrategyLibrary})
	strict.once.Do(func() {})
	strict.initErr = assert.AnError

	_, err = strict.HTMLToMarkdown(context.Background(), "<h1>Title</h1>")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestParseMarkdownStrategy(t *testing.T) {
	for _, name := range []string{"", "auto", "library", "fallback"} {
		_, err := ParseMarkdownStrategy(name)
		assert.NoError(t, err, name)
	}

	_, err := ParseMarkdownStrategy("pandoc")
	assert.Error(t, err)
}
