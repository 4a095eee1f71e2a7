package converter

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/Kunde21/markdownfmt/v3"
	"github.com/PuerkitoBio/goquery"
	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// MarkdownStrategy 选择 Markdown 转换使用的引擎
type MarkdownStrategy string

const (
	// StrategyAuto 优先使用转换库，失败时回退到内置转换
	StrategyAuto MarkdownStrategy = "auto"
	// StrategyLibrary 只使用转换库，失败时返回错误
	StrategyLibrary MarkdownStrategy = "library"
	// StrategyFallback 只使用内置的正则转换
	StrategyFallback MarkdownStrategy = "fallback"
)

// ParseMarkdownStrategy 解析引擎名称，空字符串视为 auto
func ParseMarkdownStrategy(name string) (MarkdownStrategy, error) {
	switch MarkdownStrategy(name) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyLibrary:
		return StrategyLibrary, nil
	case StrategyFallback:
		return StrategyFallback, nil
	default:
		return "", fmt.Errorf("unknown markdown engine: %s", name)
	}
}

// MarkdownOptions Markdown 转换选项
type MarkdownOptions struct {
	Strategy    MarkdownStrategy
	FrontMatter bool        // 去除 Markdown 开头的 YAML front matter
	Math        bool        // 识别 $...$ 数学公式
	Format      bool        // 对转换库输出的 Markdown 再做一次格式化
	Logger      *zap.Logger // 回退时记录诊断信息，为空时不记录
}

// DefaultMarkdownOptions 返回默认选项
func DefaultMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{
		Strategy:    StrategyAuto,
		FrontMatter: true,
	}
}

// MarkdownConverter HTML 与 Markdown 互转
// 转换库在第一次使用时初始化，之后只读，可并发使用
type MarkdownConverter struct {
	opts   MarkdownOptions
	logger *zap.Logger

	once    sync.Once
	toMD    *md.Converter
	toHTML  goldmark.Markdown
	initErr error
}

// NewMarkdownConverter 创建 Markdown 转换器
func NewMarkdownConverter(opts MarkdownOptions) *MarkdownConverter {
	if opts.Strategy == "" {
		opts.Strategy = StrategyAuto
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkdownConverter{opts: opts, logger: logger}
}

var defaultMarkdown = NewMarkdownConverter(DefaultMarkdownOptions())

// HTMLToMarkdown 使用默认选项将 HTML 转换为 Markdown
func HTMLToMarkdown(ctx context.Context, doc string) (string, error) {
	return defaultMarkdown.HTMLToMarkdown(ctx, doc)
}

// MarkdownToHTML 使用默认选项将 Markdown 转换为完整的 HTML 文档
func MarkdownToHTML(ctx context.Context, markdown string) (string, error) {
	return defaultMarkdown.MarkdownToHTML(ctx, markdown)
}

// HTMLToMarkdown 将 HTML 转换为 Markdown
func (c *MarkdownConverter) HTMLToMarkdown(ctx context.Context, doc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if c.opts.Strategy == StrategyFallback {
		return fallbackHTMLToMarkdown(doc), nil
	}

	result, err := c.libraryHTMLToMarkdown(doc)
	if err == nil {
		return result, nil
	}
	if c.opts.Strategy == StrategyLibrary {
		return "", fmt.Errorf("html to markdown: %w", err)
	}

	c.logger.Warn("HTML 转 Markdown 失败，使用内置转换", zap.Error(err))
	return fallbackHTMLToMarkdown(doc), nil
}

// MarkdownToHTML 将 Markdown 转换为带默认样式的完整 HTML 文档
func (c *MarkdownConverter) MarkdownToHTML(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if c.opts.Strategy == StrategyFallback {
		return markdownDocument(fallbackMarkdownToHTML(markdown)), nil
	}

	body, err := c.libraryMarkdownToHTML(markdown)
	if err == nil {
		return markdownDocument(body), nil
	}
	if c.opts.Strategy == StrategyLibrary {
		return "", fmt.Errorf("markdown to html: %w", err)
	}

	c.logger.Warn("Markdown 转 HTML 失败，使用内置转换", zap.Error(err))
	return markdownDocument(fallbackMarkdownToHTML(markdown)), nil
}

// load 初始化转换库
func (c *MarkdownConverter) load() error {
	c.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				c.initErr = fmt.Errorf("load markdown libraries: %v", r)
			}
		}()

		conv := md.NewConverter("", true, &md.Options{
			HeadingStyle:   "atx",
			CodeBlockStyle: "fenced",
		})
		conv.AddRules(md.Rule{
			Filter: []string{"del", "s", "strike"},
			Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
				return md.String("~~" + content + "~~")
			},
		})
		c.toMD = conv

		extensions := []goldmark.Extender{
			extension.GFM, // 表格、任务列表、删除线、自动链接
			emoji.Emoji,
		}
		if c.opts.FrontMatter {
			extensions = append(extensions, meta.Meta)
		}
		if c.opts.Math {
			extensions = append(extensions, mathjax.MathJax)
		}
		c.toHTML = goldmark.New(
			goldmark.WithExtensions(extensions...),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		)
	})
	return c.initErr
}

func (c *MarkdownConverter) libraryHTMLToMarkdown(doc string) (result string, err error) {
	if err := c.load(); err != nil {
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("html-to-markdown panic: %v", r)
		}
	}()

	result, err = c.toMD.ConvertString(doc)
	if err != nil {
		return "", err
	}

	if c.opts.Format {
		formatted, ferr := markdownfmt.Process("", []byte(result))
		if ferr != nil {
			c.logger.Debug("Markdown 格式化失败，保留原始输出", zap.Error(ferr))
			return result, nil
		}
		result = string(bytes.TrimSpace(formatted))
	}
	return result, nil
}

func (c *MarkdownConverter) libraryMarkdownToHTML(markdown string) (result string, err error) {
	if err := c.load(); err != nil {
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("goldmark panic: %v", r)
		}
	}()

	var buf bytes.Buffer
	if err := c.toHTML.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const markdownDocumentTitle = "从Markdown转换的HTML"

const markdownStylesheet = `  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, 'Open Sans', 'Helvetica Neue', sans-serif;
      line-height: 1.6;
      color: #333;
      max-width: 800px;
      margin: 0 auto;
      padding: 20px;
    }
    pre {
      background-color: #f5f5f5;
      padding: 10px;
      border-radius: 4px;
      overflow-x: auto;
    }
    code {
      font-family: 'Courier New', Courier, monospace;
      background-color: #f5f5f5;
      padding: 2px 4px;
      border-radius: 4px;
    }
    blockquote {
      border-left: 4px solid #ddd;
      padding-left: 16px;
      margin-left: 0;
      color: #666;
    }
    img {
      max-width: 100%;
    }
    table {
      border-collapse: collapse;
      width: 100%;
    }
    table, th, td {
      border: 1px solid #ddd;
    }
    th, td {
      padding: 8px;
      text-align: left;
    }
    th {
      background-color: #f5f5f5;
    }
  </style>
`

// markdownDocument 将转换得到的标记包装为带默认样式的文档
func markdownDocument(body string) string {
	return wrapDocument(markdownDocumentTitle, markdownStylesheet, body)
}
