package converter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Resources HTML 引用的外部资源
type Resources struct {
	Stylesheets []string // <link rel="stylesheet"> 的 href
	Scripts     []string // <script src> 的 src
}

// ExtractExternalResources 列出文档引用的外部样式表和脚本
func ExtractExternalResources(doc string) (Resources, error) {
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return Resources{}, fmt.Errorf("parse html: %w", err)
	}

	res := Resources{Stylesheets: []string{}, Scripts: []string{}}
	dom.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			res.Stylesheets = append(res.Stylesheets, href)
		}
	})
	dom.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			res.Scripts = append(res.Scripts, src)
		}
	})

	return res, nil
}

const defaultDoctype = "<!DOCTYPE html>"

// Structure 文档的基本结构
type Structure struct {
	Doctype string // 文档类型声明，缺失时为 <!DOCTYPE html>
	HTML    string // 序列化后的 <html> 元素
	Title   string
}

// ParseStructure 解析文档的 doctype 与根元素
// 解析器会补全缺失的 html、head、body 元素
func ParseStructure(doc string) (Structure, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return Structure{}, fmt.Errorf("parse html: %w", err)
	}

	st := Structure{Doctype: defaultDoctype}
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		switch {
		case n.Type == html.DoctypeNode:
			st.Doctype = renderDoctype(n)
		case n.Type == html.ElementNode && n.Data == "html":
			var buf bytes.Buffer
			if err := html.Render(&buf, n); err != nil {
				return Structure{}, fmt.Errorf("render html element: %w", err)
			}
			st.HTML = buf.String()
			st.Title = findTitle(n)
		}
	}

	return st, nil
}

func renderDoctype(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return defaultDoctype
	}
	return buf.String()
}

// findTitle 深度优先查找第一个 <title> 的文本
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var builder strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				builder.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(builder.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}
