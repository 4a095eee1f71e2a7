package converter

import (
	"regexp"
	"strings"
)

// 拆分后 HTML 中引用的文件名
const (
	SplitHTMLFile = "index.html"
	SplitCSSFile  = "styles.css"
	SplitJSFile   = "script.js"
)

const (
	stylesheetLink = `<link rel="stylesheet" href="styles.css">`
	scriptRef      = `<script src="script.js"></script>`
)

var htmlOpenTagRe = regexp.MustCompile(`<html([^>]*)>`)

// Parts 拆分结果
type Parts struct {
	HTML string // 去除样式和内联脚本并加入外部引用后的 HTML
	CSS  string
	JS   string
}

// SplitHTML 将单个 HTML 拆分为 HTML、CSS、JS 三部分
// 返回的 HTML 中会加入对 styles.css 和 script.js 的引用
func SplitHTML(doc string) Parts {
	css := ExtractCSS(doc)
	js := ExtractJS(doc)
	html := ExtractHTML(doc)

	switch {
	case strings.Contains(html, "</head>"):
		html, _ = replaceFirst(html, "</head>", stylesheetLink+"\n</head>")
	case htmlOpenTagRe.MatchString(html):
		html = replaceFirstRegexp(htmlOpenTagRe, html, "<html${1}>\n<head>\n"+stylesheetLink+"\n</head>")
	}

	switch {
	case strings.Contains(html, "</body>"):
		html, _ = replaceFirst(html, "</body>", scriptRef+"\n</body>")
	case strings.Contains(html, "</html>"):
		html, _ = replaceFirst(html, "</html>", scriptRef+"\n</html>")
	}

	return Parts{HTML: html, CSS: css, JS: js}
}

// SplitBundle 拆分为 index.html、styles.css、script.js 三个文件，空的部分不输出
func SplitBundle(doc string) Bundle {
	parts := SplitHTML(doc)

	var b Bundle
	if parts.HTML != "" {
		b.Set(SplitHTMLFile, parts.HTML)
	}
	if parts.CSS != "" {
		b.Set(SplitCSSFile, parts.CSS)
	}
	if parts.JS != "" {
		b.Set(SplitJSFile, parts.JS)
	}
	return b
}

// SplitBundleToHTML 将 index.html、styles.css、script.js 合并回单个文档
func SplitBundleToHTML(files Bundle) string {
	return MergeToHTML(files.Get(SplitHTMLFile), files.Get(SplitCSSFile), files.Get(SplitJSFile))
}

// replaceFirstRegexp 只替换第一个匹配，模板支持 ${n} 分组引用
func replaceFirstRegexp(re *regexp.Regexp, s, template string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var dst []byte
	dst = re.ExpandString(dst, template, s, loc)
	return s[:loc[0]] + string(dst) + s[loc[1]:]
}
