package converter

import (
	"regexp"
	"strings"
)

const mergedDocumentTitle = "合并的HTML文档"

var (
	headRegionRe = regexp.MustCompile(`(?i)<head[^>]*>[\s\S]*?</head>`)
	bodyRegionRe = regexp.MustCompile(`(?i)<body[^>]*>[\s\S]*?</body>`)
)

// MergeToHTML 将 HTML、CSS、JS 合并为单个 HTML 文档
//
// 输入既没有 head 区域也没有 body 区域时，先生成完整的文档骨架。
// 注入只替换锚点字符串的第一次出现；找不到锚点时对应内容被静默丢弃，
// 需要感知这种情况时使用 MergeToHTMLStrict。
func MergeToHTML(html, css, js string) string {
	result, _ := merge(html, css, js)
	return result
}

// MergeToHTMLStrict 与 MergeToHTML 输出相同，但有内容无法注入时返回 *AnchorError
func MergeToHTMLStrict(html, css, js string) (string, error) {
	result, dropped := merge(html, css, js)
	if len(dropped) > 0 {
		return result, &AnchorError{Parts: dropped}
	}
	return result, nil
}

// MergeFiles 合并 HTML+CSS+JS 为单个 HTML，等同于 MergeToHTML
func MergeFiles(html, css, js string) string {
	return MergeToHTML(html, css, js)
}

// merge 执行合并，返回结果和未能注入的部分
func merge(html, css, js string) (string, []string) {
	hasHead := headRegionRe.MatchString(html)
	hasBody := bodyRegionRe.MatchString(html)

	result := html
	if !hasHead && !hasBody {
		result = wrapDocument(mergedDocumentTitle, "", html)
	}

	var dropped []string

	if css != "" {
		var ok bool
		if hasHead {
			result, ok = replaceFirst(result, "</head>", "<style>\n"+css+"\n</style>\n</head>")
		} else {
			result, ok = replaceFirst(result, "<head>", "<head>\n<style>\n"+css+"\n</style>")
		}
		if !ok {
			dropped = append(dropped, "css")
		}
	}

	if js != "" {
		var ok bool
		if hasBody {
			result, ok = replaceFirst(result, "</body>", "<script>\n"+js+"\n</script>\n</body>")
		} else {
			result, ok = replaceFirst(result, "</html>", "<script>\n"+js+"\n</script>\n</html>")
		}
		if !ok {
			dropped = append(dropped, "js")
		}
	}

	return result, dropped
}

// replaceFirst 字面替换第一次出现的 anchor，返回是否找到
func replaceFirst(s, anchor, replacement string) (string, bool) {
	i := strings.Index(s, anchor)
	if i < 0 {
		return s, false
	}
	return s[:i] + replacement + s[i+len(anchor):], true
}

// wrapDocument 生成带有固定骨架的完整 HTML 文档
func wrapDocument(title, headExtra, body string) string {
	var builder strings.Builder
	builder.WriteString("<!DOCTYPE html>\n")
	builder.WriteString("<html lang=\"zh-CN\">\n")
	builder.WriteString("<head>\n")
	builder.WriteString("  <meta charset=\"UTF-8\">\n")
	builder.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	builder.WriteString("  <title>" + title + "</title>\n")
	builder.WriteString(headExtra)
	builder.WriteString("</head>\n")
	builder.WriteString("<body>\n")
	builder.WriteString(body)
	builder.WriteString("\n</body>\n")
	builder.WriteString("</html>")
	return builder.String()
}
