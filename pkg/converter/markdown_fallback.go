package converter

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// 内置的正则转换，只处理常见的逐行结构；嵌套列表、内联 HTML、
// 转义字符都不能正确往返

var (
	fbHeadingRes      [6]*regexp.Regexp
	fbParagraphRe     = regexp.MustCompile(`(?i)<p\b[^>]*>(.*?)</p>`)
	fbLinkRe          = regexp.MustCompile(`(?i)<a\b[^>]*href="(.*?)"[^>]*>(.*?)</a>`)
	fbStrongRe        = regexp.MustCompile(`(?i)<strong\b[^>]*>(.*?)</strong>`)
	fbBoldRe          = regexp.MustCompile(`(?i)<b\b[^>]*>(.*?)</b>`)
	fbEmRe            = regexp.MustCompile(`(?i)<em\b[^>]*>(.*?)</em>`)
	fbItalicRe        = regexp.MustCompile(`(?i)<i\b[^>]*>(.*?)</i>`)
	fbImageRe         = regexp.MustCompile(`(?i)<img\b[^>]*src="(.*?)"[^>]*>`)
	fbUnorderedRe     = regexp.MustCompile(`(?i)<ul\b[^>]*>([\s\S]*?)</ul>`)
	fbOrderedRe       = regexp.MustCompile(`(?i)<ol\b[^>]*>([\s\S]*?)</ol>`)
	fbListItemRe      = regexp.MustCompile(`(?i)<li\b[^>]*>([\s\S]*?)</li>`)
	fbPreCodeRe       = regexp.MustCompile(`(?i)<pre\b[^>]*><code\b[^>]*>([\s\S]*?)</code></pre>`)
	fbInlineCodeRe    = regexp.MustCompile(`(?i)<code\b[^>]*>(.*?)</code>`)
	fbRuleRe          = regexp.MustCompile(`(?i)<hr\b[^>]*>`)
	fbBlockquoteRe    = regexp.MustCompile(`(?i)<blockquote\b[^>]*>([\s\S]*?)</blockquote>`)
	fbAnyTagRe        = regexp.MustCompile(`<[^>]*>`)
	fbEntityReplacers = []struct{ entity, char string }{
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&amp;", "&"},
		{"&quot;", `"`},
		{"&apos;", "'"},
	}
)

func init() {
	for i := range fbHeadingRes {
		fbHeadingRes[i] = regexp.MustCompile(fmt.Sprintf(`(?i)<h%d\b[^>]*>(.*?)</h%d>`, i+1, i+1))
	}
}

// fallbackHTMLToMarkdown 基于正则的 HTML 转 Markdown
func fallbackHTMLToMarkdown(doc string) string {
	markdown := doc

	for i, re := range fbHeadingRes {
		markdown = re.ReplaceAllString(markdown, strings.Repeat("#", i+1)+" ${1}\n")
	}

	markdown = fbParagraphRe.ReplaceAllString(markdown, "${1}\n\n")
	markdown = fbLinkRe.ReplaceAllString(markdown, "[${2}](${1})")

	markdown = fbStrongRe.ReplaceAllString(markdown, "**${1}**")
	markdown = fbBoldRe.ReplaceAllString(markdown, "**${1}**")
	markdown = fbEmRe.ReplaceAllString(markdown, "*${1}*")
	markdown = fbItalicRe.ReplaceAllString(markdown, "*${1}*")

	markdown = fbImageRe.ReplaceAllString(markdown, "![](${1})")

	markdown = fbUnorderedRe.ReplaceAllStringFunc(markdown, func(list string) string {
		inner := fbUnorderedRe.FindStringSubmatch(list)[1]
		return fbListItemRe.ReplaceAllString(inner, "- ${1}\n")
	})
	markdown = fbOrderedRe.ReplaceAllStringFunc(markdown, func(list string) string {
		inner := fbOrderedRe.FindStringSubmatch(list)[1]
		index := 0
		return fbListItemRe.ReplaceAllStringFunc(inner, func(item string) string {
			index++
			return strconv.Itoa(index) + ". " + fbListItemRe.FindStringSubmatch(item)[1] + "\n"
		})
	})

	markdown = fbPreCodeRe.ReplaceAllString(markdown, "```\n${1}\n```\n")
	markdown = fbInlineCodeRe.ReplaceAllString(markdown, "`${1}`")
	markdown = fbRuleRe.ReplaceAllString(markdown, "---\n")

	markdown = fbBlockquoteRe.ReplaceAllStringFunc(markdown, func(quote string) string {
		inner := fbBlockquoteRe.FindStringSubmatch(quote)[1]
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n")
	})

	markdown = fbAnyTagRe.ReplaceAllString(markdown, "")
	for _, r := range fbEntityReplacers {
		markdown = strings.ReplaceAll(markdown, r.entity, r.char)
	}

	return strings.TrimSpace(markdown)
}

var (
	mdFenceRe       = regexp.MustCompile("```([^\\n`]*)\\n?([\\s\\S]*?)```")
	mdHeadingRes    [6]*regexp.Regexp
	mdParagraphRe   = regexp.MustCompile(`(?m)^([^<#\-*\d>\n\r].*?)$`)
	mdInlineCodeRe  = regexp.MustCompile("`(.*?)`")
	mdImageRe       = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	mdLinkRe        = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	mdStrongRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdEmRe          = regexp.MustCompile(`\*(.*?)\*`)
	mdUnorderedRe   = regexp.MustCompile(`^- (.*)$`)
	mdOrderedRe     = regexp.MustCompile(`^\d+\. (.*)$`)
	mdRuleRe        = regexp.MustCompile(`(?m)^---$`)
	mdBlockquoteRe  = regexp.MustCompile(`(?m)^> (.*?)$`)
	mdPlaceholderRe = regexp.MustCompile(`<!--fallback-(\d+)-->`)
)

func init() {
	for i := range mdHeadingRes {
		mdHeadingRes[i] = regexp.MustCompile(fmt.Sprintf(`(?m)^%s (.*?)$`, strings.Repeat("#", i+1)))
	}
}

// fallbackMarkdownToHTML 基于正则的 Markdown 转 HTML，只输出 body 内的标记
func fallbackMarkdownToHTML(markdown string) string {
	text := strings.ReplaceAll(markdown, "\r\n", "\n")

	// 代码先替换为占位符，后续规则不会改写其中的内容
	var protected []string
	protect := func(fragment string) string {
		protected = append(protected, fragment)
		return fmt.Sprintf("<!--fallback-%d-->", len(protected)-1)
	}

	text = mdFenceRe.ReplaceAllStringFunc(text, func(block string) string {
		m := mdFenceRe.FindStringSubmatch(block)
		lang := strings.TrimSpace(m[1])
		open := "<pre><code>"
		if lang != "" {
			open = `<pre><code class="language-` + html.EscapeString(lang) + `">`
		}
		return protect(open + html.EscapeString(m[2]) + "</code></pre>")
	})

	for i, re := range mdHeadingRes {
		tag := "h" + strconv.Itoa(i+1)
		text = re.ReplaceAllString(text, "<"+tag+">${1}</"+tag+">")
	}

	text = mdParagraphRe.ReplaceAllString(text, "<p>${1}</p>")

	text = mdInlineCodeRe.ReplaceAllStringFunc(text, func(code string) string {
		return protect("<code>" + html.EscapeString(mdInlineCodeRe.FindStringSubmatch(code)[1]) + "</code>")
	})

	text = mdImageRe.ReplaceAllString(text, `<img src="${2}" alt="${1}">`)
	text = mdLinkRe.ReplaceAllString(text, `<a href="${2}">${1}</a>`)
	text = mdStrongRe.ReplaceAllString(text, "<strong>${1}</strong>")
	text = mdEmRe.ReplaceAllString(text, "<em>${1}</em>")

	text = wrapListItems(text)

	text = mdRuleRe.ReplaceAllString(text, "<hr>")
	text = mdBlockquoteRe.ReplaceAllString(text, "<blockquote>${1}</blockquote>")

	return mdPlaceholderRe.ReplaceAllStringFunc(text, func(marker string) string {
		i, err := strconv.Atoi(mdPlaceholderRe.FindStringSubmatch(marker)[1])
		if err != nil || i >= len(protected) {
			return marker
		}
		return protected[i]
	})
}

// wrapListItems 将连续的 "- " 行包装为 <ul>，连续的 "1. " 行包装为 <ol>
func wrapListItems(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	current := ""
	closeList := func() {
		if current != "" {
			out[len(out)-1] += "</" + current + ">"
			current = ""
		}
	}

	for _, line := range lines {
		kind, item := "", ""
		if m := mdUnorderedRe.FindStringSubmatch(line); m != nil {
			kind, item = "ul", m[1]
		} else if m := mdOrderedRe.FindStringSubmatch(line); m != nil {
			kind, item = "ol", m[1]
		}

		if kind == "" {
			closeList()
			out = append(out, line)
			continue
		}

		li := "<li>" + item + "</li>"
		if kind != current {
			closeList()
			li = "<" + kind + ">" + li
			current = kind
		}
		out = append(out, li)
	}
	closeList()

	return strings.Join(out, "\n")
}
