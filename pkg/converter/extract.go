// Package converter 实现单文件 HTML 与多文件打包格式之间的互相转换
//
// 所有转换都是纯函数：不修改输入，不保存状态。标记的提取与改写基于正则匹配，
// 对嵌套或不规范的标记不做结构化处理。
package converter

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

var (
	styleBlockRe  = regexp.MustCompile(`(?i)<style[^>]*>([\s\S]*?)</style>`)
	scriptBlockRe = regexp.MustCompile(`(?i)(<script[^>]*>)([\s\S]*?)</script>`)

	// inlineScriptRe 只匹配开始标签中不含 src= 的 script 块
	inlineScriptRe = regexp2.MustCompile(`<script(?![^>]*src=)[^>]*>[\s\S]*?</script>`, regexp2.IgnoreCase)
)

// inlineScriptTimeout 回溯引擎在超大且不规范的输入上可能很慢，超时后改用逐个匹配
const inlineScriptTimeout = 2 * time.Second

func init() {
	inlineScriptRe.MatchTimeout = inlineScriptTimeout
}

// ExtractCSS 提取所有 <style> 块的内容，按文档顺序以换行拼接
func ExtractCSS(doc string) string {
	var builder strings.Builder
	for _, m := range styleBlockRe.FindAllStringSubmatch(doc, -1) {
		builder.WriteString(m[1])
		builder.WriteString("\n")
	}
	return strings.TrimSpace(builder.String())
}

// ExtractJS 提取所有内联 <script> 块的内容
// 开始标签带 src= 的脚本引用外部文件，整段跳过
func ExtractJS(doc string) string {
	var builder strings.Builder
	for _, m := range scriptBlockRe.FindAllStringSubmatch(doc, -1) {
		if hasSrc(m[1]) {
			continue
		}
		builder.WriteString(m[2])
		builder.WriteString("\n")
	}
	return strings.TrimSpace(builder.String())
}

// ExtractHTML 移除所有 <style> 块和内联 <script> 块，返回剩余标记
func ExtractHTML(doc string) string {
	result := styleBlockRe.ReplaceAllString(doc, "")
	result = removeInlineScripts(result)
	return strings.TrimSpace(result)
}

// removeInlineScripts 删除开始标签不含 src= 的 script 块
// regexp2 按 rune 匹配，会把非法 UTF-8 字节替换为 U+FFFD，这类输入直接逐字节处理
func removeInlineScripts(s string) string {
	if !utf8.ValidString(s) {
		return removeInlineScriptBlocks(s)
	}

	out, err := inlineScriptRe.Replace(s, "", -1, -1)
	if err == nil {
		return out
	}

	// 超时：逐个匹配并检查开始标签，结果相同
	return removeInlineScriptBlocks(s)
}

func removeInlineScriptBlocks(s string) string {
	return scriptBlockRe.ReplaceAllStringFunc(s, func(block string) string {
		m := scriptBlockRe.FindStringSubmatch(block)
		if hasSrc(m[1]) {
			return block
		}
		return ""
	})
}

func hasSrc(openTag string) bool {
	return strings.Contains(strings.ToLower(openTag), "src=")
}
