package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/pterm/pterm"

	"github.com/nerdneilsfield/go-html-packager/pkg/converter"
)

const previewWidth = 40

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgYellow)
)

func printHeading(w io.Writer, title string) {
	headingColor.Fprintln(w, title)
}

// renderBundleTable 列出包中的文件、大小和内容预览
func renderBundleTable(w io.Writer, b converter.Bundle) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"文件", "大小", "预览"})

	total := 0
	for _, f := range b.Files() {
		total += len(f.Content)
		tw.AppendRow(table.Row{f.Path, formatSize(len(f.Content)), preview(f.Content, previewWidth)})
	}

	tw.AppendFooter(table.Row{fmt.Sprintf("%d 个文件", b.Len()), formatSize(total), ""})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// preview 将空白折叠为单个空格，按显示宽度截断
func preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "(空)"
	}
	return runewidth.Truncate(s, width, "…")
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func notifySuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, pterm.Success.Sprintf(format, args...))
}

func notifyWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, pterm.Warning.Sprintf(format, args...))
}
