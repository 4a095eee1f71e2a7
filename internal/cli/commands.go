package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-html-packager/internal/config"
	"github.com/nerdneilsfield/go-html-packager/internal/fileio"
	"github.com/nerdneilsfield/go-html-packager/pkg/converter"
)

// bundleOutput 多文件结果的输出选项
type bundleOutput struct {
	output  string
	archive bool
}

func (o *bundleOutput) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "输出目录或 .zip 文件（默认写到配置的 output_dir 下）")
	cmd.Flags().BoolVar(&o.archive, "archive", false, "打包为 zip 文件")
}

func (a *app) newSplitCommand() *cobra.Command {
	var out bundleOutput

	cmd := &cobra.Command{
		Use:   "split <input.html>",
		Short: "将 HTML 拆分为 index.html、styles.css、script.js",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPack(cmd, string(converter.FormatSplit), args[0], out)
		},
	}
	out.register(cmd)
	return cmd
}

func (a *app) newPackCommand() *cobra.Command {
	var out bundleOutput

	cmd := &cobra.Command{
		Use:   "pack <format> <input.html>",
		Short: "将 HTML 打包为 Chrome 扩展、微信小程序或 uTools 插件",
		Example: `  htmlpack pack chrome page.html -o extension.zip
  htmlpack pack wechat page.html -o miniprogram/`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPack(cmd, args[0], args[1], out)
		},
	}
	out.register(cmd)
	return cmd
}

func (a *app) runPack(cmd *cobra.Command, formatName, input string, out bundleOutput) error {
	packager, err := a.registry.Get(formatName, a.profile)
	if err != nil {
		return err
	}

	doc, err := a.readInput(cmd, input)
	if err != nil {
		return err
	}

	files, err := packager.Pack(doc)
	if err != nil {
		return fmt.Errorf("pack %s: %w", input, err)
	}
	a.log.Info("转换完成",
		zap.String("format", string(packager.Format())),
		zap.String("input", input),
		zap.Int("files", files.Len()))

	return a.writeBundle(cmd, files, input, packager.Format(), out)
}

// writeBundle 写出多文件结果并打印文件列表
func (a *app) writeBundle(cmd *cobra.Command, files converter.Bundle, input string, format converter.Format, out bundleOutput) error {
	archive := out.archive || a.cfg.Archive
	target := out.output
	if target == "" {
		target = filepath.Join(a.cfg.OutputDir, inputStem(input)+"-"+string(format))
		if archive {
			target += ".zip"
		}
	}
	if strings.EqualFold(filepath.Ext(target), ".zip") {
		archive = true
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if archive {
		result, err := fileio.WriteArchive(target, files)
		if err != nil {
			return err
		}
		if result.Fallback {
			a.log.Warn("创建 zip 失败，已逐个写出文件", zap.String("dir", result.Path), zap.Error(result.Cause))
			notifyWarning(stderr, "无法创建 %s，文件已写到 %s", target, result.Path)
		} else {
			notifySuccess(stderr, "已写入 %s", result.Path)
		}
	} else {
		if _, err := fileio.WriteDir(target, files); err != nil {
			return err
		}
		notifySuccess(stderr, "已写入 %s", target)
	}

	printHeading(stdout, fmt.Sprintf("%s (%s)", target, format))
	renderBundleTable(stdout, files)
	return nil
}

func (a *app) newUnpackCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "unpack <format> <dir|zip>",
		Short: "将打包结果合并回单个 HTML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			packager, err := a.registry.Get(args[0], a.profile)
			if err != nil {
				return err
			}

			files, err := fileio.ReadBundle(args[1], packager.Inputs())
			if err != nil {
				return err
			}

			doc, err := packager.Unpack(files)
			if err != nil {
				return err
			}

			return a.writeText(cmd, output, doc)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件（默认写到标准输出）")
	return cmd
}

func (a *app) newMergeCommand() *cobra.Command {
	var output string
	var strict bool

	cmd := &cobra.Command{
		Use:   "merge <index.html> [styles.css] [script.js]",
		Short: "将 HTML、CSS、JS 文件合并为单个 HTML",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			parts := make([]string, 3)
			for i, path := range args {
				content, err := a.readInput(cmd, path)
				if err != nil {
					return err
				}
				parts[i] = content
			}
			if strings.TrimSpace(parts[0]) == "" {
				return fmt.Errorf("%s: %w", args[0], converter.ErrEmptyInput)
			}

			if strict || a.cfg.StrictMerge {
				doc, err := converter.MergeToHTMLStrict(parts[0], parts[1], parts[2])
				if err != nil {
					return err
				}
				return a.writeText(cmd, output, doc)
			}
			return a.writeText(cmd, output, converter.MergeFiles(parts[0], parts[1], parts[2]))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件（默认写到标准输出）")
	cmd.Flags().BoolVar(&strict, "strict", false, "找不到 </head> 或 </body> 等注入位置时报错")
	return cmd
}

func (a *app) newMarkdownCommand() *cobra.Command {
	var output, engine string

	cmd := &cobra.Command{
		Use:   "markdown <input.html>",
		Short: "将 HTML 转换为 Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.markdownConverter(engine)
			if err != nil {
				return err
			}

			doc, err := a.readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(doc) == "" {
				return fmt.Errorf("%s: %w", args[0], converter.ErrEmptyInput)
			}

			markdown, err := c.HTMLToMarkdown(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return a.writeText(cmd, output, markdown)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件（默认写到标准输出）")
	cmd.Flags().StringVar(&engine, "engine", "", "转换引擎 (auto, library, fallback)")
	return cmd
}

func (a *app) newHTMLCommand() *cobra.Command {
	var output, engine string
	var math bool

	cmd := &cobra.Command{
		Use:   "html <input.md>",
		Short: "将 Markdown 转换为带默认样式的 HTML 文档",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("math") {
				a.cfg.MarkdownMath = math
			}
			c, err := a.markdownConverter(engine)
			if err != nil {
				return err
			}

			markdown, err := a.readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(markdown) == "" {
				return fmt.Errorf("%s: %w", args[0], converter.ErrEmptyInput)
			}

			doc, err := c.MarkdownToHTML(cmd.Context(), markdown)
			if err != nil {
				return err
			}
			return a.writeText(cmd, output, doc)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件（默认写到标准输出）")
	cmd.Flags().StringVar(&engine, "engine", "", "转换引擎 (auto, library, fallback)")
	cmd.Flags().BoolVar(&math, "math", false, "识别 $...$ 数学公式")
	return cmd
}

func (a *app) markdownConverter(engine string) (*converter.MarkdownConverter, error) {
	opts := a.cfg.MarkdownOptions()
	if engine != "" {
		strategy, err := converter.ParseMarkdownStrategy(engine)
		if err != nil {
			return nil, err
		}
		opts.Strategy = strategy
	}
	opts.Logger = a.log.Zap()
	return converter.NewMarkdownConverter(opts), nil
}

func (a *app) newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <input.html>",
		Short: "查看 HTML 的结构、内联样式脚本和外部资源",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readInput(cmd, args[0])
			if err != nil {
				return err
			}

			st, err := converter.ParseStructure(doc)
			if err != nil {
				return err
			}
			res, err := converter.ExtractExternalResources(doc)
			if err != nil {
				return err
			}
			parts := converter.SplitHTML(doc)

			w := cmd.OutOrStdout()
			printHeading(w, args[0])

			tw := table.NewWriter()
			tw.SetOutputMirror(w)
			tw.AppendRows([]table.Row{
				{"Doctype", st.Doctype},
				{"标题", st.Title},
				{"内联样式", formatSize(len(parts.CSS))},
				{"内联脚本", formatSize(len(parts.JS))},
				{"外部样式表", len(res.Stylesheets)},
				{"外部脚本", len(res.Scripts)},
				{"正文预览", preview(converter.ExtractHTML(doc), previewWidth)},
			})
			tw.SetStyle(table.StyleLight)
			tw.Render()

			printResources(w, "外部样式表", res.Stylesheets)
			printResources(w, "外部脚本", res.Scripts)
			return nil
		},
	}
}

func printResources(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	labelColor.Fprintln(w, label+":")
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func (a *app) newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "列出支持的打包格式",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"格式", "主文件", "反向转换读取"})
			for _, format := range a.registry.Formats() {
				packager, err := a.registry.Get(string(format), a.profile)
				if err != nil {
					return err
				}
				tw.AppendRow(table.Row{format, packager.Primary(), strings.Join(packager.Inputs(), ", ")})
			}
			tw.SetStyle(table.StyleLight)
			tw.Render()
			return nil
		},
	}
}

func (a *app) newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "管理配置文件",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "写出默认配置文件（默认 $HOME/.htmlpack.yaml）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				path = filepath.Join(home, config.ConfigName+".yaml")
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s 已存在，使用 --force 覆盖", path)
			}

			if err := config.SaveConfig(config.NewDefaultConfig(), path); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			a.log.Info("已写出默认配置", zap.String("path", path))
			notifySuccess(cmd.ErrOrStderr(), "已写入 %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "覆盖已存在的配置文件")

	configCmd.AddCommand(initCmd)
	return configCmd
}

// readInput 读取输入文件，"-" 表示标准输入
func (a *app) readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return fileio.DecodeText(data), nil
	}
	a.log.Debug("读取输入", zap.String("path", path))
	return fileio.ReadText(path)
}

// writeText 写出单个文本结果，未指定输出文件时写到标准输出
func (a *app) writeText(cmd *cobra.Command, output, content string) error {
	if output == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), content)
		return err
	}

	if err := fileio.WriteFile(output, content); err != nil {
		return err
	}
	notifySuccess(cmd.ErrOrStderr(), "已写入 %s", output)
	return nil
}

func inputStem(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsUserError 判断错误是否由输入引起，用于选择提示方式
func IsUserError(err error) bool {
	return errors.Is(err, converter.ErrEmptyInput) || errors.Is(err, converter.ErrUnknownFormat)
}
