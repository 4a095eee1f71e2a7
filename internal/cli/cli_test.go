package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-html-packager/internal/cli"
	"github.com/nerdneilsfield/go-html-packager/internal/config"
	"github.com/nerdneilsfield/go-html-packager/pkg/converter"
)

const page = `<!DOCTYPE html>
<html>
<head>
  <title>Demo</title>
  <link rel="stylesheet" href="a.css">
  <style>.box { color: red; }</style>
</head>
<body>
  <div class="box" onclick="hello()">hi</div>
  <script>function hello() { alert(1); }</script>
</body>
</html>`

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	color.NoColor = true
	os.Exit(m.Run())
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run 在进程内执行命令，使用空配置避免读取用户目录下的配置文件
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	return runWithConfig(t, "", stdin, args...)
}

func runWithConfig(t *testing.T, configYAML, stdin string, args ...string) result {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "htmlpack.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0o644))

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCommand("1.0.0", "abc123", "2024-01-01")
	cmd.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// TestCLIHelp 测试帮助信息
func TestCLIHelp(t *testing.T) {
	res := run(t, "", "--help")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "htmlpack")
	for _, sub := range []string{"split", "merge", "pack", "unpack", "markdown", "html", "inspect", "formats"} {
		assert.Contains(t, res.stdout, sub)
	}
	assert.Contains(t, res.stdout, "--config")
	assert.Contains(t, res.stdout, "--log-level")
}

// TestCLIVersion 测试版本信息
func TestCLIVersion(t *testing.T) {
	res := run(t, "", "--version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "1.0.0 (commit abc123, built 2024-01-01)")
}

func TestCLISplit(t *testing.T) {
	input := writeInput(t, "page.html", page)
	outDir := filepath.Join(t.TempDir(), "split")

	res := run(t, "", "split", input, "-o", outDir)
	require.NoError(t, res.err)

	assert.Equal(t, ".box { color: red; }", readOutput(t, filepath.Join(outDir, "styles.css")))
	assert.Equal(t, "function hello() { alert(1); }", readOutput(t, filepath.Join(outDir, "script.js")))
	assert.Contains(t, readOutput(t, filepath.Join(outDir, "index.html")), `<link rel="stylesheet" href="styles.css">`)

	assert.Contains(t, res.stdout, "index.html")
	assert.Contains(t, res.stdout, "3 个文件")
	assert.Contains(t, res.stderr, outDir)
}

func TestCLIPackUnpackArchive(t *testing.T) {
	input := writeInput(t, "page.html", page)
	archive := filepath.Join(t.TempDir(), "ext.zip")

	res := run(t, "", "pack", "chrome", input, "-o", archive)
	require.NoError(t, res.err)
	assert.FileExists(t, archive)
	assert.Contains(t, res.stdout, "manifest.json")

	res = run(t, "", "unpack", "chrome", archive)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, ".box { color: red; }")
	assert.Contains(t, res.stdout, "function hello() { alert(1); }")
}

func TestCLIPackWechatDirectory(t *testing.T) {
	input := writeInput(t, "page.html", page)
	outDir := filepath.Join(t.TempDir(), "mp")

	res := run(t, "", "pack", "miniprogram", input, "-o", outDir)
	require.NoError(t, res.err)

	wxml := readOutput(t, filepath.Join(outDir, "pages", "index", "index.wxml"))
	assert.Contains(t, wxml, `bindtap="hello()"`)

	output := filepath.Join(t.TempDir(), "back.html")
	res = run(t, "", "unpack", "wechat", outDir, "-o", output)
	require.NoError(t, res.err)
	assert.Contains(t, readOutput(t, output), `onclick="hello()"`)
}

func TestCLIPackUsesConfig(t *testing.T) {
	input := writeInput(t, "page.html", page)
	outDir := t.TempDir()

	res := runWithConfig(t, "archive: true\noutput_dir: "+outDir+"\n", "", "pack", "utools", input)
	require.NoError(t, res.err)
	assert.FileExists(t, filepath.Join(outDir, "page-utools.zip"))
}

func TestCLIPackProfile(t *testing.T) {
	input := writeInput(t, "page.html", page)
	profile := writeInput(t, "profile.toml", "[chrome]\nname = \"Profile Extension\"\n")
	outDir := filepath.Join(t.TempDir(), "ext")

	res := run(t, "", "--profile", profile, "pack", "chrome", input, "-o", outDir)
	require.NoError(t, res.err)
	assert.Contains(t, readOutput(t, filepath.Join(outDir, "manifest.json")), `"name": "Profile Extension"`)
}

func TestCLIErrors(t *testing.T) {
	input := writeInput(t, "page.html", page)

	t.Run("未知格式", func(t *testing.T) {
		res := run(t, "", "pack", "crome", input)
		require.Error(t, res.err)
		assert.True(t, errors.Is(res.err, converter.ErrUnknownFormat))
		assert.Contains(t, res.err.Error(), "chrome")
		assert.True(t, cli.IsUserError(res.err))
	})

	t.Run("空输入", func(t *testing.T) {
		empty := writeInput(t, "empty.html", "  \n")
		res := run(t, "", "pack", "chrome", empty, "-o", filepath.Join(t.TempDir(), "x"))
		assert.ErrorIs(t, res.err, converter.ErrEmptyInput)
	})

	t.Run("主文件缺失", func(t *testing.T) {
		res := run(t, "", "unpack", "utools", t.TempDir())
		var missing *converter.MissingFileError
		require.True(t, errors.As(res.err, &missing))
		assert.Equal(t, "index.html", missing.Path)
	})

	t.Run("参数数量", func(t *testing.T) {
		res := run(t, "", "pack", "chrome")
		assert.Error(t, res.err)
	})

	t.Run("未知引擎", func(t *testing.T) {
		res := run(t, "", "markdown", "--engine", "pandoc", input)
		assert.Error(t, res.err)
	})
}

func TestCLIMerge(t *testing.T) {
	html := writeInput(t, "index.html", "<p>hello</p>")
	css := writeInput(t, "styles.css", "p { color: red; }")
	js := writeInput(t, "script.js", "console.log(1);")

	t.Run("合并到标准输出", func(t *testing.T) {
		res := run(t, "", "merge", html, css, js)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "<title>合并的HTML文档</title>")
		assert.Contains(t, res.stdout, "<style>\np { color: red; }\n</style>")
		assert.Contains(t, res.stdout, "<script>\nconsole.log(1);\n</script>")
	})

	t.Run("从标准输入读取", func(t *testing.T) {
		res := run(t, "<p>from stdin</p>", "merge", "-")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "<p>from stdin</p>")
	})

	t.Run("严格模式", func(t *testing.T) {
		bodyOnly := writeInput(t, "body.html", "<body>x</body>")
		res := run(t, "", "merge", "--strict", bodyOnly, css)

		var anchorErr *converter.AnchorError
		require.True(t, errors.As(res.err, &anchorErr))
		assert.Equal(t, []string{"css"}, anchorErr.Parts)

		res = run(t, "", "merge", bodyOnly, css)
		require.NoError(t, res.err)
	})
}

func TestCLIMarkdown(t *testing.T) {
	t.Run("HTML转Markdown", func(t *testing.T) {
		input := writeInput(t, "t.html", "<h1>Title</h1>")
		res := run(t, "", "markdown", "--engine", "fallback", input)
		require.NoError(t, res.err)
		assert.True(t, strings.HasPrefix(res.stdout, "# Title"))
	})

	t.Run("Markdown转HTML", func(t *testing.T) {
		input := writeInput(t, "t.md", "# Title\n\nSome **bold** text")
		output := filepath.Join(t.TempDir(), "out.html")

		res := run(t, "", "html", input, "-o", output)
		require.NoError(t, res.err)

		doc := readOutput(t, output)
		assert.Contains(t, doc, "<h1>Title</h1>")
		assert.Contains(t, doc, "<strong>bold</strong>")
		assert.Contains(t, doc, "<title>从Markdown转换的HTML</title>")
	})

	t.Run("配置选择内置转换", func(t *testing.T) {
		input := writeInput(t, "t.md", "# Title")
		res := runWithConfig(t, "markdown_engine: fallback\n", "", "html", input)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "<h1>Title</h1>")
	})
}

func TestCLIInspect(t *testing.T) {
	input := writeInput(t, "page.html", page)

	res := run(t, "", "inspect", input)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "<!DOCTYPE html>")
	assert.Contains(t, res.stdout, "Demo")
	assert.Contains(t, res.stdout, "a.css")
}

func TestCLIFormats(t *testing.T) {
	res := run(t, "", "formats")
	require.NoError(t, res.err)

	for _, format := range []string{"chrome", "split", "utools", "wechat"} {
		assert.Contains(t, res.stdout, format)
	}
	assert.Contains(t, res.stdout, "pages/index/index.wxml")
}

func TestCLIConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "htmlpack.yaml")

	res := run(t, "", "config", "init", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, path)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.NewDefaultConfig(), loaded)

	t.Run("已存在时拒绝覆盖", func(t *testing.T) {
		res := run(t, "", "config", "init", path)
		assert.Error(t, res.err)

		res = run(t, "", "config", "init", "--force", path)
		assert.NoError(t, res.err)
	})
}
