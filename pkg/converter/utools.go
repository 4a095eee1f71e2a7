package converter

import "fmt"

// uTools 插件中的文件路径
const (
	UtoolsPluginJSON = "plugin.json"
	UtoolsPreload    = "preload.js"
	UtoolsIndexHTML  = "index.html"
	UtoolsStyles     = "styles.css"
	UtoolsScript     = "script.js"
	UtoolsReadme     = "README.txt"
)

const utoolsReadme = "请在此目录放置一个名为logo.png的图标文件，尺寸建议为128x128像素。"

type utoolsPlugin struct {
	PluginName  string          `json:"pluginName"`
	Description string          `json:"description"`
	Main        string          `json:"main"`
	Version     string          `json:"version"`
	Logo        string          `json:"logo"`
	Author      string          `json:"author"`
	Preload     string          `json:"preload"`
	Features    []utoolsFeature `json:"features"`
}

type utoolsFeature struct {
	Code    string   `json:"code"`
	Explain string   `json:"explain"`
	Cmds    []string `json:"cmds"`
}

const utoolsPreloadTemplate = `window.exports = {
  %q: {
    mode: "none",
    args: {
      enter: (action) => {
        window.utools.hideMainWindow();
        // 执行进入插件时的逻辑
      }
    }
  }
};`

// HTMLToUtoolsPlugin 使用默认元数据将 HTML 转换为 uTools 插件
func HTMLToUtoolsPlugin(doc string) Bundle {
	return DefaultProfile().HTMLToUtoolsPlugin(doc)
}

// UtoolsPluginToHTML 将 uTools 插件文件合并回单个 HTML
func UtoolsPluginToHTML(files Bundle) string {
	return MergeToHTML(files.Get(UtoolsIndexHTML), files.Get(UtoolsStyles), files.Get(UtoolsScript))
}

// HTMLToUtoolsPlugin 将 HTML 转换为 uTools 插件
// 拆分出的 styles.css、script.js 与 index.html 同级，引用路径无需改写
func (p Profile) HTMLToUtoolsPlugin(doc string) Bundle {
	parts := SplitHTML(doc)

	plugin := utoolsPlugin{
		PluginName:  p.Utools.PluginName,
		Description: p.Utools.Description,
		Main:        UtoolsIndexHTML,
		Version:     p.Utools.Version,
		Logo:        "logo.png",
		Author:      p.Utools.Author,
		Preload:     UtoolsPreload,
		Features: []utoolsFeature{
			{
				Code:    p.Utools.FeatureCode,
				Explain: p.Utools.FeatureExplain,
				Cmds:    p.Utools.Commands,
			},
		},
	}

	return NewBundle(
		File{Path: UtoolsPluginJSON, Content: marshalIndent(plugin)},
		File{Path: UtoolsPreload, Content: fmt.Sprintf(utoolsPreloadTemplate, p.Utools.FeatureCode)},
		File{Path: UtoolsIndexHTML, Content: parts.HTML},
		File{Path: UtoolsStyles, Content: parts.CSS},
		File{Path: UtoolsScript, Content: parts.JS},
		File{Path: UtoolsReadme, Content: utoolsReadme},
	)
}
