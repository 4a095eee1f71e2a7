package converter

import (
	"regexp"
	"strings"
)

// 微信小程序中的文件路径
const (
	WechatAppJSON       = "app.json"
	WechatAppJS         = "app.js"
	WechatAppWXSS       = "app.wxss"
	WechatProjectConfig = "project.config.json"
	WechatSitemap       = "sitemap.json"
	WechatPageWXML      = "pages/index/index.wxml"
	WechatPageWXSS      = "pages/index/index.wxss"
	WechatPageJS        = "pages/index/index.js"
	WechatPageJSON      = "pages/index/index.json"
)

const wechatDocumentTitle = "从微信小程序转换的HTML"

// 小程序方言改写用到的模式
var (
	bodyInnerRe     = regexp.MustCompile(`(?i)<body[^>]*>([\s\S]*?)</body>`)
	anchorOpenRe    = regexp.MustCompile(`<a href="([^"]+)"([^>]*)>`)
	imgTagRe        = regexp.MustCompile(`<img src="([^"]+)"([^>]*)>`)
	wxmlScriptRe    = regexp.MustCompile(`<script[^>]*>[\s\S]*?</script>`)
	positionFixedRe = regexp.MustCompile(`position:\s*fixed`)
	namedFunctionRe = regexp.MustCompile(`function\s+(\w+)\s*\([^)]*\)\s*\{[\s\S]*?\}`)
	functionHeadRe  = regexp.MustCompile(`function\s+(\w+)`)
	navigatorOpenRe = regexp.MustCompile(`<navigator url="([^"]+)"([^>]*)>`)
	imageTagRe      = regexp.MustCompile(`<image src="([^"]+)"([^>]*)/>`)
	pageObjectRe    = regexp.MustCompile(`Page\(\{[\s\S]*\}\);`)
	pageMethodRe    = regexp.MustCompile(`(\w+):\s*function\s*\([^)]*\)\s*\{[\s\S]*?\},`)
	methodNameRe    = regexp.MustCompile(`(\w+):`)
	methodBodyRe    = regexp.MustCompile(`\{([\s\S]*)\},$`)
	onLoadHandlerRe = regexp.MustCompile(`onLoad:\s*function\s*\([^)]*\)\s*\{([\s\S]*?)\},`)
)

const wxssPageStyle = "\n\n/* 小程序特有样式 */\npage { width: 100%; height: 100%; }"

const defaultPageMethods = "  // 自定义方法\n  customFunction: function(e) {\n    // 自定义函数\n  }"

const pageTemplate = `Page({
  data: {
    // 页面数据
  },
  onLoad: function() {
    // 页面加载时执行
  },
` + defaultPageMethods + `
});
`

const wechatAppJS = `App({
  onLaunch() {
    // 小程序启动时执行
  },
  globalData: {
    // 全局数据
  }
})`

const wechatAppWXSS = `/**app.wxss**/
.container {
  height: 100%;
  display: flex;
  flex-direction: column;
  align-items: center;
  justify-content: space-between;
  padding: 200rpx 0;
  box-sizing: border-box;
}
`

// 生命周期函数，反向转换时不作为普通函数输出
var lifecycleMethods = map[string]bool{
	"onLoad":  true,
	"onReady": true,
	"onShow":  true,
}

type wechatAppConfig struct {
	Pages           []string     `json:"pages"`
	Window          wechatWindow `json:"window"`
	Style           string       `json:"style"`
	SitemapLocation string       `json:"sitemapLocation"`
}

type wechatWindow struct {
	BackgroundTextStyle          string `json:"backgroundTextStyle"`
	NavigationBarBackgroundColor string `json:"navigationBarBackgroundColor"`
	NavigationBarTitleText       string `json:"navigationBarTitleText"`
	NavigationBarTextStyle       string `json:"navigationBarTextStyle"`
}

type wechatPageConfig struct {
	UsingComponents        struct{} `json:"usingComponents"`
	NavigationBarTitleText string   `json:"navigationBarTitleText"`
}

type wechatSitemap struct {
	Desc  string              `json:"desc"`
	Rules []wechatSitemapRule `json:"rules"`
}

type wechatSitemapRule struct {
	Action string `json:"action"`
	Page   string `json:"page"`
}

type wechatProjectConfig struct {
	Description         string                 `json:"description"`
	PackOptions         wechatPackOptions      `json:"packOptions"`
	Setting             wechatProjectSetting   `json:"setting"`
	CompileType         string                 `json:"compileType"`
	LibVersion          string                 `json:"libVersion"`
	AppID               string                 `json:"appid"`
	ProjectName         string                 `json:"projectname"`
	DebugOptions        wechatDebugOptions     `json:"debugOptions"`
	Scripts             struct{}               `json:"scripts"`
	StaticServerOptions wechatStaticServer     `json:"staticServerOptions"`
	IsGameTourist       bool                   `json:"isGameTourist"`
	Condition           wechatProjectCondition `json:"condition"`
}

type wechatPackOptions struct {
	Ignore []string `json:"ignore"`
}

type wechatProjectSetting struct {
	Bundle                    bool     `json:"bundle"`
	UserConfirmedBundleSwitch bool     `json:"userConfirmedBundleSwitch"`
	URLCheck                  bool     `json:"urlCheck"`
	ScopeDataCheck            bool     `json:"scopeDataCheck"`
	CoverView                 bool     `json:"coverView"`
	ES6                       bool     `json:"es6"`
	PostCSS                   bool     `json:"postcss"`
	CompileHotReLoad          bool     `json:"compileHotReLoad"`
	LazyloadPlaceholderEnable bool     `json:"lazyloadPlaceholderEnable"`
	PreloadBackgroundData     bool     `json:"preloadBackgroundData"`
	Minified                  bool     `json:"minified"`
	AutoAudits                bool     `json:"autoAudits"`
	NewFeature                bool     `json:"newFeature"`
	UglifyFileName            bool     `json:"uglifyFileName"`
	UploadWithSourceMap       bool     `json:"uploadWithSourceMap"`
	UseIsolateContext         bool     `json:"useIsolateContext"`
	NodeModules               bool     `json:"nodeModules"`
	Enhance                   bool     `json:"enhance"`
	UseMultiFrameRuntime      bool     `json:"useMultiFrameRuntime"`
	UseAPIHook                bool     `json:"useApiHook"`
	UseAPIHostProcess         bool     `json:"useApiHostProcess"`
	ShowShadowRootInWxmlPanel bool     `json:"showShadowRootInWxmlPanel"`
	PackNpmManually           bool     `json:"packNpmManually"`
	PackNpmRelationList       []string `json:"packNpmRelationList"`
	MinifyWXSS                bool     `json:"minifyWXSS"`
	ShowES6CompileOption      bool     `json:"showES6CompileOption"`
	MinifyWXML                bool     `json:"minifyWXML"`
}

type wechatDebugOptions struct {
	HidedInDevtools []string `json:"hidedInDevtools"`
}

type wechatStaticServer struct {
	BaseURL   string `json:"baseURL"`
	ServePath string `json:"servePath"`
}

type wechatConditionList struct {
	List []string `json:"list"`
}

type wechatProjectCondition struct {
	Search       wechatConditionList `json:"search"`
	Conversation wechatConditionList `json:"conversation"`
	Game         wechatConditionList `json:"game"`
	Plugin       wechatConditionList `json:"plugin"`
	GamePlugin   wechatConditionList `json:"gamePlugin"`
	Miniprogram  wechatConditionList `json:"miniprogram"`
}

// HTMLToWechatMiniprogram 使用默认元数据将 HTML 转换为微信小程序
func HTMLToWechatMiniprogram(doc string) Bundle {
	return DefaultProfile().HTMLToWechatMiniprogram(doc)
}

// HTMLToWechatMiniprogram 将 HTML 转换为单页面的微信小程序
func (p Profile) HTMLToWechatMiniprogram(doc string) Bundle {
	parts := SplitHTML(doc)

	return NewBundle(
		File{Path: WechatAppJSON, Content: marshalIndent(p.wechatAppConfig())},
		File{Path: WechatAppJS, Content: wechatAppJS},
		File{Path: WechatAppWXSS, Content: wechatAppWXSS},
		File{Path: WechatProjectConfig, Content: marshalIndent(p.wechatProjectConfig())},
		File{Path: WechatSitemap, Content: marshalIndent(wechatSitemap{
			Desc:  "关于本文件的更多信息，请参考文档 https://developers.weixin.qq.com/miniprogram/dev/framework/sitemap.html",
			Rules: []wechatSitemapRule{{Action: "allow", Page: "*"}},
		})},
		File{Path: WechatPageWXML, Content: HTMLToWXML(parts.HTML)},
		File{Path: WechatPageWXSS, Content: CSSToWXSS(parts.CSS)},
		File{Path: WechatPageJS, Content: JSToPage(parts.JS)},
		File{Path: WechatPageJSON, Content: marshalIndent(wechatPageConfig{
			NavigationBarTitleText: p.Wechat.PageTitle,
		})},
	)
}

// HTMLToWXML 取 body 内的标记（没有 body 时取全部）并改写为 WXML
func HTMLToWXML(html string) string {
	content := html
	if m := bodyInnerRe.FindStringSubmatch(html); m != nil {
		content = m[1]
	}

	content = strings.ReplaceAll(content, "onclick=", "bindtap=")
	content = strings.ReplaceAll(content, `<input type="button"`, "<button")
	content = strings.ReplaceAll(content, "</input>", "</button>")
	content = anchorOpenRe.ReplaceAllString(content, `<navigator url="${1}"${2}>`)
	content = strings.ReplaceAll(content, "</a>", "</navigator>")
	content = imgTagRe.ReplaceAllStringFunc(content, func(tag string) string {
		m := imgTagRe.FindStringSubmatch(tag)
		// <img src="x" /> 的结尾斜杠不重复输出
		return `<image src="` + m[1] + `"` + strings.TrimSuffix(m[2], "/") + "/>"
	})
	content = wxmlScriptRe.ReplaceAllString(content, "")

	return content
}

// CSSToWXSS 替换小程序不支持的样式并追加页面样式
func CSSToWXSS(css string) string {
	return positionFixedRe.ReplaceAllString(css, "position: absolute") + wxssPageStyle
}

// JSToPage 将源码中的具名函数声明改写为 Page 对象上的方法
// 只识别 function name(...) {...} 形式，函数体截止到第一个 }；
// 箭头函数、对象方法和匿名函数不会被提取
func JSToPage(js string) string {
	funcs := namedFunctionRe.FindAllString(js, -1)
	if len(funcs) == 0 {
		return pageTemplate
	}

	var builder strings.Builder
	for _, fn := range funcs {
		name := functionHeadRe.FindStringSubmatch(fn)[1]
		builder.WriteString("  " + name + ": function(e) {\n")
		builder.WriteString("    // 从原始代码转换\n")
		builder.WriteString("    // " + strings.ReplaceAll(fn, "\n", "\n    // ") + "\n")
		builder.WriteString("  },\n")
	}
	methods := strings.TrimSuffix(builder.String(), ",\n")

	return strings.Replace(pageTemplate, defaultPageMethods, methods, 1)
}

// WechatMiniprogramToHTML 将小程序页面文件转换回单个 HTML
func WechatMiniprogramToHTML(files Bundle) string {
	html := WXMLToHTML(files.Get(WechatPageWXML))
	doc := wrapDocument(wechatDocumentTitle, "", html)
	return MergeToHTML(doc, files.Get(WechatPageWXSS), PageToJS(files.Get(WechatPageJS)))
}

// WXMLToHTML 将 WXML 改写回 HTML 标记
func WXMLToHTML(wxml string) string {
	html := navigatorOpenRe.ReplaceAllString(wxml, `<a href="${1}"${2}>`)
	html = strings.ReplaceAll(html, "</navigator>", "</a>")
	html = imageTagRe.ReplaceAllString(html, `<img src="${1}"${2}>`)
	html = strings.ReplaceAll(html, "bindtap=", "onclick=")
	return html
}

// PageToJS 从 Page({...}); 中提取方法并输出为普通函数
// onLoad 的函数体映射为 window.onload
func PageToJS(js string) string {
	page := pageObjectRe.FindString(js)
	if page == "" {
		return ""
	}

	var builder strings.Builder
	for _, method := range pageMethodRe.FindAllString(page, -1) {
		name := methodNameRe.FindStringSubmatch(method)[1]
		if lifecycleMethods[name] {
			continue
		}
		body := methodBodyRe.FindStringSubmatch(method)
		if body == nil {
			continue
		}
		builder.WriteString("function " + name + "(e) {" + body[1] + "}\n\n")
	}

	if m := onLoadHandlerRe.FindStringSubmatch(page); m != nil {
		builder.WriteString("window.onload = function() {" + m[1] + "}\n")
	}

	return builder.String()
}

func (p Profile) wechatAppConfig() wechatAppConfig {
	return wechatAppConfig{
		Pages: []string{"pages/index/index"},
		Window: wechatWindow{
			BackgroundTextStyle:          "light",
			NavigationBarBackgroundColor: "#fff",
			NavigationBarTitleText:       p.Wechat.WindowTitle,
			NavigationBarTextStyle:       "black",
		},
		Style:           "v2",
		SitemapLocation: WechatSitemap,
	}
}

func (p Profile) wechatProjectConfig() wechatProjectConfig {
	empty := func() wechatConditionList { return wechatConditionList{List: []string{}} }

	return wechatProjectConfig{
		Description: "项目配置文件",
		PackOptions: wechatPackOptions{Ignore: []string{}},
		Setting: wechatProjectSetting{
			URLCheck:                  true,
			CoverView:                 true,
			ES6:                       true,
			PostCSS:                   true,
			Minified:                  true,
			UploadWithSourceMap:       true,
			UseIsolateContext:         true,
			Enhance:                   true,
			UseMultiFrameRuntime:      true,
			UseAPIHook:                true,
			UseAPIHostProcess:         true,
			ShowShadowRootInWxmlPanel: true,
			PackNpmRelationList:       []string{},
			MinifyWXSS:                true,
			MinifyWXML:                true,
		},
		CompileType:  "miniprogram",
		LibVersion:   p.Wechat.LibVersion,
		AppID:        p.Wechat.AppID,
		ProjectName:  p.Wechat.ProjectName,
		DebugOptions: wechatDebugOptions{HidedInDevtools: []string{}},
		Condition: wechatProjectCondition{
			Search:       empty(),
			Conversation: empty(),
			Game:         empty(),
			Plugin:       empty(),
			GamePlugin:   empty(),
			Miniprogram:  empty(),
		},
	}
}
