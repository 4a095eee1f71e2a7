package converter

// Profile 打包时写入清单文件的元数据
// 只包含名称、版本等描述信息，不影响标记的改写方式
type Profile struct {
	Chrome ChromeProfile `toml:"chrome"`
	Wechat WechatProfile `toml:"wechat"`
	Utools UtoolsProfile `toml:"utools"`
}

// ChromeProfile Chrome 扩展 manifest.json 的元数据
type ChromeProfile struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Description string   `toml:"description"`
	Permissions []string `toml:"permissions"`
}

// WechatProfile 微信小程序配置的元数据
type WechatProfile struct {
	AppID       string `toml:"appid"`
	ProjectName string `toml:"project_name"`
	WindowTitle string `toml:"window_title"` // app.json 中的导航栏标题
	PageTitle   string `toml:"page_title"`   // pages/index/index.json 中的导航栏标题
	LibVersion  string `toml:"lib_version"`
}

// UtoolsProfile uTools 插件 plugin.json 的元数据
type UtoolsProfile struct {
	PluginName     string   `toml:"plugin_name"`
	Description    string   `toml:"description"`
	Version        string   `toml:"version"`
	Author         string   `toml:"author"`
	FeatureCode    string   `toml:"feature_code"`
	FeatureExplain string   `toml:"feature_explain"`
	Commands       []string `toml:"commands"`
}

// DefaultProfile 返回默认元数据
func DefaultProfile() Profile {
	return Profile{
		Chrome: ChromeProfile{
			Name:        "HTML转换的Chrome扩展",
			Version:     "1.0",
			Description: "由HTML转换工具生成的Chrome扩展",
			Permissions: []string{},
		},
		Wechat: WechatProfile{
			AppID:       "wx123456789",
			ProjectName: "HTML转换的小程序",
			WindowTitle: "HTML转换的小程序",
			PageTitle:   "首页",
			LibVersion:  "2.19.4",
		},
		Utools: UtoolsProfile{
			PluginName:     "HTML转换的uTools插件",
			Description:    "由HTML转换工具生成的uTools插件",
			Version:        "1.0.0",
			Author:         "HTML转换工具",
			FeatureCode:    "html_converter",
			FeatureExplain: "HTML转换工具",
			Commands:       []string{"html转换", "HTML转换"},
		},
	}
}

// WithDefaults 用默认值补全未设置的字段
func (p Profile) WithDefaults() Profile {
	d := DefaultProfile()

	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}

	fill(&p.Chrome.Name, d.Chrome.Name)
	fill(&p.Chrome.Version, d.Chrome.Version)
	fill(&p.Chrome.Description, d.Chrome.Description)
	if p.Chrome.Permissions == nil {
		p.Chrome.Permissions = d.Chrome.Permissions
	}

	fill(&p.Wechat.AppID, d.Wechat.AppID)
	fill(&p.Wechat.ProjectName, d.Wechat.ProjectName)
	fill(&p.Wechat.WindowTitle, d.Wechat.WindowTitle)
	fill(&p.Wechat.PageTitle, d.Wechat.PageTitle)
	fill(&p.Wechat.LibVersion, d.Wechat.LibVersion)

	fill(&p.Utools.PluginName, d.Utools.PluginName)
	fill(&p.Utools.Description, d.Utools.Description)
	fill(&p.Utools.Version, d.Utools.Version)
	fill(&p.Utools.Author, d.Utools.Author)
	fill(&p.Utools.FeatureCode, d.Utools.FeatureCode)
	fill(&p.Utools.FeatureExplain, d.Utools.FeatureExplain)
	if len(p.Utools.Commands) == 0 {
		p.Utools.Commands = d.Utools.Commands
	}

	return p
}
