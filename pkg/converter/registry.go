package converter

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Format 多文件打包格式
type Format string

const (
	FormatSplit  Format = "split"
	FormatChrome Format = "chrome"
	FormatWechat Format = "wechat"
	FormatUtools Format = "utools"
)

// Packager 单个打包格式的正向与反向转换
type Packager interface {
	// Pack 将单个 HTML 转换为多文件包
	Pack(doc string) (Bundle, error)

	// Unpack 将多文件包合并回单个 HTML
	Unpack(files Bundle) (string, error)

	// Inputs 反向转换会读取的文件路径
	Inputs() []string

	// Primary 反向转换必需的主文件路径
	Primary() string

	// Format 返回打包格式
	Format() Format
}

// PackagerFactory 根据元数据创建打包器
type PackagerFactory func(profile Profile) Packager

// Registry 打包格式注册表
type Registry struct {
	mu        sync.RWMutex
	factories map[Format]PackagerFactory
	aliases   map[string]Format
}

// NewRegistry 创建已注册全部内置格式的注册表
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[Format]PackagerFactory),
		aliases:   make(map[string]Format),
	}
	for format, factory := range builtinPackagers {
		// 内置格式不会重复
		_ = r.Register(format, factory)
	}
	r.RegisterAlias("files", FormatSplit)
	r.RegisterAlias("chrome-extension", FormatChrome)
	r.RegisterAlias("miniprogram", FormatWechat)
	r.RegisterAlias("weixin", FormatWechat)
	r.RegisterAlias("utools-plugin", FormatUtools)
	return r
}

var builtinPackagers = map[Format]PackagerFactory{
	FormatSplit: func(Profile) Packager {
		return &packager{
			format:  FormatSplit,
			primary: SplitHTMLFile,
			inputs:  []string{SplitHTMLFile, SplitCSSFile, SplitJSFile},
			pack:    SplitBundle,
			unpack:  SplitBundleToHTML,
		}
	},
	FormatChrome: func(p Profile) Packager {
		return &packager{
			format:  FormatChrome,
			primary: ChromePopupHTML,
			inputs:  []string{ChromePopupHTML, ChromeStyles, ChromePopupJS},
			pack:    p.HTMLToChromeExtension,
			unpack:  ChromeExtensionToHTML,
		}
	},
	FormatWechat: func(p Profile) Packager {
		return &packager{
			format:  FormatWechat,
			primary: WechatPageWXML,
			inputs:  []string{WechatPageWXML, WechatPageWXSS, WechatPageJS},
			pack:    p.HTMLToWechatMiniprogram,
			unpack:  WechatMiniprogramToHTML,
		}
	},
	FormatUtools: func(p Profile) Packager {
		return &packager{
			format:  FormatUtools,
			primary: UtoolsIndexHTML,
			inputs:  []string{UtoolsIndexHTML, UtoolsStyles, UtoolsScript},
			pack:    p.HTMLToUtoolsPlugin,
			unpack:  UtoolsPluginToHTML,
		}
	},
}

// Register 注册打包格式
func (r *Registry) Register(format Format, factory PackagerFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[format]; exists {
		return fmt.Errorf("format %s already registered", format)
	}

	r.factories[format] = factory
	return nil
}

// RegisterAlias 注册格式别名
func (r *Registry) RegisterAlias(alias string, format Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.aliases[strings.ToLower(alias)] = format
}

// Formats 按名称排序返回所有已注册的格式
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.factories))
	for format := range r.factories {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Resolve 将名称或别名解析为已注册的格式
// 未知名称返回 *UnknownFormatError，附带模糊匹配的候选
func (r *Registry) Resolve(name string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.factories[Format(key)]; ok {
		return Format(key), nil
	}
	if format, ok := r.aliases[key]; ok {
		return format, nil
	}

	return "", &UnknownFormatError{Name: name, Suggestions: r.suggest(key)}
}

// Get 获取指定格式的打包器
func (r *Registry) Get(name string, profile Profile) (Packager, error) {
	format, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	factory := r.factories[format]
	r.mu.RUnlock()

	return factory(profile.WithDefaults()), nil
}

// suggest 调用方需持有读锁
func (r *Registry) suggest(key string) []string {
	if key == "" {
		return nil
	}

	candidates := make([]string, 0, len(r.factories)+len(r.aliases))
	for format := range r.factories {
		candidates = append(candidates, string(format))
	}
	for alias := range r.aliases {
		candidates = append(candidates, alias)
	}

	ranks := fuzzy.RankFindFold(key, candidates)
	// 输入比候选更长时（例如拼错多打了字母）反向再找一次
	for _, c := range candidates {
		if fuzzy.MatchFold(c, key) {
			ranks = append(ranks, fuzzy.Rank{Source: c, Target: c, Distance: fuzzy.LevenshteinDistance(key, c)})
		}
	}
	sort.Sort(ranks)

	seen := make(map[string]bool)
	var suggestions []string
	for _, rank := range ranks {
		if seen[rank.Target] {
			continue
		}
		seen[rank.Target] = true
		suggestions = append(suggestions, rank.Target)
	}
	return suggestions
}

// packager 基于转换函数的打包器，负责输入校验
type packager struct {
	format  Format
	primary string
	inputs  []string
	pack    func(doc string) Bundle
	unpack  func(files Bundle) string
}

func (p *packager) Pack(doc string) (Bundle, error) {
	if strings.TrimSpace(doc) == "" {
		return Bundle{}, fmt.Errorf("%s: %w", p.format, ErrEmptyInput)
	}
	return p.pack(doc), nil
}

func (p *packager) Unpack(files Bundle) (string, error) {
	if strings.TrimSpace(files.Get(p.primary)) == "" {
		return "", &MissingFileError{Format: p.format, Path: p.primary}
	}
	return p.unpack(files), nil
}

func (p *packager) Inputs() []string {
	inputs := make([]string, len(p.inputs))
	copy(inputs, p.inputs)
	return inputs
}

func (p *packager) Primary() string {
	return p.primary
}

func (p *packager) Format() Format {
	return p.format
}
