package converter

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// File 打包结果中的单个文件
type File struct {
	Path    string // 相对路径，例如 css/styles.css
	Content string // 文件内容
}

// Bundle 多文件打包结果：相对路径 -> 内容
// 顺序只影响展示，不影响语义；未知的路径读出为空字符串
type Bundle struct {
	files []File
	index map[string]int
}

// NewBundle 按给定顺序创建 Bundle，重复的路径以后出现的内容为准
func NewBundle(files ...File) Bundle {
	var b Bundle
	for _, f := range files {
		b.put(f.Path, f.Content)
	}
	return b
}

// BundleFromMap 从 map 创建 Bundle，路径按字典序排列
func BundleFromMap(m map[string]string) Bundle {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b Bundle
	for _, p := range paths {
		b.put(p, m[p])
	}
	return b
}

// Set 设置文件内容，已存在的路径保持原有位置
// 赋值得到的副本共享底层数据，Set 先复制再修改，其他副本不受影响
func (b *Bundle) Set(path, content string) {
	files := make([]File, len(b.files), len(b.files)+1)
	copy(files, b.files)
	index := make(map[string]int, len(b.index)+1)
	for p, i := range b.index {
		index[p] = i
	}

	b.files, b.index = files, index
	b.put(path, content)
}

// put 原地写入，只用于构造新的 Bundle
func (b *Bundle) put(path, content string) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[path]; ok {
		b.files[i].Content = content
		return
	}
	b.index[path] = len(b.files)
	b.files = append(b.files, File{Path: path, Content: content})
}

// Get 返回文件内容，缺失时返回空字符串
func (b Bundle) Get(path string) string {
	if i, ok := b.index[path]; ok {
		return b.files[i].Content
	}
	return ""
}

// Has 判断路径是否存在
func (b Bundle) Has(path string) bool {
	_, ok := b.index[path]
	return ok
}

// Len 文件数量
func (b Bundle) Len() int {
	return len(b.files)
}

// Paths 按顺序返回所有路径
func (b Bundle) Paths() []string {
	paths := make([]string, len(b.files))
	for i, f := range b.files {
		paths[i] = f.Path
	}
	return paths
}

// Files 按顺序返回文件列表的副本
func (b Bundle) Files() []File {
	files := make([]File, len(b.files))
	copy(files, b.files)
	return files
}

// Map 转换为普通 map
func (b Bundle) Map() map[string]string {
	m := make(map[string]string, len(b.files))
	for _, f := range b.files {
		m[f.Path] = f.Content
	}
	return m
}

// marshalIndent 以两个空格缩进序列化 JSON 配置文件
// 不转义 <、>、&，配置中的文本按原样输出
func marshalIndent(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		// 只用于内部定义的结构体，不会失败
		panic("converter: marshal manifest: " + err.Error())
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
