package converter

import "strings"

// Chrome 扩展中的文件路径
const (
	ChromeManifest    = "manifest.json"
	ChromePopupHTML   = "popup.html"
	ChromeStyles      = "css/styles.css"
	ChromePopupJS     = "js/popup.js"
	ChromeImageReadme = "images/README.txt"
)

const chromeImageReadme = "请在此目录放置以下图标文件：\nicon16.png (16x16)\nicon48.png (48x48)\nicon128.png (128x128)"

type chromeManifest struct {
	ManifestVersion int          `json:"manifest_version"`
	Name            string       `json:"name"`
	Version         string       `json:"version"`
	Description     string       `json:"description"`
	Action          chromeAction `json:"action"`
	Permissions     []string     `json:"permissions"`
}

type chromeAction struct {
	DefaultPopup string      `json:"default_popup"`
	DefaultIcon  chromeIcons `json:"default_icon"`
}

type chromeIcons struct {
	Size16  string `json:"16"`
	Size48  string `json:"48"`
	Size128 string `json:"128"`
}

// HTMLToChromeExtension 使用默认元数据将 HTML 转换为 Chrome 扩展
func HTMLToChromeExtension(doc string) Bundle {
	return DefaultProfile().HTMLToChromeExtension(doc)
}

// ChromeExtensionToHTML 将 Chrome 扩展文件合并回单个 HTML
func ChromeExtensionToHTML(files Bundle) string {
	return MergeToHTML(files.Get(ChromePopupHTML), files.Get(ChromeStyles), files.Get(ChromePopupJS))
}

// HTMLToChromeExtension 将 HTML 转换为 Manifest V3 的 Chrome 扩展（弹出页）
func (p Profile) HTMLToChromeExtension(doc string) Bundle {
	parts := SplitHTML(doc)

	permissions := p.Chrome.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	manifest := chromeManifest{
		ManifestVersion: 3,
		Name:            p.Chrome.Name,
		Version:         p.Chrome.Version,
		Description:     p.Chrome.Description,
		Action: chromeAction{
			DefaultPopup: ChromePopupHTML,
			DefaultIcon: chromeIcons{
				Size16:  "images/icon16.png",
				Size48:  "images/icon48.png",
				Size128: "images/icon128.png",
			},
		},
		Permissions: permissions,
	}

	popup := strings.Replace(parts.HTML, stylesheetLink, `<link rel="stylesheet" href="css/styles.css">`, 1)
	popup = strings.Replace(popup, scriptRef, `<script src="js/popup.js"></script>`, 1)

	return NewBundle(
		File{Path: ChromeManifest, Content: marshalIndent(manifest)},
		File{Path: ChromePopupHTML, Content: popup},
		File{Path: ChromeStyles, Content: parts.CSS},
		File{Path: ChromePopupJS, Content: parts.JS},
		File{Path: ChromeImageReadme, Content: chromeImageReadme},
	)
}
