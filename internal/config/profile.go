package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nerdneilsfield/go-html-packager/pkg/converter"
)

// LoadProfile 从 TOML 文件加载打包元数据，未设置的字段使用默认值
// path 为空时直接返回默认元数据
func LoadProfile(path string) (converter.Profile, error) {
	if path == "" {
		return converter.DefaultProfile(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return converter.Profile{}, fmt.Errorf("profile file not found: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return converter.Profile{}, fmt.Errorf("failed to read profile file: %w", err)
	}

	var profile converter.Profile
	meta, err := toml.Decode(string(content), &profile)
	if err != nil {
		return converter.Profile{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return converter.Profile{}, fmt.Errorf("unknown profile keys: %v", undecoded)
	}

	return profile.WithDefaults(), nil
}
