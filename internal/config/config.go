package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/nerdneilsfield/go-html-packager/pkg/converter"
)

// Config 保存命令行工具的所有配置
type Config struct {
	LogLevel string `mapstructure:"log_level"` // 日志级别
	Debug    bool   `mapstructure:"debug"`

	OutputDir string `mapstructure:"output_dir"` // 多文件结果的默认输出目录
	Archive   bool   `mapstructure:"archive"`    // 多文件结果打包为 zip，否则写成目录

	MarkdownEngine      string `mapstructure:"markdown_engine"`       // auto、library、fallback
	MarkdownFrontMatter bool   `mapstructure:"markdown_front_matter"` // 去除 YAML front matter
	MarkdownMath        bool   `mapstructure:"markdown_math"`         // 识别数学公式
	FormatMarkdown      bool   `mapstructure:"format_markdown"`       // 格式化输出的 Markdown

	StrictMerge bool   `mapstructure:"strict_merge"` // 合并时找不到锚点视为错误
	ProfilePath string `mapstructure:"profile_path"` // 打包元数据的 TOML 文件
}

// ConfigName 配置文件名（不含扩展名）
const ConfigName = ".htmlpack"

// EnvPrefix 环境变量前缀，例如 HTMLPACK_LOG_LEVEL
const EnvPrefix = "HTMLPACK"

// LoadConfig 从文件加载配置
// configPath 为空时在家目录和当前目录查找 .htmlpack.yaml，找不到则使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:            "info",
		OutputDir:           ".",
		Archive:             false,
		MarkdownEngine:      string(converter.StrategyAuto),
		MarkdownFrontMatter: true,
	}
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	if _, err := converter.ParseMarkdownStrategy(c.MarkdownEngine); err != nil {
		return fmt.Errorf("markdown_engine: %w", err)
	}
	return nil
}

// MarkdownOptions 根据配置生成 Markdown 转换选项
func (c *Config) MarkdownOptions() converter.MarkdownOptions {
	strategy, err := converter.ParseMarkdownStrategy(c.MarkdownEngine)
	if err != nil {
		strategy = converter.StrategyAuto
	}
	return converter.MarkdownOptions{
		Strategy:    strategy,
		FrontMatter: c.MarkdownFrontMatter,
		Math:        c.MarkdownMath,
		Format:      c.FormatMarkdown,
	}
}

// SaveConfig 将配置保存到文件
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configPath = filepath.Join(home, ConfigName+".yaml")
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.MergeConfigMap(structToMap(config)); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return v.WriteConfig()
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	for key, value := range structToMap(d) {
		v.SetDefault(key, value)
	}
}

// structToMap 将结构体转换为map
func structToMap(config *Config) map[string]interface{} {
	return map[string]interface{}{
		"log_level":             config.LogLevel,
		"debug":                 config.Debug,
		"output_dir":            config.OutputDir,
		"archive":               config.Archive,
		"markdown_engine":       config.MarkdownEngine,
		"markdown_front_matter": config.MarkdownFrontMatter,
		"markdown_math":         config.MarkdownMath,
		"format_markdown":       config.FormatMarkdown,
		"strict_merge":          config.StrictMerge,
		"profile_path":          config.ProfilePath,
	}
}
