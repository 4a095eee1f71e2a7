package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-html-packager/internal/config"
	"github.com/nerdneilsfield/go-html-packager/internal/logger"
	"github.com/nerdneilsfield/go-html-packager/pkg/converter"
)

// app 一次命令执行共享的状态，由根命令的 PersistentPreRunE 初始化
type app struct {
	// 全局标志
	cfgFile     string
	debugMode   bool
	logLevel    string
	profilePath string

	cfg      *config.Config
	log      logger.Logger
	profile  converter.Profile
	registry *converter.Registry
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	return (&app{}).rootCommand(version, commit, buildDate)
}

// Execute 执行根命令并返回进程退出码
// 输入错误以提示信息输出，其他错误用按配置创建的日志记录
func Execute(version, commit, buildDate string) int {
	a := &app{}
	err := a.rootCommand(version, commit, buildDate).Execute()

	log := a.errorLogger()
	defer func() {
		_ = log.Zap().Sync()
	}()

	if err == nil {
		return 0
	}
	if IsUserError(err) {
		pterm.Error.Println(err.Error())
	} else {
		log.Error("执行命令失败", zap.Error(err))
	}
	return 1
}

// errorLogger 配置加载失败时 a.log 为空，退回默认日志
func (a *app) errorLogger() logger.Logger {
	if a.log != nil {
		return a.log
	}
	return logger.Wrap(logger.NewLogger(false))
}

func (a *app) rootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "htmlpack",
		Short: "在单文件 HTML 与多文件打包格式之间转换",
		Long: `htmlpack 将单个 HTML 文件拆分为 HTML/CSS/JS，打包为 Chrome 扩展、
微信小程序或 uTools 插件，也可以把这些包合并回单个 HTML，
以及在 HTML 与 Markdown 之间互相转换。

支持的打包格式:
  - split:  index.html + styles.css + script.js
  - chrome: Manifest V3 弹出页扩展
  - wechat: 单页面微信小程序
  - utools: uTools 插件`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Zap().Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "配置文件路径（默认 $HOME/.htmlpack.yaml 或 ./.htmlpack.yaml）")
	flags.BoolVar(&a.debugMode, "debug", false, "启用调试日志")
	flags.StringVar(&a.logLevel, "log-level", "", "日志级别 (debug, info, warn, error)")
	flags.StringVar(&a.profilePath, "profile", "", "打包元数据 TOML 文件")

	rootCmd.AddCommand(
		a.newSplitCommand(),
		a.newMergeCommand(),
		a.newPackCommand(),
		a.newUnpackCommand(),
		a.newMarkdownCommand(),
		a.newHTMLCommand(),
		a.newInspectCommand(),
		a.newFormatsCommand(),
		a.newConfigCommand(),
	)

	return rootCmd
}

// init 加载配置、日志和打包元数据，命令行标志优先于配置文件
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = a.debugMode
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("profile") {
		cfg.ProfilePath = a.profilePath
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	zl, err := logger.NewLoggerWithLevel(level, cfg.Debug)
	if err != nil {
		return err
	}
	a.log = logger.Wrap(zl)

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	a.cfg = cfg
	a.profile = profile
	a.registry = converter.NewRegistry()

	a.log.Debug("配置已加载",
		zap.String("output_dir", cfg.OutputDir),
		zap.Bool("archive", cfg.Archive),
		zap.String("markdown_engine", cfg.MarkdownEngine),
		zap.String("profile", cfg.ProfilePath))
	return nil
}
