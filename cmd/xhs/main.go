package main

import (
	"XhsStudio/internal/api/config"
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/logger"
	"XhsStudio/internal/pkg/remote"
	"context"
	"fmt"
	log "log/slog"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose    bool
	backendURL string
	timeout    time.Duration

	cfg        *config.Config
	httpClient *resty.Client
)

// rootCmd 命令行入口
var rootCmd = &cobra.Command{
	Use:   "xhs",
	Short: "小红书内容工作台命令行",
	Long: `xhs 直接调用内容工作台后端：采集笔记、AI 二创、生成图文故事、管理 AI 配置。

登录凭据保存在用户配置目录下，后续命令自动携带。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger.InitLogger(logger.Options{Level: level, Output: os.Stderr})

		var err error
		cfg, err = config.Load(viper.New(), "./configs", credentialDir())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if backendURL != "" {
			cfg.Backend.BaseURL = backendURL
		}
		if timeout > 0 {
			cfg.Backend.Timeout = timeout
		}
		httpClient = remote.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.Timeout,
			&logger.BackendTransport{})
		return nil
	},
}

// commandContext 每条命令带独立 trace_id
func commandContext(cmd *cobra.Command) context.Context {
	return logger.WithTraceID(cmd.Context(), "cli-"+uuid.NewString())
}

// anonymousClient 未登录状态的客户端
func anonymousClient() *remote.Client {
	return remote.NewClient(httpClient, cfg.Backend.Routes, model.Credential{})
}

// loggedInClient 读取保存的凭据，未登录时报错
func loggedInClient() (*remote.Client, *savedLogin, error) {
	saved, err := loadLogin()
	if err != nil {
		return nil, nil, err
	}
	if saved == nil || saved.Credential.IsZero() {
		return nil, nil, errNotLoggedIn
	}
	if saved.BaseURL != "" && saved.BaseURL != cfg.Backend.BaseURL {
		log.Warn("saved login belongs to another backend", "saved", saved.BaseURL, "current", cfg.Backend.BaseURL)
	}
	return remote.NewClient(httpClient, cfg.Backend.Routes, saved.Credential), saved, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "后端地址（默认读取 XHS_BACKEND_BASE_URL 或配置文件）")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "单次请求超时")

	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd, registerCmd)
	rootCmd.AddCommand(collectCmd, notesCmd, recreateCmd, historyCmd)
	rootCmd.AddCommand(storyCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
