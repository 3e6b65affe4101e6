package config

import (
	"XhsStudio/internal/pkg/remote"
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "XHS"

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 依次读取 .env、./configs/config.yaml 与 XHS_ 前缀的环境变量
func LoadConfig() error {
	cfg, err := Load(viper.New(), "./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// Load 按给定目录加载配置，文件不存在时只使用默认值和环境变量
func Load(v *viper.Viper, paths ...string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults 所有键都需要默认值，AutomaticEnv 才能覆盖到
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("backend.base_url", "http://localhost:5000/api")
	v.SetDefault("backend.timeout", remote.DefaultTimeout)
	v.SetDefault("backend.page_size", 20)
	routes := remote.DefaultRoutes()
	v.SetDefault("backend.routes.login", routes.Login)
	v.SetDefault("backend.routes.logout", routes.Logout)
	v.SetDefault("backend.routes.status", routes.Status)
	v.SetDefault("backend.routes.register", routes.Register)
	v.SetDefault("backend.routes.posts", routes.Posts)
	v.SetDefault("backend.routes.rewrites", routes.Rewrites)
	v.SetDefault("backend.routes.rewrite_history", routes.RewriteHistory)
	v.SetDefault("backend.routes.ai_config", routes.AIConfig)
	v.SetDefault("backend.routes.ai_config_test", routes.AIConfigTest)
	v.SetDefault("backend.routes.story_generate", routes.StoryGenerate)
	v.SetDefault("backend.routes.story_history", routes.StoryHistory)

	v.SetDefault("session.cookie_name", "xhs_session")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.secure", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("story.model", "gemini-2.5-flash-image-preview")
	v.SetDefault("story.progress_tick", "500ms")
	v.SetDefault("story.progress_cap", 85)

	v.SetDefault("sweep.spec", "0 */10 * * * *")
	v.SetDefault("sweep.idle_ttl", "2h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.remote_address", "")
	v.SetDefault("log.remote_index", "xhs-studio")
}
