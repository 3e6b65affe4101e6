package config

import (
	"XhsStudio/internal/pkg/remote"
	"time"
)

// Config 配置主体
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Story   StoryConfig   `mapstructure:"story"`
	Sweep   SweepConfig   `mapstructure:"sweep"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// CORSOrigins 允许跨域调用 /api 的来源，为空时只允许同源
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// BackendConfig 后端服务配置
type BackendConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"page_size"`
	Routes   remote.Routes `mapstructure:"routes"`
}

// SessionConfig 会话配置，store 取值 redis 或 memory
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Store      string        `mapstructure:"store"`
	Secure     bool          `mapstructure:"secure"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// StoryConfig 视觉故事生成
type StoryConfig struct {
	Model        string        `mapstructure:"model"`
	ProgressTick time.Duration `mapstructure:"progress_tick"`
	ProgressCap  float64       `mapstructure:"progress_cap"`
}

// SweepConfig 空闲工作区清理
type SweepConfig struct {
	Spec    string        `mapstructure:"spec"`
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
}

type LogConfig struct {
	Level         string `mapstructure:"level"`
	RemoteAddress string `mapstructure:"remote_address"`
	RemoteIndex   string `mapstructure:"remote_index"`
}
