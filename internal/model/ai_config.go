package model

import "strings"

// ModelConfig 单个 AI 模型的参数
type ModelConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// KeyMasked 后端返回的 API Key 是否已打码
func (m ModelConfig) KeyMasked() bool {
	return strings.Contains(m.APIKey, "***")
}

// AIConfig 二创模型（DeepSeek）与图文模型（Gemini）配置
type AIConfig struct {
	Rewrite ModelConfig
	Story   ModelConfig
}

// DefaultAIConfig 后端未返回时的默认值
func DefaultAIConfig() AIConfig {
	return AIConfig{
		Rewrite: ModelConfig{Model: "deepseek-chat", Temperature: 0.7, MaxTokens: 1000},
		Story:   ModelConfig{Model: "gemini-2.0-flash-exp", Temperature: 0.7, MaxTokens: 1000},
	}
}
