package dto

// AIConfigDTO 设置页表单
type AIConfigDTO struct {
	RewriteAPIKey      string  `form:"deepseek_api_key" json:"deepseek_api_key"`
	RewriteModel       string  `form:"deepseek_model" json:"deepseek_model" validate:"required"`
	RewriteTemperature float64 `form:"deepseek_temperature" json:"deepseek_temperature" validate:"min=0,max=2"`
	RewriteMaxTokens   int     `form:"deepseek_max_tokens" json:"deepseek_max_tokens" validate:"min=1,max=8192"`
	StoryAPIKey        string  `form:"gemini_api_key" json:"gemini_api_key"`
	StoryModel         string  `form:"gemini_model" json:"gemini_model" validate:"required"`
	StoryTemperature   float64 `form:"gemini_temperature" json:"gemini_temperature" validate:"min=0,max=2"`
	StoryMaxTokens     int     `form:"gemini_max_tokens" json:"gemini_max_tokens" validate:"min=1,max=8192"`
}
