package service

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/consts"
	"context"
	"strconv"
	"strings"
)

type SettingsService interface {
	Get(ctx context.Context, ws *Workspace) (model.AIConfig, error)
	Update(ctx context.Context, ws *Workspace, form *dto.AIConfigDTO) error
	Test(ctx context.Context, ws *Workspace) (string, error)
}

type SettingsServiceImpl struct{}

func NewSettingsService() SettingsService {
	return &SettingsServiceImpl{}
}

func (s *SettingsServiceImpl) Get(ctx context.Context, ws *Workspace) (model.AIConfig, error) {
	return ws.Client.GetAIConfig(ctx)
}

// Update 只有用户改过的密钥才会提交，脱敏值原样忽略
func (s *SettingsServiceImpl) Update(ctx context.Context, ws *Workspace, form *dto.AIConfigDTO) error {
	values := map[string]string{}
	putModel(values, "deepseek_", form.RewriteAPIKey, form.RewriteModel, form.RewriteTemperature, form.RewriteMaxTokens)
	putModel(values, "gemini_", form.StoryAPIKey, form.StoryModel, form.StoryTemperature, form.StoryMaxTokens)
	return ws.Client.UpdateAIConfig(ctx, values)
}

func (s *SettingsServiceImpl) Test(ctx context.Context, ws *Workspace) (string, error) {
	return ws.Client.TestAIConfig(ctx)
}

func putModel(values map[string]string, prefix, apiKey, modelName string, temperature float64, maxTokens int) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" && !strings.Contains(apiKey, consts.MaskedKeyMarker) {
		values[prefix+"api_key"] = apiKey
	}
	values[prefix+"model"] = strings.TrimSpace(modelName)
	values[prefix+"temperature"] = strconv.FormatFloat(temperature, 'f', -1, 64)
	values[prefix+"max_tokens"] = strconv.Itoa(maxTokens)
}
