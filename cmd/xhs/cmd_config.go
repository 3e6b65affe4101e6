package main

import (
	"XhsStudio/internal/pkg/consts"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "查看和修改后端 AI 配置",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "查看 AI 配置",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		aiCfg, err := client.GetAIConfig(commandContext(cmd))
		if err != nil {
			return err
		}
		rows := [][]string{
			{"二创 (deepseek)", aiCfg.Rewrite.Model, aiCfg.Rewrite.APIKey, strconv.FormatFloat(aiCfg.Rewrite.Temperature, 'f', -1, 64), strconv.Itoa(aiCfg.Rewrite.MaxTokens)},
			{"图文 (gemini)", aiCfg.Story.Model, aiCfg.Story.APIKey, strconv.FormatFloat(aiCfg.Story.Temperature, 'f', -1, 64), strconv.Itoa(aiCfg.Story.MaxTokens)},
		}
		printTable(cmd.OutOrStdout(), []string{"用途", "模型", "API Key", "Temperature", "Max Tokens"}, rows)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "修改 AI 配置",
	Long: `修改 AI 配置，键名与后端一致，例如：

  xhs config set deepseek_model=deepseek-chat deepseek_temperature=0.8
  xhs config set gemini_api_key=xxxx`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make(map[string]string, len(args))
		for _, arg := range args {
			k, v, ok := strings.Cut(arg, "=")
			if !ok || k == "" {
				return fmt.Errorf("参数格式应为 key=value: %s", arg)
			}
			if strings.HasSuffix(k, "api_key") && strings.Contains(v, consts.MaskedKeyMarker) {
				continue
			}
			values[k] = v
		}
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		if err := client.UpdateAIConfig(commandContext(cmd), values); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "配置已保存")
		return nil
	},
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "测试 AI 连接",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		msg, err := client.TestAIConfig(commandContext(cmd))
		if err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "%s", msg)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configTestCmd)
}
