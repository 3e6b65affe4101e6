package main

import (
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/action"
	"XhsStudio/internal/pkg/remote"
	"XhsStudio/internal/pkg/story"
	"XhsStudio/internal/pkg/util"
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	storyModel string
	storyOut   string
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "图文故事",
}

var storyGenerateCmd = &cobra.Command{
	Use:   "generate <history-id>",
	Short: "基于二创记录生成图文故事并保存 HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		rec, err := findItem(ctx, client.Rewrites(), args[0])
		if err != nil {
			return err
		}
		if storyModel == "" {
			storyModel = cfg.Story.Model
		}
		req := remote.StoryRequest{
			HistoryID: rec.ID,
			Title:     cmp.Or(rec.RecreatedTitle, rec.OriginalTitle),
			Content:   cmp.Or(rec.RecreatedContent, rec.OriginalContent),
			Model:     storyModel,
		}

		tick := cfg.Story.ProgressTick
		if tick <= 0 {
			tick = action.DefaultProgressTick
		}
		dialog := action.New[*model.VisualStory](action.WithProgress(action.NewProgress(tick, cfg.Story.ProgressCap)))
		if err := dialog.Start(ctx, func(ctx context.Context) (*model.VisualStory, error) {
			vs, err := client.GenerateStory(ctx, req)
			if err != nil {
				return nil, err
			}
			if vs.HTML == "" && len(vs.ContentCards) == 0 {
				return nil, errors.New("后端返回的图文故事为空")
			}
			if !story.CardCountValid(vs) {
				printMeta(cmd.ErrOrStderr(), "注意：内容卡片数量为 %d，预期 %d~%d 张", len(vs.ContentCards), model.MinContentCards, model.MaxContentCards)
			}
			return vs, nil
		}); err != nil {
			return err
		}

		st, err := waitWithProgress(ctx, cmd, dialog, tick)
		if err != nil {
			return err
		}
		if st.Err != nil {
			return st.Err
		}
		vs := st.Result

		path := storyOut
		if path == "" {
			path = story.FileName(vs.Title)
		}
		if err := os.WriteFile(path, []byte(vs.HTML), 0o644); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "已生成 %d 张内容卡片，保存到 %s", len(vs.ContentCards), path)
		return nil
	},
}

// waitWithProgress 在 stderr 上刷新进度条直到弹窗结束
func waitWithProgress(ctx context.Context, cmd *cobra.Command, dialog *action.Dialog[*model.VisualStory], tick time.Duration) (action.Status[*model.VisualStory], error) {
	errOut := cmd.ErrOrStderr()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	done := make(chan struct{})
	var (
		st      action.Status[*model.VisualStory]
		waitErr error
	)
	go func() {
		defer close(done)
		st, waitErr = dialog.Wait(ctx)
	}()

	for {
		select {
		case <-done:
			fmt.Fprintf(errOut, "\r%s\n", progressBar(st.Progress, 30))
			return st, waitErr
		case <-ticker.C:
			fmt.Fprintf(errOut, "\r%s", progressBar(dialog.Snapshot().Progress, 30))
		}
	}
}

var storyListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出图文故事历史",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		items, total, hasMore, err := fetchList(commandContext(cmd), client.Stories())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(items))
		for _, vs := range items {
			rows = append(rows, []string{
				vs.Key(),
				util.TruncateText(vs.Title, 24),
				strconv.Itoa(len(vs.ContentCards)),
				vs.Model,
				util.FormatDate(vs.CreatedAt),
			})
		}
		printTable(cmd.OutOrStdout(), []string{"ID", "标题", "卡片", "模型", "时间"}, rows)
		printListFooter(cmd, len(items), total, hasMore)
		return nil
	},
}

var storyRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "删除图文故事",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		return removeAll(cmd, client.Stories(), args)
	},
}

func init() {
	storyGenerateCmd.Flags().StringVar(&storyModel, "model", "", "图文模型（默认读取配置 story.model）")
	storyGenerateCmd.Flags().StringVarP(&storyOut, "out", "o", "", "HTML 输出路径")
	addListFlags(storyListCmd)
	storyCmd.AddCommand(storyGenerateCmd, storyListCmd, storyRmCmd)
}
