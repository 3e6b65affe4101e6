package main

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/collection"
	"XhsStudio/internal/pkg/remote"
	"XhsStudio/internal/pkg/util"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	collectCookies string
	listLimit      int
	listOffset     int
	listAll        bool
)

var collectCmd = &cobra.Command{
	Use:   "collect <url>",
	Short: "采集一篇小红书笔记",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dto.CollectDTO{URL: strings.TrimSpace(args[0]), Cookies: collectCookies}
		if err := util.ValidateDTO(&req); err != nil {
			return err
		}
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		res, err := client.CollectPost(commandContext(cmd), req.URL, req.Cookies)
		if err != nil {
			return err
		}
		printPost(cmd, res.Post)
		if res.SavedToDB {
			printOK(cmd.OutOrStdout(), "已保存")
		}
		return nil
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "列出已采集的笔记",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		items, total, hasMore, err := fetchList(commandContext(cmd), client.Posts())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(items))
		for _, p := range items {
			rows = append(rows, []string{
				p.Key(),
				util.TruncateText(p.Title, 24),
				p.Author.Nickname,
				util.FormatNumber(p.Stats.Likes),
				util.FormatDate(p.CollectedAt),
			})
		}
		printTable(cmd.OutOrStdout(), []string{"ID", "标题", "作者", "点赞", "采集时间"}, rows)
		printListFooter(cmd, len(items), total, hasMore)
		return nil
	},
}

var notesRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "删除笔记",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		return removeAll(cmd, client.Posts(), args)
	},
}

var recreateCmd = &cobra.Command{
	Use:   "recreate <note-id>",
	Short: "对已采集笔记进行 AI 二创",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		note, err := findItem(ctx, client.Posts(), args[0])
		if err != nil {
			return err
		}
		rw, err := client.Recreate(ctx, note.Title, note.Content, note.ID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printTitle(out, rw.NewTitle)
		fmt.Fprintln(out, rw.NewContent)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "列出二创历史",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		items, total, hasMore, err := fetchList(commandContext(cmd), client.Rewrites())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(items))
		for _, r := range items {
			rows = append(rows, []string{
				r.Key(),
				util.TruncateText(r.RecreatedTitle, 24),
				util.TruncateText(r.OriginalTitle, 20),
				util.FormatDate(r.CreatedAt),
			})
		}
		printTable(cmd.OutOrStdout(), []string{"ID", "二创标题", "原标题", "时间"}, rows)
		printListFooter(cmd, len(items), total, hasMore)
		return nil
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "删除二创记录",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil {
			return err
		}
		return removeAll(cmd, client.Rewrites(), args)
	},
}

// fetchList 单页查询，--all 时用列表控制器翻页直到没有更多
func fetchList[T collection.Keyed](ctx context.Context, src *remote.Collection[T]) ([]T, int, bool, error) {
	if !listAll {
		page, err := src.List(ctx, listLimit, listOffset)
		if err != nil {
			return nil, 0, false, err
		}
		return page.Items, page.Total, page.HasMore, nil
	}
	ctl := collection.New[T](src, listLimit)
	defer ctl.Close()
	if err := ctl.Load(ctx); err != nil {
		return nil, 0, false, err
	}
	for {
		err := ctl.LoadMore(ctx)
		if errors.Is(err, collection.ErrNoMore) {
			break
		}
		if err != nil {
			return nil, 0, false, err
		}
	}
	v := ctl.Snapshot()
	return v.Items, v.Total, v.HasMore, nil
}

// findItem 逐页查找 id 对应的条目
func findItem[T collection.Keyed](ctx context.Context, src *remote.Collection[T], id string) (T, error) {
	ctl := collection.New[T](src, collection.DefaultPageSize)
	defer ctl.Close()
	var zero T
	if err := ctl.Load(ctx); err != nil {
		return zero, err
	}
	for {
		if item, ok := ctl.Get(id); ok {
			return item, nil
		}
		err := ctl.LoadMore(ctx)
		if errors.Is(err, collection.ErrNoMore) {
			return zero, fmt.Errorf("%s: %w", id, collection.ErrNotFound)
		}
		if err != nil {
			return zero, err
		}
	}
}

func removeAll[T any](cmd *cobra.Command, src *remote.Collection[T], ids []string) error {
	ctx := commandContext(cmd)
	for _, id := range ids {
		if err := src.Remove(ctx, id); err != nil {
			return fmt.Errorf("删除 %s 失败: %w", id, err)
		}
		printOK(cmd.OutOrStdout(), "已删除 %s", id)
	}
	return nil
}

func printListFooter(cmd *cobra.Command, shown, total int, hasMore bool) {
	more := ""
	if hasMore {
		more = "，使用 --offset 或 --all 查看更多"
	}
	printMeta(cmd.OutOrStdout(), "显示 %d / 共 %d 条%s", shown, total, more)
}

func printPost(cmd *cobra.Command, p model.Post) {
	out := cmd.OutOrStdout()
	printTitle(out, p.Title)
	printMeta(out, "%s · %s · 点赞 %s · 收藏 %s · 评论 %s",
		p.Author.Nickname, util.FormatDate(p.PublishTime),
		util.FormatNumber(p.Stats.Likes), util.FormatNumber(p.Stats.Collects), util.FormatNumber(p.Stats.Comments))
	fmt.Fprintln(out, p.Content)
	if len(p.Tags) > 0 {
		printMeta(out, "#%s", strings.Join(p.Tags, " #"))
	}
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&listLimit, "limit", collection.DefaultPageSize, "每页条数")
	cmd.Flags().IntVar(&listOffset, "offset", 0, "起始偏移")
	cmd.Flags().BoolVar(&listAll, "all", false, "翻页获取全部")
}

func init() {
	collectCmd.Flags().StringVar(&collectCookies, "cookies", "", "小红书 cookies（可选）")

	addListFlags(notesCmd)
	notesCmd.AddCommand(notesRmCmd)

	addListFlags(historyCmd)
	historyCmd.AddCommand(historyRmCmd)
}
