package service

import (
	"XhsStudio/internal/pkg/collection"
	"context"
	"errors"
)

// listView 首次展示或过期时加载，再按 selectID 设置选中项
func listView[T collection.Keyed](ctx context.Context, c *collection.Controller[T], selectID string) (collection.View[T], error) {
	err := c.EnsureLoaded(ctx)
	if selectID != "" {
		// 不在列表中的 id 忽略
		_ = c.Select(selectID)
	}
	return c.Snapshot(), err
}

// loadMore 没有更多数据不算错误
func loadMore[T collection.Keyed](ctx context.Context, c *collection.Controller[T]) error {
	if err := c.LoadMore(ctx); err != nil && !errors.Is(err, collection.ErrNoMore) {
		return err
	}
	return nil
}

// remove 重复删除或列表中已不存在的 id 视为成功
func remove[T collection.Keyed](ctx context.Context, c *collection.Controller[T], id string) error {
	return c.OptimisticRemove(ctx, id)
}
