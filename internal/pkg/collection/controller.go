package collection

import (
	"context"
	"errors"
	"sync"
	"time"

	"XhsStudio/internal/model"
)

// DefaultPageSize 每页条数
const DefaultPageSize = 20

var (
	ErrNoMore       = errors.New("没有更多数据了")
	ErrInvalidState = errors.New("列表当前状态不允许该操作")
	ErrBusy         = errors.New("列表正在加载中")
	ErrClosed       = errors.New("列表已关闭")
	ErrNotFound     = errors.New("条目不存在")
)

// Keyed 列表条目以 Key 作为唯一标识
type Keyed interface {
	Key() string
}

// Source 远端分页资源
type Source[T any] interface {
	List(ctx context.Context, limit, offset int) (model.Page[T], error)
	Remove(ctx context.Context, id string) error
}

// Controller 偏移分页列表的客户端状态机
//
// 每次整页加载都会领取新的序号，返回时序号已不是最新的响应会被丢弃，
// 慢请求不会覆盖新状态。选中项始终指向列表中存在的条目。
type Controller[T Keyed] struct {
	mu       sync.Mutex
	src      Source[T]
	pageSize int

	items    []T
	total    int
	hasMore  bool
	offset   int
	state    State
	err      error
	selected string

	seq     uint64
	stale   bool
	closed  bool
	touched time.Time
}

func New[T Keyed](src Source[T], pageSize int) *Controller[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller[T]{
		src:      src,
		pageSize: pageSize,
		state:    StateEmpty,
		touched:  time.Now(),
	}
}

// Load 整页加载，替换内存中的列表
func (c *Controller[T]) Load(ctx context.Context) error {
	return c.reload(ctx, StateLoading)
}

// Refresh 完整重新加载，也是 Errored 状态的恢复途径
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.reload(ctx, StateRefreshing)
}

// EnsureLoaded 视图首次展示或列表被标记为过期时加载
func (c *Controller[T]) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	need := c.state == StateEmpty || c.stale
	refresh := c.stale && c.state != StateEmpty
	c.mu.Unlock()

	if !need {
		return nil
	}
	if refresh {
		return c.Refresh(ctx)
	}
	return c.Load(ctx)
}

func (c *Controller[T]) reload(ctx context.Context, transition State) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.seq++
	token := c.seq
	if c.state == StateEmpty {
		c.state = StateLoading
	} else {
		c.state = transition
	}
	c.touched = time.Now()
	limit := c.pageSize
	c.mu.Unlock()

	page, err := c.src.List(ctx, limit, 0)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || token != c.seq {
		// 已有更新的加载在进行或已完成
		return nil
	}
	if err != nil {
		c.state = StateErrored
		c.err = err
		return err
	}

	c.items = page.Items
	c.total = page.Total
	c.hasMore = page.HasMore
	c.offset = limit
	c.state = StateLoaded
	c.err = nil
	c.stale = false
	c.fixSelection()
	return nil
}

// LoadMore 追加下一页，仅在 Loaded 且还有更多数据时有效
func (c *Controller[T]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	switch c.state {
	case StateLoaded:
	case StateLoading, StateLoadingMore, StateRefreshing:
		c.mu.Unlock()
		return ErrBusy
	default:
		c.mu.Unlock()
		return ErrInvalidState
	}
	if !c.hasMore {
		c.mu.Unlock()
		return ErrNoMore
	}
	token := c.seq
	offset, limit := c.offset, c.pageSize
	c.state = StateLoadingMore
	c.touched = time.Now()
	c.mu.Unlock()

	page, err := c.src.List(ctx, limit, offset)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || token != c.seq {
		return nil
	}
	if err != nil {
		c.state = StateErrored
		c.err = err
		return err
	}

	known := make(map[string]struct{}, len(c.items))
	for _, it := range c.items {
		known[it.Key()] = struct{}{}
	}
	items := make([]T, len(c.items), len(c.items)+len(page.Items))
	copy(items, c.items)
	for _, it := range page.Items {
		if _, dup := known[it.Key()]; dup {
			continue
		}
		known[it.Key()] = struct{}{}
		items = append(items, it)
	}
	c.items = items
	// 按页大小推进；期间的乐观删除/插入已经调整过 offset
	c.offset += limit
	c.total = page.Total
	if c.total < len(c.items) {
		c.total = len(c.items)
	}
	c.hasMore = page.HasMore
	c.state = StateLoaded
	c.fixSelection()
	return nil
}

// OptimisticRemove 先从本地移除并减少 total，再请求后端删除。
// id 不在列表中时为空操作；后端删除失败时回滚并返回错误。
func (c *Controller[T]) OptimisticRemove(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return nil
	}
	removed := c.items[idx]
	wasSelected := c.selected == id
	token := c.seq

	items := make([]T, 0, len(c.items)-1)
	items = append(items, c.items[:idx]...)
	items = append(items, c.items[idx+1:]...)
	c.items = items
	if c.total > 0 {
		c.total--
	}
	if c.offset > 0 {
		c.offset--
	}
	c.fixSelection()
	reassigned := c.selected
	c.touched = time.Now()
	c.mu.Unlock()

	err := c.src.Remove(ctx, id)
	if err == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || token != c.seq || c.indexOf(id) >= 0 {
		return err
	}
	if idx > len(c.items) {
		idx = len(c.items)
	}
	items = make([]T, 0, len(c.items)+1)
	items = append(items, c.items[:idx]...)
	items = append(items, removed)
	items = append(items, c.items[idx:]...)
	c.items = items
	c.total++
	c.offset++
	if wasSelected && c.selected == reassigned {
		c.selected = id
	}
	return err
}

// Prepend 乐观插入到列表头部
func (c *Controller[T]) Prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.indexOf(item.Key()) >= 0 {
		return
	}
	items := make([]T, 0, len(c.items)+1)
	items = append(items, item)
	items = append(items, c.items...)
	c.items = items
	c.total++
	c.offset++
	if c.selected == "" {
		c.selected = item.Key()
	}
}

// Invalidate 标记为过期，下次展示时重新加载
func (c *Controller[T]) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// Select 设置当前查看的条目
func (c *Controller[T]) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(id) < 0 {
		return ErrNotFound
	}
	c.selected = id
	c.touched = time.Now()
	return nil
}

// Selected 当前选中的条目
func (c *Controller[T]) Selected() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(c.selected); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Get 按 id 查找已加载的条目
func (c *Controller[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Snapshot 供视图渲染的只读快照
func (c *Controller[T]) Snapshot() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View[T]{
		Items:      append([]T(nil), c.items...),
		Total:      c.total,
		HasMore:    c.hasMore,
		State:      c.state,
		Err:        c.err,
		SelectedID: c.selected,
	}
	if i := c.indexOf(c.selected); i >= 0 {
		sel := c.items[i]
		v.Selected = &sel
	}
	return v
}

// Close 关闭后所有在途响应都会被丢弃
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.seq++
	c.mu.Unlock()
}

// LastTouched 最近一次被操作的时间
func (c *Controller[T]) LastTouched() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}

func (c *Controller[T]) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, it := range c.items {
		if it.Key() == id {
			return i
		}
	}
	return -1
}

// fixSelection 选中项不存在时回落到第一项或清空
func (c *Controller[T]) fixSelection() {
	if c.indexOf(c.selected) >= 0 {
		return
	}
	c.selected = ""
	if len(c.items) > 0 {
		c.selected = c.items[0].Key()
	}
}
