package collection

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"XhsStudio/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type note struct {
	id string
}

func (n note) Key() string { return n.id }

func notes(ids ...string) []note {
	out := make([]note, len(ids))
	for i, id := range ids {
		out[i] = note{id: id}
	}
	return out
}

func keys(items []note) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

// fakeSource 内存中的后端分页资源
type fakeSource struct {
	mu        sync.Mutex
	items     []note
	listErr   error
	removeErr error
	listCalls int
	removed   []string

	// 非空时下一次 List 先通知 entered，再等待 release
	entered chan struct{}
	release chan struct{}
}

func newFakeSource(n int) *fakeSource {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}
	return &fakeSource{items: notes(ids...)}
}

func (s *fakeSource) List(ctx context.Context, limit, offset int) (model.Page[note], error) {
	s.mu.Lock()
	s.listCalls++
	if s.listErr != nil {
		err := s.listErr
		s.mu.Unlock()
		return model.Page[note]{}, err
	}
	end := min(offset+limit, len(s.items))
	start := min(offset, end)
	page := model.Page[note]{
		Items:   append([]note(nil), s.items[start:end]...),
		Total:   len(s.items),
		HasMore: offset+limit < len(s.items),
	}
	entered, release := s.entered, s.release
	s.entered, s.release = nil, nil
	s.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return page, nil
}

func (s *fakeSource) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, id)
	for i, it := range s.items {
		if it.id == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return nil
}

func TestController_LoadAndLoadMore(t *testing.T) {
	src := newFakeSource(5)
	c := New[note](src, 2)
	ctx := context.Background()

	assert.ErrorIs(t, c.LoadMore(ctx), ErrInvalidState)

	require.NoError(t, c.Load(ctx))
	v := c.Snapshot()
	assert.Equal(t, []string{"1", "2"}, keys(v.Items))
	assert.Equal(t, 5, v.Total)
	assert.True(t, v.HasMore)
	assert.Equal(t, StateLoaded, v.State)
	assert.Equal(t, "1", v.SelectedID)

	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))
	v = c.Snapshot()
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, keys(v.Items))
	assert.False(t, v.HasMore)
	assert.ErrorIs(t, c.LoadMore(ctx), ErrNoMore)
	assert.Equal(t, 3, src.listCalls)
}

func TestController_EmptyList(t *testing.T) {
	c := New[note](newFakeSource(0), 2)
	require.NoError(t, c.Load(context.Background()))
	v := c.Snapshot()
	assert.Empty(t, v.Items)
	assert.Equal(t, 0, v.Total)
	assert.False(t, v.HasMore)
	assert.Empty(t, v.SelectedID)
	assert.Nil(t, v.Selected)
}

func TestController_SelectionFollowsRemoval(t *testing.T) {
	src := newFakeSource(3)
	c := New[note](src, 20)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.Select("2"))
	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "2", sel.id)
	assert.ErrorIs(t, c.Select("9"), ErrNotFound)

	// 删除未选中项不影响选中
	require.NoError(t, c.OptimisticRemove(ctx, "3"))
	assert.Equal(t, "2", c.Snapshot().SelectedID)

	// 删除选中项，回落到新的第一项
	require.NoError(t, c.OptimisticRemove(ctx, "2"))
	v := c.Snapshot()
	assert.Equal(t, []string{"1"}, keys(v.Items))
	assert.Equal(t, 1, v.Total)
	assert.Equal(t, "1", v.SelectedID)

	require.NoError(t, c.OptimisticRemove(ctx, "1"))
	v = c.Snapshot()
	assert.Empty(t, v.Items)
	assert.Equal(t, 0, v.Total)
	assert.Empty(t, v.SelectedID)
	assert.Equal(t, []string{"3", "2", "1"}, src.removed)

	// 不存在的 id 不请求后端
	require.NoError(t, c.OptimisticRemove(ctx, "1"))
	assert.Len(t, src.removed, 3)
}

func TestController_RemoveRollsBackOnFailure(t *testing.T) {
	src := newFakeSource(3)
	c := New[note](src, 20)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.Select("2"))

	boom := errors.New("删除失败")
	src.removeErr = boom
	assert.ErrorIs(t, c.OptimisticRemove(ctx, "2"), boom)

	v := c.Snapshot()
	assert.Equal(t, []string{"1", "2", "3"}, keys(v.Items))
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, "2", v.SelectedID)
}

func TestController_RemoveKeepsPagingConsistent(t *testing.T) {
	src := newFakeSource(5)
	c := New[note](src, 2)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.OptimisticRemove(ctx, "1"))
	require.NoError(t, c.LoadMore(ctx))

	// 后端删除后整体前移一位，下一页从 offset 1 开始，不跳过也不重复
	v := c.Snapshot()
	assert.Equal(t, []string{"2", "3", "4"}, keys(v.Items))
	assert.Equal(t, 4, v.Total)
	assert.True(t, v.HasMore)

	require.NoError(t, c.LoadMore(ctx))
	assert.Equal(t, []string{"2", "3", "4", "5"}, keys(c.Snapshot().Items))
}

func TestController_PrependAndInvalidate(t *testing.T) {
	src := newFakeSource(2)
	c := New[note](src, 20)
	ctx := context.Background()

	require.NoError(t, c.EnsureLoaded(ctx))
	require.NoError(t, c.EnsureLoaded(ctx))
	assert.Equal(t, 1, src.listCalls)

	c.Prepend(note{id: "new"})
	c.Prepend(note{id: "new"})
	v := c.Snapshot()
	assert.Equal(t, []string{"new", "1", "2"}, keys(v.Items))
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, "1", v.SelectedID)

	c.Invalidate()
	require.NoError(t, c.EnsureLoaded(ctx))
	assert.Equal(t, 2, src.listCalls)
	assert.Equal(t, []string{"1", "2"}, keys(c.Snapshot().Items))
}

func TestController_ErroredThenRefresh(t *testing.T) {
	src := newFakeSource(2)
	c := New[note](src, 20)
	ctx := context.Background()

	boom := errors.New("网络错误")
	src.listErr = boom
	assert.ErrorIs(t, c.Load(ctx), boom)
	v := c.Snapshot()
	assert.Equal(t, StateErrored, v.State)
	assert.ErrorIs(t, v.Err, boom)
	assert.ErrorIs(t, c.LoadMore(ctx), ErrInvalidState)

	src.listErr = nil
	require.NoError(t, c.Refresh(ctx))
	v = c.Snapshot()
	assert.Equal(t, StateLoaded, v.State)
	assert.NoError(t, v.Err)
	assert.Len(t, v.Items, 2)
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	src := newFakeSource(3)
	c := New[note](src, 20)
	ctx := context.Background()

	src.entered = make(chan struct{})
	src.release = make(chan struct{})
	entered, release := src.entered, src.release

	slow := make(chan error, 1)
	go func() { slow <- c.Load(ctx) }()
	<-entered

	assert.True(t, c.Snapshot().State.Busy())
	assert.ErrorIs(t, c.LoadMore(ctx), ErrBusy)

	// 慢请求返回前后端数据已变化，新的刷新先完成
	src.mu.Lock()
	src.items = notes("x", "y")
	src.mu.Unlock()
	require.NoError(t, c.Refresh(ctx))

	close(release)
	require.NoError(t, <-slow)

	v := c.Snapshot()
	assert.Equal(t, []string{"x", "y"}, keys(v.Items))
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, "x", v.SelectedID)
}

func TestController_Close(t *testing.T) {
	c := New[note](newFakeSource(1), 20)
	c.Close()
	assert.ErrorIs(t, c.Load(context.Background()), ErrClosed)
	assert.ErrorIs(t, c.OptimisticRemove(context.Background(), "1"), ErrClosed)
}
