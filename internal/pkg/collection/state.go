package collection

// State 列表状态
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
	StateLoadingMore
	StateRefreshing
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadingMore:
		return "loading_more"
	case StateRefreshing:
		return "refreshing"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Busy 是否有在途请求
func (s State) Busy() bool {
	return s == StateLoading || s == StateLoadingMore || s == StateRefreshing
}

// View 列表快照
type View[T any] struct {
	Items      []T
	Total      int
	HasMore    bool
	State      State
	Err        error
	SelectedID string
	Selected   *T
}
