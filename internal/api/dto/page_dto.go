package dto

// ListDTO JSON 列表返回
type ListDTO[T any] struct {
	Items      []T    `json:"items"`
	Total      int    `json:"total"`
	HasMore    bool   `json:"has_more"`
	State      string `json:"state"`
	SelectedID string `json:"selected_id,omitempty"`
	Error      string `json:"error,omitempty"`
}
