package model

// Page 归一化后的分页结果
type Page[T any] struct {
	Items   []T
	Total   int
	HasMore bool
}
