package dto

// CollectDTO 提交采集链接
type CollectDTO struct {
	URL     string `json:"url" form:"url" validate:"required,xhsurl"`
	Cookies string `json:"cookies,omitempty" form:"cookies"`
}

// PageQueryDTO 分页查询参数
type PageQueryDTO struct {
	Limit  int `form:"limit" json:"limit" validate:"min=1,max=100"`
	Offset int `form:"offset" json:"offset" validate:"min=0"`
}

// SelectDTO 列表页选中项
type SelectDTO struct {
	Select string `form:"select"`
}
