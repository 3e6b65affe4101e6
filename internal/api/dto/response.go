package dto

// Response 统一返回结构
type Response struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Redirect string      `json:"redirect,omitempty"`
}
