package consts

const (
	SessionKey = "xhs:session:"
)
