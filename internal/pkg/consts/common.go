package consts

// 会话上下文中使用的 key
const (
	ContextSessionKey = "session"
	ContextUserKey    = "user"
)

const (
	LoginPath   = "/login"
	DefaultPath = "/app/notes"
)

const (
	MaskedKeyMarker = "***"
)

const (
	ContextWorkspaceKey = "workspace"
	ContextDropperKey   = "session_dropper"
)
