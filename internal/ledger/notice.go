package ledger

import "fmt"

// Level classifies a user-facing status message.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is the status message produced by a successful mutation.
type Notice struct {
	Level   Level
	Message string
}

func success(format string, args ...any) Notice {
	return Notice{Level: LevelSuccess, Message: fmt.Sprintf(format, args...)}
}

func warning(format string, args ...any) Notice {
	return Notice{Level: LevelWarning, Message: fmt.Sprintf(format, args...)}
}
