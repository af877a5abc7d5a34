package mutation

import apperrors "carrental/internal/errors"

// UnknownErrorDescription is shown when a failure carries no server message.
const UnknownErrorDescription = "An unknown error occurred"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message about a finished mutation.
type Notification struct {
	Level       Level
	Title       string
	Description string
}

// Notifier displays notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// ErrorNotification builds the failure message for err: the server's error
// text when it sent one, a generic description otherwise.
func ErrorNotification(title string, err error) Notification {
	desc := UnknownErrorDescription
	if msg, ok := apperrors.ServerMessage(err); ok {
		desc = msg
	}
	return Notification{Level: LevelError, Title: title, Description: desc}
}
