package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"carrental/internal/mutation"
)

// ConsoleNotifier prints notifications as status lines.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (n *ConsoleNotifier) Notify(note mutation.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	mark := "OK"
	if note.Level == mutation.LevelError {
		mark = "ERROR"
	}
	if note.Description == "" {
		fmt.Fprintf(n.w, "[%s] %s\n", mark, note.Title)
		return
	}
	fmt.Fprintf(n.w, "[%s] %s: %s\n", mark, note.Title, note.Description)
}

// LogNotifier records notifications in the structured log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(note mutation.Notification) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if note.Level == mutation.LevelError {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, note.Title, "kind", string(note.Level), "description", note.Description)
}

// Notifiers fans a notification out to every notifier.
type Notifiers []mutation.Notifier

func (ns Notifiers) Notify(note mutation.Notification) {
	for _, n := range ns {
		n.Notify(note)
	}
}
