// Package toast is the transient notification surface of the client.
package toast

import (
	"sync"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notifier shows fire-and-forget messages to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
	Warning(message string)
}

type Toast struct {
	Level   Level
	Message string
}

// Recorder keeps every toast in memory.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Success(message string) { r.add(LevelSuccess, message) }
func (r *Recorder) Error(message string)   { r.add(LevelError, message) }
func (r *Recorder) Warning(message string) { r.add(LevelWarning, message) }

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Level: level, Message: message})
}

// All returns a copy of the recorded toasts, oldest first.
func (r *Recorder) All() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = nil
}

// LogNotifier writes toasts to a zerolog logger. The CLI uses it.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Success(message string) {
	n.Logger.Info().Str("toast", string(LevelSuccess)).Msg(message)
}

func (n LogNotifier) Error(message string) {
	n.Logger.Error().Str("toast", string(LevelError)).Msg(message)
}

func (n LogNotifier) Warning(message string) {
	n.Logger.Warn().Str("toast", string(LevelWarning)).Msg(message)
}
