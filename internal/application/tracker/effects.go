package tracker

import (
	"fmt"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
)

// EffectKind enumerates the side effects a tick can request
type EffectKind int

const (
	// EffectLog writes one line to the activity log
	EffectLog EffectKind = iota
	// EffectCopy writes System to the clipboard. Previous is the last copied
	// system before this tick, restored if the write fails.
	EffectCopy
	// EffectPersist saves the committed state
	EffectPersist
	// EffectRouteCompleted reports that the destination was reached
	EffectRouteCompleted
)

// Effect is a side effect requested by Tick and carried out by the Poller
// after the new state is committed.
type Effect struct {
	Kind     EffectKind
	Level    string
	Message  string
	System   string
	Previous string
}

func logLine(level, format string, args ...interface{}) Effect {
	return Effect{Kind: EffectLog, Level: level, Message: fmt.Sprintf(format, args...)}
}

func info(format string, args ...interface{}) Effect {
	return logLine(logging.LevelInfo, format, args...)
}

func copyToClipboard(system, previous string) Effect {
	return Effect{Kind: EffectCopy, System: system, Previous: previous}
}

// Effects is the ordered list returned by Tick
type Effects []Effect

// Has reports whether an effect of kind was requested
func (e Effects) Has(kind EffectKind) bool {
	for _, effect := range e {
		if effect.Kind == kind {
			return true
		}
	}
	return false
}

// Messages returns the activity log lines in order
func (e Effects) Messages() []string {
	var messages []string
	for _, effect := range e {
		if effect.Kind == EffectLog {
			messages = append(messages, effect.Message)
		}
	}
	return messages
}

func (e *Effects) add(effect Effect) {
	*e = append(*e, effect)
}

func (e *Effects) persist() {
	if !e.Has(EffectPersist) {
		e.add(Effect{Kind: EffectPersist})
	}
}
