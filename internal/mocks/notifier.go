package mocks

import (
	"slices"
	"sync"
)

// Notice is one message recorded by MockNotifier.
type Notice struct {
	Level   string
	Message string
}

// MockNotifier records user-facing messages instead of showing them.
type MockNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

// Info implements presenter.Notifier
func (n *MockNotifier) Info(msg string) { n.record("info", msg) }

// Warn implements presenter.Notifier
func (n *MockNotifier) Warn(msg string) { n.record("warn", msg) }

// Error implements presenter.Notifier
func (n *MockNotifier) Error(msg string) { n.record("error", msg) }

func (n *MockNotifier) record(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, Notice{Level: level, Message: msg})
}

// Notices returns a copy of everything recorded so far.
func (n *MockNotifier) Notices() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.notices)
}

// Levels returns the level of each recorded notice in order.
func (n *MockNotifier) Levels() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	levels := make([]string, len(n.notices))
	for i, notice := range n.notices {
		levels[i] = notice.Level
	}
	return levels
}
