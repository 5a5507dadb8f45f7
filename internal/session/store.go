// Package session persists chat histories and per-session state, and keeps
// per-process conversation handles rehydrated from the shared store.
package session

import (
	"context"
	"time"
)

// Message is one entry in a session history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PendingSelection is set while the assistant waits for the user to pick one
// of several suggested options.
type PendingSelection struct {
	Options   []string  `json:"options"`
	Queries   []string  `json:"queries,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// State is the per-session mutable state shared across workers.
type State struct {
	PendingSelection *PendingSelection `json:"pending_selection"`
}

// Store is the shared session backend. Messages and State report found=false
// for unknown sessions so callers can distinguish "missing" from "empty".
type Store interface {
	Create(ctx context.Context, id string, initial []Message) error
	Messages(ctx context.Context, id string) ([]Message, bool, error)
	SetMessages(ctx context.Context, id string, messages []Message) error
	Append(ctx context.Context, id, role, content string) error
	Delete(ctx context.Context, id string) error
	SetState(ctx context.Context, id string, state State) error
	State(ctx context.Context, id string) (State, bool, error)
	List(ctx context.Context) ([]string, error)
	ClearAll(ctx context.Context) (int, error)
}
