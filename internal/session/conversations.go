package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/quixabot/quixabot/internal/provider"
)

// Conversation is a per-process handle on one chat session's model context.
// It owns the provider-side message log; the shared Store remains the source
// of truth for history across workers.
type Conversation struct {
	llm         provider.LLMProvider
	model       string
	tools       []provider.ToolDefinition
	temperature float64

	mu       sync.Mutex
	messages []provider.Message
}

// Send submits user text along with the accumulated context and records both
// sides in the conversation log.
func (c *Conversation) Send(ctx context.Context, text string) (*provider.ChatResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, provider.Message{Role: "user", Content: text})
	resp, err := c.llm.Chat(ctx, &provider.ChatRequest{
		Messages:    c.messages,
		Tools:       c.tools,
		Model:       c.model,
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, err
	}
	if reply := provider.RenderText(resp); reply != "" {
		c.messages = append(c.messages, provider.Message{Role: "assistant", Content: reply})
	}
	return resp, nil
}

// Conversations caches Conversation handles per worker and rebuilds them from
// the shared store when a session arrives on a worker that has not seen it.
type Conversations struct {
	llm         provider.LLMProvider
	store       Store
	model       string
	tools       []provider.ToolDefinition
	temperature float64
	log         *slog.Logger

	mu     sync.Mutex
	active map[string]*Conversation
}

func NewConversations(llm provider.LLMProvider, store Store, model string, tools []provider.ToolDefinition, log *slog.Logger) *Conversations {
	if model == "" {
		model = llm.DefaultModel()
	}
	return &Conversations{
		llm:         llm,
		store:       store,
		model:       model,
		tools:       tools,
		temperature: 0.7,
		log:         log.With("component", "session"),
		active:      make(map[string]*Conversation),
	}
}

// Get returns the cached handle for a session, or nil.
func (c *Conversations) Get(id string) *Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active[id]
}

// Ensure returns the conversation for a session, creating it and replaying
// stored user messages when this worker has no handle yet. Replay issues real
// model calls; individual failures are tolerated so a flaky turn does not
// lose the whole session.
func (c *Conversations) Ensure(ctx context.Context, id, systemInstr string) *Conversation {
	c.mu.Lock()
	if conv, ok := c.active[id]; ok {
		c.mu.Unlock()
		return conv
	}
	c.mu.Unlock()

	conv := &Conversation{
		llm:         c.llm,
		model:       c.model,
		tools:       c.tools,
		temperature: c.temperature,
	}
	if systemInstr != "" {
		conv.messages = append(conv.messages, provider.Message{Role: "system", Content: systemInstr})
	}

	msgs, ok, err := c.store.Messages(ctx, id)
	if err != nil {
		c.log.Debug("falha ao carregar histórico para reidratação", "session", id, "error", err)
	}
	if ok {
		replayed := 0
		for _, m := range msgs {
			if m.Role != "user" {
				continue
			}
			if _, err := conv.Send(ctx, m.Content); err != nil {
				c.log.Debug("falha ao reidratar mensagem", "session", id, "error", err)
			}
			replayed++
		}
		if replayed > 0 {
			c.log.Info("sessão reidratada", "session", id, "messages", replayed)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.active[id]; ok {
		return existing
	}
	c.active[id] = conv
	return conv
}

// Drop discards the local handle for a session.
func (c *Conversations) Drop(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, id)
}

// Clear discards every local handle.
func (c *Conversations) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = make(map[string]*Conversation)
}
