package session

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/quixabot/quixabot/internal/provider"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, _ := store.Messages(ctx, "missing"); ok {
		t.Fatal("unknown session should report not found")
	}

	initial := []Message{
		{Role: "system", Content: "instruções"},
		{Role: "assistant", Content: "Olá!"},
	}
	if err := store.Create(ctx, "s1", initial); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(ctx, "s1", "user", "oi"); err != nil {
		t.Fatal(err)
	}

	msgs, ok, err := store.Messages(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if len(msgs) != 3 || msgs[2].Role != "user" || msgs[2].Content != "oi" {
		t.Fatalf("messages = %#v", msgs)
	}

	// Returned slice is a copy; mutating it must not leak into the store.
	msgs[0].Content = "alterado"
	again, _, _ := store.Messages(ctx, "s1")
	if again[0].Content != "instruções" {
		t.Fatal("store contents mutated through returned slice")
	}
}

func TestMemoryStoreState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, _ := store.State(ctx, "s1"); ok {
		t.Fatal("state should be absent before set")
	}
	pending := &PendingSelection{Options: []string{"Ana Souza", "Ana Lima"}}
	if err := store.SetState(ctx, "s1", State{PendingSelection: pending}); err != nil {
		t.Fatal(err)
	}
	st, ok, _ := store.State(ctx, "s1")
	if !ok || st.PendingSelection == nil || len(st.PendingSelection.Options) != 2 {
		t.Fatalf("state = %#v ok=%v", st, ok)
	}

	if err := store.SetState(ctx, "s1", State{}); err != nil {
		t.Fatal(err)
	}
	st, _, _ = store.State(ctx, "s1")
	if st.PendingSelection != nil {
		t.Fatal("pending selection should be cleared")
	}
}

func TestMemoryStoreListAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Create(ctx, "a", nil)
	store.Create(ctx, "b", nil)
	store.SetState(ctx, "a", State{})

	ids, _ := store.List(ctx)
	if len(ids) != 2 {
		t.Fatalf("ids = %v", ids)
	}
	n, _ := store.ClearAll(ctx)
	if n != 3 {
		t.Fatalf("cleared = %d", n)
	}
	if _, ok, _ := store.Messages(ctx, "a"); ok {
		t.Fatal("session should be gone after clear")
	}
}

var _ provider.LLMProvider = (*scriptedProvider)(nil)

type scriptedProvider struct {
	calls    []provider.ChatRequest
	replies  []string
	failFrom int // 1-based call index from which Chat errors; 0 disables
}

func (p *scriptedProvider) Chat(_ context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	p.calls = append(p.calls, *req)
	if p.failFrom > 0 && len(p.calls) >= p.failFrom {
		return nil, io.ErrUnexpectedEOF
	}
	reply := "ok"
	if len(p.replies) >= len(p.calls) {
		reply = p.replies[len(p.calls)-1]
	}
	return &provider.ChatResponse{Content: reply}, nil
}

func (p *scriptedProvider) DefaultModel() string { return "test-model" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConversationSendKeepsContext(t *testing.T) {
	llm := &scriptedProvider{replies: []string{"primeira", "segunda"}}
	conv := &Conversation{llm: llm, model: "test-model", temperature: 0.7}
	conv.messages = []provider.Message{{Role: "system", Content: "instr"}}

	if _, err := conv.Send(context.Background(), "oi"); err != nil {
		t.Fatal(err)
	}
	if _, err := conv.Send(context.Background(), "tudo bem?"); err != nil {
		t.Fatal(err)
	}

	last := llm.calls[len(llm.calls)-1]
	// system + user + assistant + user
	if len(last.Messages) != 4 {
		t.Fatalf("context length = %d", len(last.Messages))
	}
	if last.Messages[2].Role != "assistant" || last.Messages[2].Content != "primeira" {
		t.Fatalf("assistant turn not recorded: %#v", last.Messages[2])
	}
}

func TestConversationsEnsureReplaysUserMessages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Create(ctx, "s1", []Message{
		{Role: "system", Content: "instr"},
		{Role: "assistant", Content: "Olá!"},
		{Role: "user", Content: "qual o cardápio?"},
		{Role: "assistant", Content: "arroz"},
		{Role: "user", Content: "e amanhã?"},
	})

	llm := &scriptedProvider{}
	convs := NewConversations(llm, store, "", nil, discardLogger())
	conv := convs.Ensure(ctx, "s1", "instr")
	if conv == nil {
		t.Fatal("expected a conversation")
	}
	// only the two user messages are replayed
	if len(llm.calls) != 2 {
		t.Fatalf("replay calls = %d", len(llm.calls))
	}
	if llm.calls[0].Model != "test-model" {
		t.Fatalf("model = %q", llm.calls[0].Model)
	}

	// second Ensure reuses the handle, no extra calls
	if convs.Ensure(ctx, "s1", "instr") != conv {
		t.Fatal("expected cached handle")
	}
	if len(llm.calls) != 2 {
		t.Fatal("cached handle should not replay again")
	}
}

func TestConversationsEnsureToleratesReplayFailures(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Create(ctx, "s1", []Message{
		{Role: "user", Content: "um"},
		{Role: "user", Content: "dois"},
	})

	llm := &scriptedProvider{failFrom: 1}
	convs := NewConversations(llm, store, "", nil, discardLogger())
	conv := convs.Ensure(ctx, "s1", "instr")
	if conv == nil {
		t.Fatal("replay failures must not sink the conversation")
	}
	if len(llm.calls) != 2 {
		t.Fatalf("both replays should be attempted, got %d", len(llm.calls))
	}

	convs.Drop("s1")
	if convs.Get("s1") != nil {
		t.Fatal("dropped handle still cached")
	}
}
