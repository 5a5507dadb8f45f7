package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quixabot/quixabot/internal/alocacao"
	"github.com/quixabot/quixabot/internal/chat"
	"github.com/quixabot/quixabot/internal/docentes"
	"github.com/quixabot/quixabot/internal/feriados"
	"github.com/quixabot/quixabot/internal/fetch"
	"github.com/quixabot/quixabot/internal/provider"
	"github.com/quixabot/quixabot/internal/session"
	"github.com/quixabot/quixabot/internal/tools"
)

var _ provider.LLMProvider = (*cannedProvider)(nil)

type cannedProvider struct{ reply string }

func (p *cannedProvider) Chat(context.Context, *provider.ChatRequest) (*provider.ChatResponse, error) {
	return &provider.ChatResponse{Content: p.reply}, nil
}

func (p *cannedProvider) DefaultModel() string { return "test-model" }

// newTestServer backs every scraper target with one fake upstream serving a
// faculty page and an allocation table.
func newTestServer(t *testing.T, reply string) (*Server, *session.MemoryStore) {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "docente"):
			io.WriteString(w, `<html><body><article>
				<h2><a href="/docente/ana-souza/">Ana Beatriz Souza</a></h2>
			</article></body></html>`)
		default:
			io.WriteString(w, `<html><body><table>
				<tr><td>Dia</td><td>Professor</td></tr>
				<tr><td>Segunda</td><td>Ana Beatriz Souza</td></tr>
			</table></body></html>`)
		}
	}))
	t.Cleanup(upstream.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := fetch.NewClient(100)

	store := session.NewMemoryStore()
	registry := tools.NewRegistry()
	llm := &cannedProvider{reply: reply}
	convs := session.NewConversations(llm, store, "", nil, log)
	checker := feriados.NewChecker(client, nil, log)
	svc := chat.NewService(store, convs, registry, checker, log)

	directory := docentes.NewDirectory(client, upstream.URL+"/docente/", upstream.URL, time.Hour, log)
	allocations := alocacao.NewStore(client, upstream.URL+"/doc", time.Hour, log)

	return New(svc, directory, allocations, nil, log), store
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, "oi")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["ok"] != true {
		t.Fatalf("body = %v", body)
	}
}

func TestChatFlow(t *testing.T) {
	srv, store := newTestServer(t, "resposta do modelo")
	h := srv.Handler()

	id := "sessao-http"
	store.Create(context.Background(), id, []session.Message{
		{Role: "system", Content: "instr"},
	})

	rec := postJSON(t, h, "/chat/"+id, `{"message":"oi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var reply chat.Reply
	json.Unmarshal(rec.Body.Bytes(), &reply)
	if reply.Message != "resposta do modelo" {
		t.Fatalf("reply = %#v", reply)
	}
}

func TestChatUnknownSessionIs404(t *testing.T) {
	srv, _ := newTestServer(t, "oi")
	rec := postJSON(t, srv.Handler(), "/chat/desconhecida", `{"message":"oi"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["detail"] != "Sessão inválida" {
		t.Fatalf("detail = %q", body["detail"])
	}
}

func TestChatBadBodyIs400(t *testing.T) {
	srv, _ := newTestServer(t, "oi")
	rec := postJSON(t, srv.Handler(), "/chat/qualquer", `{invalid`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChatMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, "oi")
	req := httptest.NewRequest(http.MethodGet, "/chat/x", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDebugDocentes(t *testing.T) {
	srv, _ := newTestServer(t, "oi")
	req := httptest.NewRequest(http.MethodGet, "/debug/docentes", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Count  int      `json:"count"`
		Sample []string `json:"sample"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Count == 0 || len(body.Sample) == 0 {
		t.Fatalf("body = %+v", body)
	}
}

func TestDebugAlocacoes(t *testing.T) {
	srv, _ := newTestServer(t, "oi")
	req := httptest.NewRequest(http.MethodGet, "/debug/alocacoes", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Count  int    `json:"count"`
		DocURL string `json:"doc_url"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Count == 0 {
		t.Fatalf("body = %+v body=%s", body, rec.Body.String())
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t, "oi")
	srv.allowOrigins = []string{"https://app.example.com"}
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unlisted origin must not receive CORS headers")
	}
}
