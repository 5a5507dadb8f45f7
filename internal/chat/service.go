// Package chat orchestrates sessions: pending selections, tool invocation
// and the conversation with the language model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quixabot/quixabot/internal/feriados"
	"github.com/quixabot/quixabot/internal/provider"
	"github.com/quixabot/quixabot/internal/session"
	"github.com/quixabot/quixabot/internal/textutil"
	"github.com/quixabot/quixabot/internal/toolcall"
	"github.com/quixabot/quixabot/internal/tools"
)

// Sentinel errors the HTTP layer maps to status codes. Messages are the
// user-facing detail strings.
var (
	ErrSessionNotFound = errors.New("Sessão inválida")
	ErrEngineBusy      = errors.New("Erro interno temporário: limite de requisições atingido. Tente novamente em alguns instantes.")
	ErrEngineFailed    = errors.New("Erro interno no servidor ao processar sua mensagem. Por favor, tente novamente mais tarde.")
	ErrEmptyReply      = errors.New("Erro interno no servidor: resposta vazia do modelo. Tente novamente mais tarde.")
)

const selectionTTL = 3 * time.Minute

const formatPrompt = "Use os dados gerados pela ferramenta acima e responda de forma curta e amigável " +
	"ao usuário. Apenas retorne a resposta final em Português."

const welcomeMessage = "Olá! Sou o assistente virtual da UFC Quixadá. 🎓\n\n" +
	"Posso ajudar com:\n\n" +
	"🍛 **Cardápio do RU:** Consulte o almoço ou jantar.\n\n" +
	"📅 **Feriados e Calendário:** Datas importantes, recessos e feriados.\n\n" +
	"🌐 **Status dos Sistemas:** Verifique se o Sigaa ou Moodle estão online.\n\n" +
	"👩‍🏫 **Professores:** Descubra e-mails, Lattes ou onde estarão em sala.\n\n" +
	"Como posso ajudar você hoje?"

var statusQueryRe = regexp.MustCompile(`(?i)\bsigaa\b|\bmoodle\b|status do (sigaa|moodle)|est[áa]\s*online|est[áa]\s*funcion(a|ando)|funciona(n|ndo)|(moodle|sigaa)\s*funcion`)

// IsStatusQuery reports whether the user seems to be asking about Sigaa or
// Moodle availability, which short-circuits straight to the status tool.
func IsStatusQuery(text string) bool {
	return text != "" && statusQueryRe.MatchString(text)
}

// Service wires the session store, conversation cache and tool registry into
// the chat flow.
type Service struct {
	store    session.Store
	convs    *session.Conversations
	registry *tools.Registry
	checker  *feriados.Checker
	startup  []feriados.Site
	log      *slog.Logger
	now      func() time.Time
}

func NewService(store session.Store, convs *session.Conversations, registry *tools.Registry, checker *feriados.Checker, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		convs:    convs,
		registry: registry,
		checker:  checker,
		startup:  startupSites,
		log:      log.With("component", "chat"),
		now:      time.Now,
	}
}

// StartResult is returned by Start for the transport layer.
type StartResult struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Reply is the outcome of one handled message.
type Reply struct {
	Message       string `json:"message"`
	SelectedQuery string `json:"selected_query,omitempty"`
}

var startupSites = []feriados.Site{
	{Name: "Site UFC", URL: "https://www.ufc.br"},
	{Name: "Sigaa", URL: "https://si3.ufc.br/sigaa/verTelaLogin.do"},
}

// Start creates a session: probes the main sites for the system instruction,
// registers the conversation handle and persists the opening history.
func (s *Service) Start(ctx context.Context) (StartResult, error) {
	id := uuid.NewString()
	s.log.Info("iniciando nova sessão de chat", "session", id)

	status := s.checker.ReportFor(ctx, "=== STATUS INICIAL ===", s.startup)
	instr := s.systemInstruction(status)

	s.convs.Ensure(ctx, id, instr)

	initial := []session.Message{
		{Role: "system", Content: instr},
		{Role: "assistant", Content: welcomeMessage},
	}
	if err := s.store.Create(ctx, id, initial); err != nil {
		s.log.Warn("falha ao persistir nova sessão", "session", id, "error", err)
	}
	if err := s.store.SetState(ctx, id, session.State{}); err != nil {
		s.log.Debug("falha ao gravar estado inicial", "session", id, "error", err)
	}
	return StartResult{SessionID: id, Message: welcomeMessage}, nil
}

// Handle processes one user message for an existing session.
func (s *Service) Handle(ctx context.Context, id, message string) (Reply, error) {
	msgs, ok, err := s.store.Messages(ctx, id)
	if err != nil {
		s.log.Warn("falha ao ler histórico", "session", id, "error", err)
	}
	if !ok {
		s.log.Warn("tentativa de acesso a sessão inválida", "session", id)
		return Reply{}, ErrSessionNotFound
	}

	conv := s.convs.Get(id)
	if conv == nil {
		instr := ""
		if len(msgs) > 0 {
			instr = msgs[0].Content
		}
		s.log.Info("reidratando sessão de chat a partir do histórico compartilhado", "session", id)
		conv = s.convs.Ensure(ctx, id, instr)
	}

	if reply, done := s.resolveSelection(ctx, id, message); done {
		return reply, nil
	}

	if err := s.store.Append(ctx, id, "user", message); err != nil {
		s.log.Debug("falha ao persistir mensagem do usuário", "session", id, "error", err)
	}

	// Direct path for Sigaa/Moodle availability questions, no model round
	// trip needed to decide the tool.
	if IsStatusQuery(message) {
		if reply, done := s.invokeTool(ctx, conv, id, "verifica_status_sites", nil); done {
			return reply, nil
		}
	}

	resp, err := conv.Send(ctx, message)
	if err != nil {
		return Reply{}, s.engineError(id, err)
	}
	text := provider.RenderText(resp)

	if calls := provider.FirstToolCalls(resp); len(calls) > 0 {
		call := calls[0]
		s.log.Info("executando ferramenta declarada pelo modelo", "tool", call.Name, "session", id)
		if reply, done := s.invokeTool(ctx, conv, id, call.Name, call.Arguments); done {
			return reply, nil
		}
	}

	if name, args, found := toolcall.ParseText(text); found {
		s.log.Info("executando ferramenta extraída do texto", "tool", name, "session", id)
		if reply, done := s.invokeTool(ctx, conv, id, name, args); done {
			return reply, nil
		}
	}

	if strings.TrimSpace(text) == "" {
		s.log.Warn("modelo retornou resposta vazia, tentando novamente", "session", id)
		retry, retryErr := conv.Send(ctx, message)
		if retryErr != nil {
			s.log.Debug("retry falhou", "session", id, "error", retryErr)
		} else {
			text = provider.RenderText(retry)
		}
	}
	if strings.TrimSpace(text) == "" {
		s.log.Error("resposta vazia do modelo após retry", "session", id)
		return Reply{}, ErrEmptyReply
	}

	if err := s.store.Append(ctx, id, "assistant", text); err != nil {
		s.log.Debug("falha ao persistir resposta", "session", id, "error", err)
	}
	return Reply{Message: text}, nil
}

// resolveSelection consumes a pending option selection: a 1-based digit or a
// fuzzy match against the offered options. Expired selections are discarded.
func (s *Service) resolveSelection(ctx context.Context, id, message string) (Reply, bool) {
	st, found, err := s.store.State(ctx, id)
	if err != nil || !found || st.PendingSelection == nil {
		return Reply{}, false
	}
	pending := st.PendingSelection
	if !pending.CreatedAt.IsZero() && s.now().Sub(pending.CreatedAt) > selectionTTL {
		s.clearSelection(ctx, id)
		return Reply{}, false
	}

	msg := strings.TrimSpace(message)
	chosen := ""
	if idx, err := parseDigit(msg); err == nil && idx >= 1 && idx <= len(pending.Options) {
		chosen = optionQuery(pending, idx-1)
	}
	if chosen == "" {
		if display := textutil.MatchOption(msg, pending.Options); display != "" {
			idx := indexOf(pending.Options, display)
			if idx >= 0 {
				chosen = optionQuery(pending, idx)
			} else {
				chosen = display
			}
		}
	}
	if chosen == "" {
		return Reply{}, false
	}

	s.clearSelection(ctx, id)
	s.log.Debug("seleção confirmada", "session", id, "input", message, "chosen", chosen)
	return Reply{Message: "Confirmado: " + chosen, SelectedQuery: chosen}, true
}

func (s *Service) clearSelection(ctx context.Context, id string) {
	if err := s.store.SetState(ctx, id, session.State{}); err != nil {
		s.log.Debug("falha ao limpar seleção pendente", "session", id, "error", err)
	}
}

// invokeTool resolves and runs a tool, then asks the model to phrase the raw
// output. The raw output is sent inline in the follow-up prompt so the model
// sees it even when its own history is out of sync with the shared store.
// Returns done=false when no registered tool matches the name.
func (s *Service) invokeTool(ctx context.Context, conv *session.Conversation, id, name string, args map[string]any) (Reply, bool) {
	tool, ok := s.registry.Resolve(name)
	if !ok {
		return Reply{}, false
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		s.log.Error("erro ao executar ferramenta", "tool", tool.Name(), "session", id, "error", err)
		return Reply{Message: fmt.Sprintf("Erro ao executar ferramenta: %v", err)}, true
	}

	labeled := tool.Name() + " output:\n" + result
	if err := s.store.Append(ctx, id, "tool", labeled); err != nil {
		s.log.Debug("falha ao persistir saída da ferramenta", "session", id, "error", err)
	}

	followup, err := conv.Send(ctx, labeled+"\n\n"+formatPrompt)
	if err != nil {
		s.log.Debug("falha ao formatar pelo modelo", "session", id, "error", err)
		s.appendAssistant(ctx, id, result)
		return Reply{Message: result}, true
	}
	if msg := provider.RenderText(followup); strings.TrimSpace(msg) != "" {
		s.appendAssistant(ctx, id, msg)
		return Reply{Message: msg}, true
	}
	s.appendAssistant(ctx, id, result)
	return Reply{Message: result}, true
}

func (s *Service) appendAssistant(ctx context.Context, id, text string) {
	if err := s.store.Append(ctx, id, "assistant", text); err != nil {
		s.log.Debug("falha ao persistir resposta", "session", id, "error", err)
	}
}

// engineError classifies a provider failure into the user-facing taxonomy.
func (s *Service) engineError(id string, err error) error {
	s.log.Error("erro ao enviar mensagem para o modelo", "session", id, "error", err)
	if provider.IsQuotaError(err) {
		return ErrEngineBusy
	}
	return ErrEngineFailed
}

func parseDigit(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.New("not a digit")
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

func optionQuery(p *session.PendingSelection, idx int) string {
	if idx < len(p.Queries) {
		return p.Queries[idx]
	}
	return p.Options[idx]
}

func indexOf(options []string, value string) int {
	for i, o := range options {
		if o == value {
			return i
		}
	}
	return -1
}
