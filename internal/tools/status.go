package tools

import (
	"context"

	"github.com/quixabot/quixabot/internal/feriados"
)

// StatusTool probes the student-facing sites in real time.
type StatusTool struct {
	checker *feriados.Checker
}

// NewStatusTool creates the site status tool.
func NewStatusTool(checker *feriados.Checker) *StatusTool {
	return &StatusTool{checker: checker}
}

func (t *StatusTool) Name() string {
	return "verifica_status_sites"
}

func (t *StatusTool) Description() string {
	return "Verifica em tempo real se os sites principais (Sigaa, Moodle) estão online."
}

func (t *StatusTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *StatusTool) Execute(ctx context.Context, _ map[string]any) (string, error) {
	return t.checker.Report(ctx), nil
}
