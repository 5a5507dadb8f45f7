package tools

import (
	"context"
	"time"

	"github.com/quixabot/quixabot/internal/feriados"
)

// FeriadosTool looks up academic and municipal holidays.
type FeriadosTool struct {
	lookup *feriados.Lookup
}

// NewFeriadosTool creates the holiday lookup tool.
func NewFeriadosTool(lookup *feriados.Lookup) *FeriadosTool {
	return &FeriadosTool{lookup: lookup}
}

func (t *FeriadosTool) Name() string {
	return "buscar_feriados"
}

func (t *FeriadosTool) Description() string {
	return "Busca feriados e eventos do calendário universitário e feriados municipais de Quixadá. " +
		"Pode focar um ano inteiro, um mês ou a semana que vem."
}

func (t *FeriadosTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ano": map[string]any{
				"type":        "integer",
				"description": "Ano de interesse, ex.: 2026.",
			},
			"mes": map[string]any{
				"type":        "integer",
				"description": "Mês de interesse (1-12), opcional.",
			},
			"dia": map[string]any{
				"type":        "integer",
				"description": "Dia de interesse, opcional.",
			},
			"verificar_semana": map[string]any{
				"type":        "boolean",
				"description": "Quando true, foca a semana próxima.",
			},
		},
		"required": []string{"ano"},
	}
}

func (t *FeriadosTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	now := time.Now()
	year := GetInt(params, "ano", now.Year())
	month := GetInt(params, "mes", 0)
	day := GetInt(params, "dia", 0)
	checkWeek := GetBool(params, "verificar_semana", false)
	return t.lookup.Search(ctx, year, month, day, checkWeek, now), nil
}
