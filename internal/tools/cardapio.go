package tools

import (
	"context"
	"time"

	"github.com/quixabot/quixabot/internal/cardapio"
)

// CardapioTool answers restaurant menu questions for a natural-language
// date.
type CardapioTool struct {
	menu *cardapio.Menu
}

// NewCardapioTool creates the menu lookup tool.
func NewCardapioTool(menu *cardapio.Menu) *CardapioTool {
	return &CardapioTool{menu: menu}
}

func (t *CardapioTool) Name() string {
	return "buscar_cardapio_ru"
}

func (t *CardapioTool) Description() string {
	return "Busca o cardápio do Restaurante Universitário para uma data. " +
		"Aceita expressões como 'hoje', 'amanhã', 'próxima sexta', '23/11' ou datas ISO."
}

func (t *CardapioTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"data": map[string]any{
				"type":        "string",
				"description": "Data desejada: 'hoje', 'amanhã', DD/MM/AAAA, AAAA-MM-DD ou dia da semana.",
			},
		},
	}
}

func (t *CardapioTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	dateISO, err := cardapio.ResolveDate(GetString(params, "data", ""), time.Now())
	if err != nil {
		// unparseable dates come back as guidance, not a failure
		return err.Error(), nil
	}
	return t.menu.FetchDay(ctx, dateISO)
}
