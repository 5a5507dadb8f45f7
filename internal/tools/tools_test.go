package tools

import (
	"context"
	"strings"
	"testing"
)

type fakeTool struct {
	name   string
	result string
}

func (f *fakeTool) Name() string               { return f.name }
func (f *fakeTool) Description() string        { return "fake" }
func (f *fakeTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (f *fakeTool) Execute(context.Context, map[string]any) (string, error) {
	return f.result, nil
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register(&fakeTool{name: "buscar_cardapio_ru", result: "cardapio"})
	r.Register(&fakeTool{name: "buscar_feriados", result: "feriados"})
	r.Register(&fakeTool{name: "verifica_status_sites", result: "status"})
	r.Register(&fakeTool{name: "buscar_dados_professores", result: "professores"})
	return r
}

func TestRegistryResolveExact(t *testing.T) {
	r := newTestRegistry()
	tool, ok := r.Resolve("buscar_feriados")
	if !ok || tool.Name() != "buscar_feriados" {
		t.Fatalf("exact resolve failed: %v %v", tool, ok)
	}
	if _, ok := r.Resolve("BUSCAR_FERIADOS"); !ok {
		t.Fatal("case-insensitive resolve failed")
	}
}

func TestRegistryResolveDottedName(t *testing.T) {
	r := newTestRegistry()
	tool, ok := r.Resolve("default_api.buscar_dados_professores")
	if !ok || tool.Name() != "buscar_dados_professores" {
		t.Fatalf("dotted resolve failed: %v %v", tool, ok)
	}
}

func TestRegistryResolveFragment(t *testing.T) {
	r := newTestRegistry()
	tool, ok := r.Resolve("verifica_status")
	if !ok || tool.Name() != "verifica_status_sites" {
		t.Fatalf("fragment resolve failed: %v %v", tool, ok)
	}
	if _, ok := r.Resolve("ferramenta_inexistente"); ok {
		t.Fatal("unknown name resolved")
	}
	if _, ok := r.Resolve(""); ok {
		t.Fatal("empty name resolved")
	}
}

func TestRegistryDefinitionsOrder(t *testing.T) {
	r := newTestRegistry()
	defs := r.Definitions()
	if len(defs) != 4 {
		t.Fatalf("got %d definitions", len(defs))
	}
	if defs[0].Function.Name != "buscar_cardapio_ru" || defs[0].Type != "function" {
		t.Fatalf("first definition = %+v", defs[0])
	}
}

func TestRegistryExecuteResolves(t *testing.T) {
	r := newTestRegistry()
	out, err := r.Execute(context.Background(), "default_api.buscar_feriados", nil)
	if err != nil || out != "feriados" {
		t.Fatalf("Execute = %q, %v", out, err)
	}
	if _, err := r.Execute(context.Background(), "nada", nil); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestParamHelpers(t *testing.T) {
	params := map[string]any{
		"nome":  "Ana",
		"ano":   float64(2026),
		"exato": true,
	}
	if got := GetString(params, "nome", ""); got != "Ana" {
		t.Fatalf("GetString = %q", got)
	}
	if got := GetString(params, "faltando", "padrão"); got != "padrão" {
		t.Fatalf("GetString default = %q", got)
	}
	if got := GetInt(params, "ano", 0); got != 2026 {
		t.Fatalf("GetInt = %d", got)
	}
	if got := GetBool(params, "exato", false); !got {
		t.Fatal("GetBool = false")
	}
	if got := GetBool(params, "nome", false); got {
		t.Fatal("GetBool must ignore non-bool values")
	}
}

func TestCardapioToolRejectsUnparseableDate(t *testing.T) {
	tool := NewCardapioTool(nil)
	out, err := tool.Execute(context.Background(), map[string]any{"data": "qualquer coisa"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "não consegui interpretar a data") {
		t.Fatalf("out = %q", out)
	}
}

func TestProfessoresToolRequiresName(t *testing.T) {
	tool := NewProfessoresTool(nil, nil, "")
	out, err := tool.Execute(context.Background(), map[string]any{"nome_professor": "  "})
	if err != nil {
		t.Fatal(err)
	}
	if out != "Informe o nome do professor para continuar." {
		t.Fatalf("out = %q", out)
	}
}
