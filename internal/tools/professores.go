package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/quixabot/quixabot/internal/alocacao"
	"github.com/quixabot/quixabot/internal/docentes"
	"github.com/quixabot/quixabot/internal/docparse"
)

// ProfessoresTool integrates the faculty directory with the room allocation
// document: one tool answers who a professor is, where they are teaching
// and how to reach them.
type ProfessoresTool struct {
	directory *docentes.Directory
	store     *alocacao.Store
	fallback  string // directory URL shown when a profile has no link
}

// NewProfessoresTool creates the professor lookup tool.
func NewProfessoresTool(directory *docentes.Directory, store *alocacao.Store, directoryURL string) *ProfessoresTool {
	return &ProfessoresTool{directory: directory, store: store, fallback: directoryURL}
}

func (t *ProfessoresTool) Name() string {
	return "buscar_dados_professores"
}

func (t *ProfessoresTool) Description() string {
	return "Busca informações de professores: salas e horários no documento de alocação, " +
		"e dados públicos (e-mail, Lattes, SIGAA) na página de docentes."
}

func (t *ProfessoresTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nome_professor": map[string]any{
				"type":        "string",
				"description": "Nome (ou parte do nome) do professor.",
			},
			"horario": map[string]any{
				"type":        "string",
				"description": "Filtro de horário: 'terça 10h', 'amanhã', 'semana', 'dia todo'.",
			},
			"procurandoProfessor": map[string]any{
				"type":        "boolean",
				"description": "True quando o usuário quer saber onde o professor está.",
			},
			"procurandoEmailProfessor": map[string]any{
				"type":        "boolean",
				"description": "True quando o usuário quer contato ou currículo do professor.",
			},
		},
		"required": []string{"nome_professor"},
	}
}

func (t *ProfessoresTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	nome := strings.TrimSpace(GetString(params, "nome_professor", ""))
	if nome == "" {
		return "Informe o nome do professor para continuar.", nil
	}
	horario := GetString(params, "horario", "")
	wantSchedule := GetBool(params, "procurandoProfessor", false)
	wantEmail := GetBool(params, "procurandoEmailProfessor", false)

	index := t.directory.Load(ctx)
	entry, resolved := index.ResolveBest(nome)
	resolvedName := nome
	if resolved {
		resolvedName = entry.Nome
	}
	var suggestions []docentes.Entry
	if !resolved {
		suggestions = index.Suggest(nome, docentes.SuggestLimit)
	}
	withSuggestions := func(base string) string {
		if s := docentes.FormatSuggestions(suggestions); s != "" {
			return base + "\n\n" + s
		}
		return base
	}

	if wantEmail {
		if !resolved {
			msg := fmt.Sprintf("Não encontrei informações públicas para o(a) professor(a) %s.", nome)
			return withSuggestions(msg), nil
		}
		return t.formatProfile(ctx, entry, nome), nil
	}

	sched := alocacao.ParseScheduleExpr(horario, time.Now())

	snap := t.store.Load(ctx)
	if snap.Err != nil {
		return fmt.Sprintf("Não consegui acessar o documento de alocação no momento. %v", snap.Err), nil
	}

	if wantSchedule {
		overview := sched.Week || sched.AllTimes || (len(sched.Days) > 0 && sched.Time == "")
		if overview {
			matches := t.search(snap.Rows, nome, resolvedName, resolved, sched)
			if len(matches) == 0 {
				extra := ""
				if sched.Week {
					extra = " para a semana inteira"
				}
				msg := fmt.Sprintf("Não localizei %s no documento de alocação%s. "+
					"Verifique o nome completo ou se o arquivo foi atualizado.", nome, extra)
				return withSuggestions(msg), nil
			}
			return formatWeek(nome, matches), nil
		}
	}

	matches := t.search(snap.Rows, nome, resolvedName, resolved, sched)
	if len(matches) == 0 {
		var msg string
		if wantSchedule {
			msg = fmt.Sprintf("Não localizei %s no documento de alocação. "+
				"Verifique o nome completo ou se o arquivo foi atualizado.", nome)
		} else {
			msg = fmt.Sprintf("Não encontrei dados recentes para %s.", nome)
		}
		return withSuggestions(msg), nil
	}

	formatted := make([]string, 0, len(matches))
	for _, m := range matches {
		formatted = append(formatted, alocacao.FormatRow(m.Row))
	}
	return strings.Join(formatted, "\n\n"), nil
}

// search runs the allocation lookup with the literal name and retries with
// the directory-resolved name when the literal one finds nothing.
func (t *ProfessoresTool) search(rows []docparse.Row, nome, resolvedName string, resolved bool, sched alocacao.Schedule) []alocacao.Match {
	matches := alocacao.FindPerson(rows, nome, sched)
	if len(matches) == 0 && resolved && resolvedName != nome {
		matches = alocacao.FindPerson(rows, resolvedName, sched)
	}
	return matches
}

// formatWeek renders grouped matches as an indented JSON digest the model
// can summarize day by day.
func formatWeek(nome string, matches []alocacao.Match) string {
	order, buckets := alocacao.GroupByDay(matches)
	week := make(map[string][]docparse.Row)
	for _, day := range order {
		for _, m := range buckets[day] {
			week[day] = append(week[day], m.Row)
		}
	}
	payload := map[string]any{
		"professor": nome,
		"week":      week,
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		var parts []string
		for _, day := range order {
			for _, m := range buckets[day] {
				parts = append(parts, day+": "+alocacao.FormatRow(m.Row))
			}
		}
		return strings.Join(parts, "\n\n")
	}
	return string(out)
}

// formatProfile renders the contact block for a resolved professor.
func (t *ProfessoresTool) formatProfile(ctx context.Context, entry docentes.Entry, askedName string) string {
	dados := t.directory.Fetch(ctx, entry)

	lines := []string{dados.Nome}
	if !strings.EqualFold(entry.Nome, askedName) {
		lines = append(lines, fmt.Sprintf("(Busca ajustada para %s)", entry.Nome))
	}
	if len(dados.Emails) > 0 {
		lines = append(lines, "E-mail(s): "+strings.Join(dados.Emails, ", "))
	}
	if dados.Lattes != "" {
		lines = append(lines, "Currículo Lattes: "+dados.Lattes)
	}
	if dados.Sigaa != "" {
		lines = append(lines, "Portal SIGAA: "+dados.Sigaa)
	}
	if dados.Bio != "" {
		lines = append(lines, "Resumo: "+dados.Bio)
	}
	profileURL := dados.URL
	if profileURL == "" {
		profileURL = t.fallback
	}
	lines = append(lines, "Perfil completo: "+profileURL)
	return strings.Join(lines, "\n")
}
