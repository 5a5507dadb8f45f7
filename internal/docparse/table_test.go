package docparse

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestParseTableTimetableExplosion(t *testing.T) {
	html := `<html><body><table>
		<tr><th>Horário</th><th>Segunda</th><th>Terça</th></tr>
		<tr><td>08:00-10:00</td><td>Cálculo I - Prof. X</td><td>Física I - Prof. Y</td></tr>
	</table></body></html>`
	doc := docFromHTML(t, html)

	rows := ParseDocument(doc)
	if len(rows) != 2 {
		t.Fatalf("expected 2 exploded rows, got %d", len(rows))
	}
	if rows[0][KeyDay] != "Segunda" || rows[1][KeyDay] != "Terça" {
		t.Errorf("day headers wrong: %q / %q", rows[0][KeyDay], rows[1][KeyDay])
	}
	for _, row := range rows {
		if row[KeyTime] != "08:00-10:00" {
			t.Errorf("expected time range carried, got %q", row[KeyTime])
		}
		if row.Text() == "" {
			t.Error("every row must have non-empty _row_text")
		}
	}
	if rows[0]["Coluna 1"] != "Cálculo I - Prof. X" {
		t.Errorf("sub-column split wrong: %q", rows[0]["Coluna 1"])
	}
}

func TestParseTablePlainHeaders(t *testing.T) {
	html := `<html><body><table>
		<tr><th>Disciplina</th><th>Professor</th><th></th></tr>
		<tr><td>Cálculo I</td><td>Maria Souza</td><td>Bloco 2</td></tr>
	</table></body></html>`
	doc := docFromHTML(t, html)

	rows := ParseDocument(doc)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row["Disciplina"] != "Cálculo I" || row["Professor"] != "Maria Souza" {
		t.Errorf("header mapping wrong: %v", row)
	}
	if row["Coluna 3"] != "Bloco 2" {
		t.Errorf("blank header should synthesize Coluna 3, got %v", row)
	}
	if !strings.Contains(row.Text(), "Maria Souza") {
		t.Errorf("_row_text should join cells, got %q", row.Text())
	}
}

func TestParseDocumentContextLookback(t *testing.T) {
	html := `<html><body>
		<h2>Semestre 2026.1</h2>
		<p>Alocação de salas</p>
		<table>
			<tr><th>Disciplina</th><th>Sala</th></tr>
			<tr><td>Cálculo I</td><td>Sala 5</td></tr>
		</table>
	</body></html>`
	doc := docFromHTML(t, html)

	rows := ParseDocument(doc)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	ctx := rows[0][KeyContext]
	if !strings.Contains(ctx, "Semestre 2026.1") || !strings.Contains(ctx, "Alocação de salas") {
		t.Errorf("context lookback missing headings: %q", ctx)
	}
}

func TestParseTableSkipsEmptyRows(t *testing.T) {
	html := `<html><body><table>
		<tr><th>A</th><th>B</th></tr>
		<tr><td></td><td></td></tr>
		<tr><td>x</td><td>y</td></tr>
	</table></body></html>`
	doc := docFromHTML(t, html)
	rows := ParseDocument(doc)
	if len(rows) != 1 {
		t.Fatalf("empty rows must be skipped, got %d rows", len(rows))
	}
}

func TestParsePlainTextTimetable(t *testing.T) {
	lines := []string{
		"Horário | Segunda | Terça",
		"08:00 | Cálculo I | Física I",
		"10:00 | Lab",
	}
	rows := parsePlainLines(lines)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][KeyDay] != "Segunda" || rows[0][KeyTime] != "08:00" {
		t.Errorf("first row wrong: %v", rows[0])
	}
	if rows[2][KeyDay] != "Segunda" || rows[2].Text() != "Lab" {
		t.Errorf("short row wrong: %v", rows[2])
	}
}

func TestParsePlainTextGenericRows(t *testing.T) {
	lines := []string{
		"Maria Souza | Bloco 2 | Sala 5",
		"apenas uma coluna",
		"--- | ---",
	}
	rows := parsePlainLines(lines)
	if len(rows) != 1 {
		t.Fatalf("expected 1 generic row, got %d", len(rows))
	}
	if rows[0]["Coluna 1"] != "Maria Souza" || rows[0]["Coluna 3"] != "Sala 5" {
		t.Errorf("column mapping wrong: %v", rows[0])
	}
	if rows[0].Text() != "Maria Souza | Bloco 2 | Sala 5" {
		t.Errorf("_row_text wrong: %q", rows[0].Text())
	}
}
