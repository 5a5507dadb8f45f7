package docentes

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestIsProbablePersonName(t *testing.T) {
	accepted := []string{
		"Maria da Silva Santos",
		"João Pereira",
		"Wladimir",
	}
	for _, name := range accepted {
		if !isProbablePersonName(name) {
			t.Errorf("rejected %q, want accepted", name)
		}
	}
	rejected := []string{
		"Área do Aluno",
		"Cursos",
		"Notícias do Campus",
		"contato@quixada.ufc.br",
		"https://www.quixada.ufc.br",
		"de da",
		"",
	}
	for _, name := range rejected {
		if isProbablePersonName(name) {
			t.Errorf("accepted %q, want rejected", name)
		}
	}
}

const directoryHTML = `
<html><body><article>
<h2>Área do Aluno</h2>
<a href="/area">Entrar</a>
<h3><a href="/docente/maria-silva/">Maria da Silva Santos</a></h3>
<h3>João Pereira Lima</h3>
<p><a href="/docente/joao-pereira/">Ver perfil</a></p>
<h3>Maria Oliveira Santos</h3>
<p><a href="/docente/maria-oliveira/">Perfil</a></p>
<h3>Carlos Alberto Souza</h3>
<p><a href="/sobre">Institucional</a> <a href="/docente/carlos-souza/">página</a></p>
</article></body></html>`

func loadIndex(t *testing.T) *Index {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(directoryHTML))
	if err != nil {
		t.Fatal(err)
	}
	return BuildIndex(doc, "https://www.quixada.ufc.br")
}

func TestBuildIndexFiltersAndLinks(t *testing.T) {
	ix := loadIndex(t)

	e, ok := ix.ResolveBest("Maria da Silva Santos")
	if !ok {
		t.Fatal("full name not resolved")
	}
	if e.URL != "https://www.quixada.ufc.br/docente/maria-silva/" {
		t.Fatalf("url = %q", e.URL)
	}

	// heading without an inline anchor chases the following perfil link
	if e, ok = ix.ResolveBest("João Pereira Lima"); !ok || !strings.Contains(e.URL, "joao-pereira") {
		t.Fatalf("perfil-link chase failed: %+v ok=%v", e, ok)
	}

	// no perfil text anywhere after the heading, so the /docente/ href wins
	if e, ok = ix.ResolveBest("Carlos Alberto Souza"); !ok || !strings.Contains(e.URL, "carlos-souza") {
		t.Fatalf("/docente/ href chase failed: %+v ok=%v", e, ok)
	}

	if _, ok := ix.ResolveBest("Área do Aluno"); ok {
		t.Fatal("navigation heading leaked into the index")
	}
}

func TestIndexVariantKeysFirstWriterWins(t *testing.T) {
	ix := loadIndex(t)

	// "santos" is the last name of two people; the first heading keeps it.
	e, ok := ix.entries["santos"]
	if !ok {
		t.Fatal("last-name key missing")
	}
	if e.Nome != "Maria da Silva Santos" {
		t.Fatalf("last-name key held by %q, want the first Santos", e.Nome)
	}

	// adjacent bigram keys exist
	if _, ok := ix.entries["silva santos"]; !ok {
		t.Fatal("bigram key missing")
	}
}

func TestResolveBestFallbacks(t *testing.T) {
	ix := loadIndex(t)

	// substring
	if e, ok := ix.ResolveBest("pereira lima"); !ok || e.Nome != "João Pereira Lima" {
		t.Fatalf("substring resolve: %+v ok=%v", e, ok)
	}
	// all tokens spread over a key
	if e, ok := ix.ResolveBest("maria santos silva"); !ok || e.Nome != "Maria da Silva Santos" {
		t.Fatalf("token resolve: %+v ok=%v", e, ok)
	}
	// fuzzy
	if e, ok := ix.ResolveBest("Carlos Albertu Souza"); !ok || e.Nome != "Carlos Alberto Souza" {
		t.Fatalf("fuzzy resolve: %+v ok=%v", e, ok)
	}
	if _, ok := ix.ResolveBest("Fulano Inexistente Qualquer"); ok {
		t.Fatal("nonsense name resolved")
	}
}

func TestSuggest(t *testing.T) {
	ix := loadIndex(t)
	got := ix.Suggest("Maria Santos", 5)
	if len(got) < 2 {
		t.Fatalf("got %d suggestions, want both Marias", len(got))
	}
	for _, e := range got {
		if !strings.Contains(e.Nome, "Maria") {
			t.Fatalf("unrelated suggestion %q", e.Nome)
		}
	}
	if got := ix.Suggest("zzzz", 5); len(got) != 0 {
		t.Fatalf("expected no suggestions for garbage input, got %+v", got)
	}
}

func TestFormatSuggestions(t *testing.T) {
	if FormatSuggestions(nil) != "" {
		t.Fatal("empty input must render empty")
	}
	out := FormatSuggestions([]Entry{{Nome: "Ana", URL: "https://x/docente/ana/"}})
	if !strings.HasPrefix(out, "Sugestões de docentes:") || !strings.Contains(out, "- Ana: https://x/docente/ana/") {
		t.Fatalf("unexpected rendering: %q", out)
	}
}

func TestDecodeCFEmail(t *testing.T) {
	enc := encodeCFEmail(0x5a, "ana.silva@ufc.br")
	got, ok := DecodeCFEmail(enc)
	if !ok || got != "ana.silva@ufc.br" {
		t.Fatalf("DecodeCFEmail = %q, %v", got, ok)
	}
	if _, ok := DecodeCFEmail("zz"); ok {
		t.Fatal("bad hex must not decode")
	}
	if _, ok := DecodeCFEmail(""); ok {
		t.Fatal("empty must not decode")
	}
}

func encodeCFEmail(key byte, email string) string {
	const hex = "0123456789abcdef"
	var b strings.Builder
	write := func(v byte) {
		b.WriteByte(hex[v>>4])
		b.WriteByte(hex[v&0xf])
	}
	write(key)
	for i := 0; i < len(email); i++ {
		write(email[i] ^ key)
	}
	return b.String()
}

func TestParseProfile(t *testing.T) {
	html := `
<html><body><article><div class="entry-content">
<p>Professora do curso de Engenharia de Software.</p>
<p>Atua em engenharia de requisitos.</p>
<p>Terceiro parágrafo que não entra no resumo.</p>
<a href="mailto:ana@ufc.br?subject=oi">e-mail</a>
<a href="/cdn-cgi/l/email-protection#` + encodeCFEmail(0x23, "ana@ufc.br") + `">protegido</a>
<span data-cfemail="` + encodeCFEmail(0x7b, "ana.silva@ufc.br") + `"></span>
<a href="http://lattes.cnpq.br/123">Lattes</a>
<a href="https://si3.ufc.br/sigaa/p/ana">SIGAA</a>
</div></article></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	p := &Profile{Nome: "Ana", URL: "u"}
	parseProfile(doc, p)

	if len(p.Emails) != 2 {
		t.Fatalf("emails = %v, want deduped [ana@ufc.br ana.silva@ufc.br]", p.Emails)
	}
	if p.Emails[0] != "ana@ufc.br" || p.Emails[1] != "ana.silva@ufc.br" {
		t.Fatalf("emails = %v", p.Emails)
	}
	if p.Lattes != "http://lattes.cnpq.br/123" {
		t.Fatalf("lattes = %q", p.Lattes)
	}
	if p.Sigaa != "https://si3.ufc.br/sigaa/p/ana" {
		t.Fatalf("sigaa = %q", p.Sigaa)
	}
	if !strings.Contains(p.Bio, "Engenharia de Software") || strings.Contains(p.Bio, "Terceiro") {
		t.Fatalf("bio = %q", p.Bio)
	}
}
