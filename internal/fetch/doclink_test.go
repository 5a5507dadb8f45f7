package fetch

import (
	"strings"
	"testing"
)

func TestDocCandidates(t *testing.T) {
	url := "https://docs.google.com/document/d/13SWDptyEIPhQJAc8zgbS6HRIJdId56C_dNxwEWs_e7g/edit?tab=t.0"
	got := DocCandidates(url)
	if len(got) != 5 {
		t.Fatalf("expected 5 candidates, got %d", len(got))
	}
	if !strings.Contains(got[0], "export?format=html") {
		t.Errorf("first candidate should be html export, got %s", got[0])
	}
	if !strings.Contains(got[1], "embedded=true") {
		t.Errorf("second candidate should be embedded export, got %s", got[1])
	}
	if !strings.Contains(got[2], "format=txt") {
		t.Errorf("third candidate should be txt export, got %s", got[2])
	}
	if !strings.Contains(got[3], "/preview") {
		t.Errorf("fourth candidate should be preview, got %s", got[3])
	}
	if got[4] != url {
		t.Errorf("last candidate should be the original url, got %s", got[4])
	}
}

func TestDocCandidatesNonGoogle(t *testing.T) {
	url := "https://example.com/alocacao.html"
	got := DocCandidates(url)
	if len(got) != 1 || got[0] != url {
		t.Errorf("non-doc links should pass through, got %v", got)
	}
}

func TestRequiresAuth(t *testing.T) {
	if !RequiresAuth("https://accounts.google.com/ServiceLogin?continue=x") {
		t.Error("sign-in redirect should require auth")
	}
	if RequiresAuth("https://docs.google.com/document/d/abc/export") {
		t.Error("export url should not require auth")
	}
}
