package feriados

import (
	"strings"
	"testing"
)

const sampleReport = `=== STATUS DOS SITES PRINCIPAIS (Tempo Real) ===
- Sigaa: ONLINE
- Moodle UFC Quixadá: OFFLINE`

func TestFormatReportFocus(t *testing.T) {
	got := FormatReport(sampleReport, "moodle")
	if !strings.Contains(got, "Moodle UFC Quixadá") || !strings.Contains(got, "offline") {
		t.Fatalf("focused answer = %q", got)
	}
	got = FormatReport(sampleReport, "sigaa")
	if got != "Sim — o Sigaa está online." {
		t.Fatalf("focused answer = %q", got)
	}
}

func TestFormatReportSummary(t *testing.T) {
	got := FormatReport(sampleReport, "")
	if !strings.Contains(got, "Online: Sigaa") || !strings.Contains(got, "Offline: Moodle UFC Quixadá") {
		t.Fatalf("mixed summary = %q", got)
	}

	allOnline := "=== S ===\n- Sigaa: ONLINE\n- Moodle: ONLINE"
	got = FormatReport(allOnline, "")
	if !strings.Contains(got, "estão online") {
		t.Fatalf("all-online summary = %q", got)
	}

	oneOnline := "=== S ===\n- Sigaa: ONLINE"
	got = FormatReport(oneOnline, "")
	if got != "Sim — Sigaa está online." {
		t.Fatalf("single-online summary = %q", got)
	}

	allOffline := "=== S ===\n- Sigaa: OFFLINE\n- Moodle: OFFLINE"
	got = FormatReport(allOffline, "")
	if !strings.Contains(got, "Nenhum dos serviços") {
		t.Fatalf("all-offline summary = %q", got)
	}
}

func TestFormatReportDegenerateInputs(t *testing.T) {
	if got := FormatReport("", ""); got != "Status dos sites temporariamente indisponível." {
		t.Fatalf("empty report = %q", got)
	}
	// no recognizable status lines: the raw report passes through
	raw := "relatório sem entradas"
	if got := FormatReport(raw, ""); got != raw {
		t.Fatalf("passthrough = %q", got)
	}
}
