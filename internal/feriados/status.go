// Package feriados checks institutional site availability and looks up
// holiday calendars.
package feriados

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/quixabot/quixabot/internal/fetch"
)

const (
	statusTimeout = 3 * time.Second
	maxStatusLine = 200
	maxReport     = 2000
)

// Site is one monitored service.
type Site struct {
	Name string
	URL  string
}

// Checker probes the monitored sites in real time.
type Checker struct {
	client *fetch.Client
	sites  []Site
	log    *slog.Logger
}

// NewChecker builds a Checker over the given sites.
func NewChecker(client *fetch.Client, sites []Site, log *slog.Logger) *Checker {
	return &Checker{client: client, sites: sites, log: log.With("component", "status")}
}

// Report probes every site and renders the raw status block. Probes use a
// short timeout so status questions never stall the chat.
func (c *Checker) Report(ctx context.Context) string {
	return c.buildReport(ctx, "=== STATUS DOS SITES PRINCIPAIS (Tempo Real) ===", c.sites)
}

// ReportFor probes an arbitrary site list under a custom title. Used for the
// startup status block embedded in the system instruction.
func (c *Checker) ReportFor(ctx context.Context, title string, sites []Site) string {
	return c.buildReport(ctx, title, sites)
}

func (c *Checker) buildReport(ctx context.Context, title string, sites []Site) string {
	lines := []string{title}
	for _, site := range sites {
		c.log.Info("checking site status", "site", site.Name)
		status := "OFFLINE"
		if c.client.Status(ctx, site.URL, statusTimeout) {
			status = "ONLINE"
		}
		line := fmt.Sprintf("- %s: %s", site.Name, status)
		if len(line) > maxStatusLine {
			line = fmt.Sprintf("- %s: %s (truncated)", site.Name, status)
		}
		lines = append(lines, line)
	}
	report := strings.Join(lines, "\n")
	if len(report) > maxReport {
		c.log.Warn("status report truncated", "len", len(report))
		report = report[:maxReport] + "... (truncated)"
	}
	return report
}

var statusLineRe = regexp.MustCompile(`(?i)([A-Za-zÀ-ÖØ-öø-ÿ0-9\s]+):\s*(ONLINE|OFFLINE)`)

// FormatReport condenses a raw status block into a one-line human answer.
// With focus set (e.g. "moodle") the answer covers that service only.
func FormatReport(report, focus string) string {
	if report == "" {
		return "Status dos sites temporariamente indisponível."
	}

	type entry struct{ name, status string }
	var entries []entry
	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := statusLineRe.FindStringSubmatch(line); m != nil {
			entries = append(entries, entry{strings.TrimSpace(m[1]), strings.ToUpper(m[2])})
		}
	}
	if len(entries) == 0 {
		return report
	}

	if focus != "" {
		lowFocus := strings.ToLower(focus)
		for _, e := range entries {
			if !strings.Contains(strings.ToLower(e.name), lowFocus) {
				continue
			}
			if e.status == "ONLINE" {
				return fmt.Sprintf("Sim — o %s está online.", e.name)
			}
			return fmt.Sprintf("Parece que o %s está offline (status: %s).", e.name, e.status)
		}
	}

	var online, offline []string
	for _, e := range entries {
		if e.status == "ONLINE" {
			online = append(online, e.name)
		} else {
			offline = append(offline, e.name)
		}
	}

	switch {
	case len(online) > 0 && len(offline) == 0:
		if len(online) == 1 {
			return fmt.Sprintf("Sim — %s está online.", online[0])
		}
		return fmt.Sprintf("Sim — %s estão online.", strings.Join(online, ", "))
	case len(offline) > 0 && len(online) == 0:
		return fmt.Sprintf("Nenhum dos serviços está online no momento: %s.", strings.Join(offline, ", "))
	default:
		var parts []string
		if len(online) > 0 {
			parts = append(parts, "Online: "+strings.Join(online, ", "))
		}
		if len(offline) > 0 {
			parts = append(parts, "Offline: "+strings.Join(offline, ", "))
		}
		return fmt.Sprintf("Status resumido — %s.", strings.Join(parts, "; "))
	}
}
