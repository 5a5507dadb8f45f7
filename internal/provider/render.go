package provider

import "strings"

// RenderText flattens a response into displayable text. The first choice's
// content wins when present; otherwise every candidate contributes, with
// repeated chunks dropped in first-seen order and the survivors joined by
// blank lines.
func RenderText(resp *ChatResponse) string {
	if resp == nil {
		return ""
	}
	if t := strings.TrimSpace(resp.Content); t != "" {
		return t
	}
	seen := make(map[string]bool)
	var unique []string
	for _, cand := range resp.Candidates {
		t := strings.TrimSpace(cand.Content)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
	}
	return strings.Join(unique, "\n\n")
}

// FirstToolCalls returns the tool calls of the first candidate that has
// any, falling back across candidates like RenderText does for text.
func FirstToolCalls(resp *ChatResponse) []ToolCall {
	if resp == nil {
		return nil
	}
	if len(resp.ToolCalls) > 0 {
		return resp.ToolCalls
	}
	for _, cand := range resp.Candidates {
		if len(cand.ToolCalls) > 0 {
			return cand.ToolCalls
		}
	}
	return nil
}
