// Package toolcall recovers tool invocations that the model emitted as
// plain text instead of a structured function call.
package toolcall

import (
	"regexp"
	"strconv"
	"strings"
)

var callRe = regexp.MustCompile(`(?m)^\s*([\w.]+)\s*\((.*)\)`)

// ParseText detects a call like `default_api.buscar_feriados(ano=2026)` in
// the model output. Text that looks like an example (fenced code, "exemplo",
// "ex:") is rejected outright, and only line-anchored calls count, so prose
// mentioning a function mid-sentence never triggers. Returns the bare
// function name, its keyword arguments and whether a call was found.
func ParseText(text string) (string, map[string]any, bool) {
	if text == "" {
		return "", nil, false
	}
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "exemplo") || strings.Contains(lowered, "ex:") || strings.Contains(text, "```") {
		return "", nil, false
	}

	m := callRe.FindStringSubmatch(text)
	if m == nil {
		return "", nil, false
	}
	fullName := strings.TrimSpace(m[1])
	argsStr := strings.TrimSpace(m[2])

	// A printed call wraps the real one; unwrap it. A printed call with no
	// keyword arguments is an example the model is showing, not an
	// invocation, so it is ignored.
	if fullName == "print" {
		inner := callRe.FindStringSubmatch(argsStr)
		if inner == nil {
			return "", nil, false
		}
		fullName = strings.TrimSpace(inner[1])
		args := parseArgs(strings.TrimSpace(inner[2]))
		if len(args) == 0 {
			return "", nil, false
		}
		return bareName(fullName), args, true
	}
	return bareName(fullName), parseArgs(argsStr), true
}

// bareName drops a module prefix like `default_api.`.
func bareName(fullName string) string {
	if i := strings.LastIndexByte(fullName, '.'); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}

// parseArgs splits a keyword-argument list, honoring quotes and nested
// parentheses, and types each value: quoted strings, booleans, ints,
// floats, everything else verbatim.
func parseArgs(argsStr string) map[string]any {
	kwargs := make(map[string]any)

	var parts []string
	var curr strings.Builder
	depth := 0
	inQuote := false
	var quoteChar rune
	for _, ch := range argsStr {
		if ch == '"' || ch == '\'' {
			if inQuote && ch == quoteChar {
				inQuote = false
			} else if !inQuote {
				inQuote = true
				quoteChar = ch
			}
		}
		if !inQuote {
			switch ch {
			case '(':
				depth++
			case ')':
				depth--
			case ',':
				if depth == 0 {
					parts = append(parts, strings.TrimSpace(curr.String()))
					curr.Reset()
					continue
				}
			}
		}
		curr.WriteRune(ch)
	}
	if curr.Len() > 0 {
		parts = append(parts, strings.TrimSpace(curr.String()))
	}

	for _, part := range parts {
		if part == "" || !strings.Contains(part, "=") {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSuffix(strings.TrimSpace(kv[1]), ",")
		kwargs[key] = typedValue(val)
	}
	return kwargs
}

func typedValue(v string) any {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
