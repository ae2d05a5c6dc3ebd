// Package markup converts the lightweight inline markup produced by the
// model (fenced code blocks, backtick spans, bold, italic, bullets) into
// Telegram-safe HTML. Code content is HTML-escaped exactly once and never
// re-processed for inline markup.
package markup

import (
	"html"
	"regexp"
	"strings"
)

var (
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	boldStarsRe  = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldLinesRe  = regexp.MustCompile(`__(.+?)__`)
	italStarRe   = regexp.MustCompile(`\*(.+?)\*`)
	italLineRe   = regexp.MustCompile(`_(.+?)_`)
)

const fence = "```"

// Render formats mixed prose and code for HTML delivery. Text outside
// fenced blocks gets inline markup converted; fenced blocks become
// <pre><code> with their content escaped verbatim. Blank-line separated
// blocks join back with a double newline.
func Render(text string) string {
	var formatted []string
	for _, part := range splitFences(text) {
		if strings.HasPrefix(strings.TrimSpace(part), fence) {
			formatted = append(formatted, renderCodeBlock(part))
		} else {
			formatted = append(formatted, renderProse(part))
		}
	}

	var kept []string
	for _, part := range formatted {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "\n\n")
}

// splitFences cuts the input into alternating prose and fenced-code
// parts. A fence is a line whose trimmed content starts with three
// backticks; an unclosed fence runs to the end of the input.
func splitFences(text string) []string {
	var parts []string
	var current []string
	inCode := false

	for line := range strings.Lines(text) {
		line = strings.TrimSuffix(line, "\n")
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			if inCode {
				current = append(current, line)
				parts = append(parts, strings.Join(current, "\n"))
				current = nil
				inCode = false
			} else {
				if len(current) > 0 {
					parts = append(parts, strings.Join(current, "\n"))
					current = nil
				}
				current = append(current, line)
				inCode = true
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		parts = append(parts, strings.Join(current, "\n"))
	}
	return parts
}

func renderCodeBlock(part string) string {
	lines := strings.Split(part, "\n")
	// Drop the opening fence with its language tag and the closing fence.
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), fence) {
		lines = lines[1:]
	}
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), fence) {
		lines = lines[:n-1]
	}
	content := strings.TrimSpace(strings.Join(lines, "\n"))
	return "<pre><code>" + html.EscapeString(content) + "</code></pre>"
}

func renderProse(part string) string {
	lines := strings.Split(part, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			out = append(out, line)
			continue
		}

		line = inlineCodeRe.ReplaceAllStringFunc(line, func(m string) string {
			inner := inlineCodeRe.FindStringSubmatch(m)[1]
			return "<code>" + html.EscapeString(inner) + "</code>"
		})
		line = boldStarsRe.ReplaceAllString(line, "<b>$1</b>")
		line = boldLinesRe.ReplaceAllString(line, "<b>$1</b>")
		line = italStarRe.ReplaceAllString(line, "<i>$1</i>")
		line = italLineRe.ReplaceAllString(line, "<i>$1</i>")

		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "•") ||
			strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			line = "• " + strings.TrimLeft(trimmed, "•-* ")
		}

		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
