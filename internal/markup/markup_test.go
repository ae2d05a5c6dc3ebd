package markup_test

import (
	"strings"
	"testing"

	"github.com/sybersc/cyberbot/internal/markup"
)

func TestRenderPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "single line",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "paragraphs preserved",
			input:    "first paragraph\n\nsecond paragraph",
			expected: "first paragraph\n\nsecond paragraph",
		},
		{
			name:     "multiline without markup",
			input:    "one\ntwo\nthree",
			expected: "one\ntwo\nthree",
		},
		{
			name:     "arabic text unchanged",
			input:    "مرحباً بك في البوت",
			expected: "مرحباً بك في البوت",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := markup.Render(tt.input); got != tt.expected {
				t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRenderInlineMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "double-star bold",
			input:    "this is **bold** text",
			expected: "this is <b>bold</b> text",
		},
		{
			name:     "double-underscore bold",
			input:    "this is __bold__ text",
			expected: "this is <b>bold</b> text",
		},
		{
			name:     "star italic",
			input:    "an *italic* word",
			expected: "an <i>italic</i> word",
		},
		{
			name:     "underscore italic",
			input:    "an _italic_ word",
			expected: "an <i>italic</i> word",
		},
		{
			name:     "inline code",
			input:    "run `go build` now",
			expected: "run <code>go build</code> now",
		},
		{
			name:     "inline code escapes html",
			input:    "compare `a < b && c` here",
			expected: "compare <code>a &lt; b &amp;&amp; c</code> here",
		},
		{
			name:     "bullet dash",
			input:    "- first item",
			expected: "• first item",
		},
		{
			name:     "bullet star",
			input:    "* second item",
			expected: "• second item",
		},
		{
			name:     "bullet dot preserved",
			input:    "• third item",
			expected: "• third item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := markup.Render(tt.input); got != tt.expected {
				t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRenderCodeBlocks(t *testing.T) {
	t.Parallel()

	t.Run("fenced block escapes markup characters", func(t *testing.T) {
		t.Parallel()

		input := "```\nif a < b && c > d {\n\treturn \"x\" // **not bold**\n}\n```"
		got := markup.Render(input)

		if !strings.HasPrefix(got, "<pre><code>") || !strings.HasSuffix(got, "</code></pre>") {
			t.Fatalf("Render() = %q, want <pre><code> wrapper", got)
		}
		if strings.Contains(got, "<b>") {
			t.Error("inline markup was applied inside a code block")
		}
		if !strings.Contains(got, "a &lt; b &amp;&amp; c &gt; d") {
			t.Errorf("code content not escaped: %q", got)
		}
		if !strings.Contains(got, "**not bold**") {
			t.Errorf("code content rewritten: %q", got)
		}
	})

	t.Run("language tag discarded", func(t *testing.T) {
		t.Parallel()

		got := markup.Render("```python\nprint(1)\n```")
		want := "<pre><code>print(1)</code></pre>"
		if got != want {
			t.Errorf("Render() = %q, want %q", got, want)
		}
	})

	t.Run("prose around block", func(t *testing.T) {
		t.Parallel()

		got := markup.Render("intro line\n```\ncode\n```\noutro line")
		want := "intro line\n\n<pre><code>code</code></pre>\n\noutro line"
		if got != want {
			t.Errorf("Render() = %q, want %q", got, want)
		}
	})

	t.Run("unclosed fence treated as code", func(t *testing.T) {
		t.Parallel()

		got := markup.Render("```\nno closing fence")
		want := "<pre><code>no closing fence</code></pre>"
		if got != want {
			t.Errorf("Render() = %q, want %q", got, want)
		}
	})

	t.Run("escaping happens once", func(t *testing.T) {
		t.Parallel()

		got := markup.Render("```\nx < y\n```")
		if strings.Contains(got, "&amp;lt;") {
			t.Errorf("double-escaped output: %q", got)
		}
	})
}
