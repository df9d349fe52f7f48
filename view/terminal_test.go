package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// clearTerminalEnv clears every environment variable that could indicate
// hyperlink support.
func clearTerminalEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"VTE_VERSION", "KITTY_WINDOW_ID", "GHOSTTY_RESOURCES_DIR", "WEZTERM_EXECUTABLE"} {
		t.Setenv(key, "")
	}
	t.Setenv("TERM", "xterm")
	t.Setenv("TERM_PROGRAM", "basic")
}

func TestHyperlinkSupported(t *testing.T) {
	testCases := []struct {
		name     string
		key      string
		value    string
		expected bool
	}{
		{name: "Basic terminal", key: "TERM", value: "xterm", expected: false},
		{name: "Kitty", key: "TERM", value: "xterm-kitty", expected: true},
		{name: "Tmux", key: "TERM", value: "tmux-256color", expected: true},
		{name: "iTerm", key: "TERM_PROGRAM", value: "iTerm.app", expected: true},
		{name: "VS Code", key: "TERM_PROGRAM", value: "vscode", expected: true},
		{name: "VTE", key: "VTE_VERSION", value: "7200", expected: true},
		{name: "WezTerm executable", key: "WEZTERM_EXECUTABLE", value: "/usr/bin/wezterm", expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearTerminalEnv(t)
			t.Setenv(tc.key, tc.value)
			assert.Equal(t, tc.expected, hyperlinkSupported())
		})
	}
}

func TestHyperlink(t *testing.T) {
	assert.Equal(t, "docs <https://x.com/d>", hyperlink("https://x.com/d", "docs", false))
	assert.Equal(t, "<https://x.com/d>", hyperlink("https://x.com/d", "", false))
	assert.Equal(t, "\x1b]8;;https://x.com/d\x07docs\x1b]8;;\x07", hyperlink("https://x.com/d", "docs", true))
}

func TestRenderTerminal(t *testing.T) {
	block := RenderBlock("Read [docs](https://x.com/d)\n\n![logo](https://x.com/l.png)", DefaultMaxURLLength)

	t.Run("Plain terminal", func(t *testing.T) {
		clearTerminalEnv(t)
		got := RenderTerminal(block, TerminalOptions{})
		assert.Equal(t, "Read docs <https://x.com/d>\n\n[Image: logo, https://x.com/l.png]", got)
	})

	t.Run("Images disabled", func(t *testing.T) {
		clearTerminalEnv(t)
		got := RenderTerminal(block, TerminalOptions{DisableImages: true})
		assert.Equal(t, "Read docs <https://x.com/d>\n\nlogo", got)
	})

	t.Run("Hyperlink terminal", func(t *testing.T) {
		clearTerminalEnv(t)
		t.Setenv("TERM", "xterm-kitty")
		got := RenderTerminal(block, TerminalOptions{})
		assert.Contains(t, got, "\x1b]8;;https://x.com/d\x07docs\x1b]8;;\x07")
		assert.Contains(t, got, "\x1b]8;;https://x.com/l.png\x07[Click here to view image: logo]\x1b]8;;\x07")
	})
}
