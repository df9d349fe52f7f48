package view

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"
)

// TerminalOptions controls RenderTerminal.
type TerminalOptions struct {
	// DisableImages renders images as their alt text only.
	DisableImages bool
	LinkStyle     lipgloss.Style
	ImageStyle    lipgloss.Style
}

// RenderTerminal renders a block as terminal text. Links become OSC 8 hyperlinks
// when the terminal supports them and "text <url>" otherwise.
func RenderTerminal(block Block, opts TerminalOptions) string {
	links := hyperlinkSupported()
	lines := make([]string, 0, len(block))
	for _, line := range block {
		var b strings.Builder
		for _, n := range line {
			switch n.Kind {
			case NodeLink:
				b.WriteString(opts.LinkStyle.Render(hyperlink(n.Href, n.Text, links)))
			case NodeImage:
				b.WriteString(renderImage(n, opts, links))
			default:
				if n.Text != NBSP {
					b.WriteString(n.Text)
				}
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func renderImage(n Node, opts TerminalOptions, links bool) string {
	if opts.DisableImages {
		return n.Alt
	}
	alt := n.Alt
	if alt == "" {
		alt = "no alt text"
	}
	if links {
		return opts.ImageStyle.Render(hyperlink(n.Src, fmt.Sprintf("[Click here to view image: %s]", alt), true))
	}
	return opts.ImageStyle.Render(fmt.Sprintf("[Image: %s, %s]", alt, n.Src))
}

// hyperlinkSupported checks if the terminal supports OSC 8 hyperlinks.
func hyperlinkSupported() bool {
	term := strings.ToLower(os.Getenv("TERM"))
	for _, supported := range []string{"kitty", "ghostty", "wezterm", "alacritty", "foot", "tmux", "screen"} {
		if strings.Contains(term, supported) {
			return true
		}
	}

	termProgram := strings.ToLower(os.Getenv("TERM_PROGRAM"))
	for _, supported := range []string{"iterm.app", "hyper", "vscode", "ghostty", "wezterm"} {
		if strings.Contains(termProgram, supported) {
			return true
		}
	}

	// VTE-based terminals (GNOME Terminal, Tilix)
	if os.Getenv("VTE_VERSION") != "" {
		return true
	}

	return os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("GHOSTTY_RESOURCES_DIR") != "" ||
		os.Getenv("WEZTERM_EXECUTABLE") != ""
}

// hyperlink formats text as an OSC 8 hyperlink, or as text followed by the URL in
// angle brackets when osc8 is false.
func hyperlink(url, text string, osc8 bool) string {
	if text == "" {
		text = url
	}
	if osc8 {
		return fmt.Sprintf("\x1b]8;;%s\x07%s\x1b]8;;\x07", url, text)
	}
	if text == url {
		return "<" + url + ">"
	}
	return fmt.Sprintf("%s <%s>", text, url)
}

// TerminalWidth returns the column count of the controlling terminal, or 0 when
// there is none.
func TerminalWidth() int {
	for _, f := range []*os.File{os.Stdout, os.Stdin, os.Stderr} {
		if cols := widthFromFd(int(f.Fd())); cols > 0 {
			return cols
		}
	}

	// /dev/tty still answers when stdio is redirected.
	if tty, err := os.Open("/dev/tty"); err == nil {
		defer tty.Close()
		return widthFromFd(int(tty.Fd()))
	}
	return 0
}

func widthFromFd(fd int) int {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}
