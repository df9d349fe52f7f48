package main

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/floatpane/ticketview/view"
	"github.com/spf13/cobra"
)

const defaultWidth = 80

var printCmd = &cobra.Command{
	Use:   "print [file]",
	Short: "Render a message to stdout",
	Long: `Render a message without the viewer. Sections stay collapsed unless named in
--expand. Reads stdin when no file or - is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

var (
	printFormat string
	printExpand []string
	printWidth  int
)

func init() {
	printCmd.Flags().StringVar(&printFormat, "format", "text", "output format: text, markdown or html")
	printCmd.Flags().StringSliceVar(&printExpand, "expand", nil, "sections to expand: quoted, signature, source")
	printCmd.Flags().IntVar(&printWidth, "width", 0, "wrap text output at this width (default: terminal width)")
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	msg, err := loadMessage(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	sections, err := parseSections(printExpand)
	if err != nil {
		return err
	}

	ctrl := view.NewController(newRenderer(cfg).Render(msg.Body), cfg.ShowSourceToggle)
	for _, s := range sections {
		ctrl.Toggle(s)
	}

	width := printWidth
	if width <= 0 {
		width = view.TerminalWidth()
	}
	if width <= 0 {
		width = defaultWidth
	}

	return writeTree(cmd.OutOrStdout(), ctrl.Tree(), printFormat, view.TerminalOptions{DisableImages: cfg.DisableImages}, width)
}

// writeTree writes the rendered tree to w. An expanded source section in text
// format is written exactly as received.
func writeTree(w io.Writer, tree view.Tree, format string, opts view.TerminalOptions, width int) error {
	if format == "text" && tree.Source != nil && tree.Source.Expanded {
		_, err := io.WriteString(w, tree.Source.Content)
		return err
	}
	out, err := renderTree(tree, format, opts, width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// parseSections maps --expand values to sections.
func parseSections(names []string) ([]view.Section, error) {
	var sections []view.Section
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "quoted":
			sections = append(sections, view.SectionQuoted)
		case "signature":
			sections = append(sections, view.SectionSignature)
		case "source":
			sections = append(sections, view.SectionSource)
		case "":
		default:
			return nil, fmt.Errorf("unknown section %q (want quoted, signature or source)", name)
		}
	}
	return sections, nil
}

func renderTree(tree view.Tree, format string, opts view.TerminalOptions, width int) (string, error) {
	switch format {
	case "text":
		if tree.Source != nil && tree.Source.Expanded {
			return tree.Source.Content, nil
		}
		return lipgloss.NewStyle().Width(width).Render(treeText(tree, opts)), nil
	case "markdown", "md":
		return treeMarkdown(tree), nil
	case "html":
		return view.MarkdownToHTML(treeMarkdown(tree))
	default:
		return "", fmt.Errorf("unknown format %q (want text, markdown or html)", format)
	}
}

func treeText(tree view.Tree, opts view.TerminalOptions) string {
	var b strings.Builder
	b.WriteString(view.RenderTerminal(tree.Body, opts))
	if sig := tree.Signature; sig != nil && sig.Expanded {
		b.WriteString("\n\n-- \n")
		b.WriteString(view.RenderTerminal(sig.Block, opts))
	}
	if q := tree.Quoted; q != nil && q.Expanded {
		b.WriteString("\n\n---------- Forwarded message ----------\n")
		for _, h := range quotedHeaders(q) {
			b.WriteString(h + "\n")
		}
		b.WriteString("\n")
		b.WriteString(view.RenderTerminal(q.Block, opts))
	}
	return b.String()
}

func treeMarkdown(tree view.Tree) string {
	if tree.Source != nil && tree.Source.Expanded {
		fence := codeFence(tree.Source.Content)
		return fence + "\n" + tree.Source.Content + "\n" + fence
	}

	var b strings.Builder
	b.WriteString(view.ToMarkdown(tree.Body))
	if sig := tree.Signature; sig != nil && sig.Expanded {
		b.WriteString("\n\n---\n\n")
		b.WriteString(view.ToMarkdown(sig.Block))
	}
	if q := tree.Quoted; q != nil && q.Expanded {
		var quoted []string
		for _, h := range quotedHeaders(q) {
			quoted = append(quoted, view.ToMarkdown(view.RenderBlock(h, 0)))
		}
		quoted = append(quoted, "", view.ToMarkdown(q.Block))
		b.WriteString("\n\n")
		for _, line := range strings.Split(strings.Join(quoted, "\n"), "\n") {
			b.WriteString(strings.TrimRight("> "+line, " ") + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

var tildeRunRegex = regexp.MustCompile(`~+`)

// codeFence returns a tilde fence longer than any tilde run in content, so no
// line of content can close it.
func codeFence(content string) string {
	n := 3
	for _, run := range tildeRunRegex.FindAllString(content, -1) {
		if len(run) >= n {
			n = len(run) + 1
		}
	}
	return strings.Repeat("~", n)
}

func quotedHeaders(q *view.QuotedSection) []string {
	var headers []string
	if q.From != "" {
		headers = append(headers, "From: "+q.From)
	}
	if q.Subject != "" {
		headers = append(headers, "Subject: "+q.Subject)
	}
	if q.Date != "" {
		headers = append(headers, "Date: "+view.FormatQuotedDate(q.Date))
	}
	return headers
}
