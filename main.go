package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/floatpane/ticketview/config"
	"github.com/floatpane/ticketview/fetcher"
	"github.com/floatpane/ticketview/tui"
	"github.com/floatpane/ticketview/view"
	"github.com/spf13/cobra"
)

// Version variables are injected by the build (GoReleaser ldflags).
// They default to "dev" when not set by the build system.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ticketview",
	Short: "Read support ticket messages in the terminal",
	Long: `ticketview renders inbound support messages the way a ticket thread shows them:
HTML is normalized to text, forwarded messages and signatures fold away, long
links are shortened and the original source stays one key away.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ticketview %s", version)
		if commit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (commit: %s, built: %s)", commit, date)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	},
}

var viewCmd = &cobra.Command{
	Use:   "view [files...]",
	Short: "Open messages in the thread viewer",
	Long: `Open one or more messages in the thread viewer. Files ending in .eml are parsed
as mail, anything else is taken as the message body. Use - to read stdin.`,
	RunE: runView,
}

var imapCmd = &cobra.Command{
	Use:   "imap",
	Short: "Fetch a mailbox over IMAP and open it in the thread viewer",
	RunE:  runIMAP,
}

var (
	viewCached  bool
	stdinEML    bool
	imapAccount string
	imapMailbox string
	imapLimit   uint32
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/ticketview/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&stdinEML, "eml", false, "treat stdin as an RFC 5322 message")

	viewCmd.Flags().BoolVar(&viewCached, "cached", false, "open the messages of the last IMAP fetch")

	imapCmd.Flags().StringVar(&imapAccount, "account", "", "account id, name or email (default: first account)")
	imapCmd.Flags().StringVar(&imapMailbox, "mailbox", "INBOX", "mailbox to fetch")
	imapCmd.Flags().Uint32Var(&imapLimit, "limit", 50, "number of newest messages to fetch")

	rootCmd.AddCommand(viewCmd, printCmd, imapCmd, accountsCmd, cacheCmd, versionCmd)
}

// resolveConfigPath returns --config, or the default location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("could not locate config: %w", err)
	}
	return path, nil
}

func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func newRenderer(cfg *config.Config) *view.Renderer {
	return view.NewRenderer(
		view.WithMaxURLLength(cfg.MaxURLLength),
		view.WithCacheSize(cfg.CacheSize),
	)
}

// loadMessage reads a single message. "-" reads stdin.
func loadMessage(path string, stdin io.Reader) (fetcher.Message, error) {
	if path == "-" {
		return fetcher.LoadReader("stdin", stdin, stdinEML)
	}
	return fetcher.LoadFile(path)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var msgs []fetcher.Message
	title := "Thread"
	if viewCached {
		if !config.HasMessageCache() {
			return errors.New("no cached messages, run ticketview imap first")
		}
		cache, err := config.LoadMessageCache()
		if err != nil {
			return err
		}
		msgs = fetcher.FromCache(cache.Messages)
		title = cache.Mailbox
	} else {
		if len(args) == 0 {
			args = []string{"-"}
		}
		for _, path := range args {
			msg, err := loadMessage(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) == 0 {
		return errors.New("no messages to show")
	}

	return runTUI(tui.NewApp(cfg, newRenderer(cfg), title, msgs, nil))
}

func runIMAP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.HasAccounts() {
		return errors.New("no accounts configured")
	}

	account := cfg.GetFirstAccount()
	if imapAccount != "" {
		account = cfg.FindAccount(imapAccount)
		if account == nil {
			return fmt.Errorf("no account matches %q", imapAccount)
		}
	}

	title := fmt.Sprintf("%s - %s", imapMailbox, account.FetchEmail)
	return runTUI(tui.NewApp(cfg, newRenderer(cfg), title, nil, tui.FetchCmd(account, imapMailbox, imapLimit)))
}

// runTUI runs app full screen. The log goes to $TICKETVIEW_LOG since the
// terminal belongs to the program.
func runTUI(app *tui.App) error {
	if path := os.Getenv("TICKETVIEW_LOG"); path != "" {
		f, err := tea.LogToFile(path, "ticketview")
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
