package main

import (
	"fmt"
	"io"

	"github.com/floatpane/ticketview/config"
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage the IMAP accounts in the config file",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		listAccounts(cmd.OutOrStdout(), cfg)
		return nil
	},
}

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an account and save the config",
	Args:  cobra.NoArgs,
	RunE:  runAccountsAdd,
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove <id|name|email>",
	Short: "Remove an account and save the config",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsRemove,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the cache of the last IMAP fetch",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cached messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearMessageCache(); err != nil {
			return fmt.Errorf("could not clear message cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Message cache cleared.")
		return nil
	},
}

var newAccount config.Account

func init() {
	f := accountsAddCmd.Flags()
	f.StringVar(&newAccount.Name, "name", "", "display name")
	f.StringVar(&newAccount.Email, "email", "", "login email (required)")
	f.StringVar(&newAccount.Password, "password", "", "password or app password (required)")
	f.StringVar(&newAccount.ServiceProvider, "provider", "custom", "gmail, icloud or custom")
	f.StringVar(&newAccount.FetchEmail, "fetch-email", "", "only show messages addressed to this address (default: --email)")
	f.StringVar(&newAccount.IMAPServer, "imap-server", "", "IMAP host for custom providers")
	f.IntVar(&newAccount.IMAPPort, "imap-port", 0, "IMAP port for custom providers (default 993)")
	accountsAddCmd.MarkFlagRequired("email")
	accountsAddCmd.MarkFlagRequired("password")

	accountsCmd.AddCommand(accountsListCmd, accountsAddCmd, accountsRemoveCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func listAccounts(w io.Writer, cfg *config.Config) {
	if !cfg.HasAccounts() {
		fmt.Fprintln(w, "No accounts configured.")
		return
	}
	for _, acc := range cfg.Accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s:%d\n", acc.ID, acc.Name, acc.FetchEmail, acc.GetIMAPServer(), acc.GetIMAPPort())
	}
}

func runAccountsAdd(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	account := newAccount
	if account.GetIMAPServer() == "" {
		return fmt.Errorf("provider %q needs --imap-server", account.ServiceProvider)
	}
	cfg.AddAccount(account)
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	added := cfg.Accounts[len(cfg.Accounts)-1]
	fmt.Fprintf(cmd.OutOrStdout(), "Added account %s (%s).\n", added.ID, added.Email)
	return nil
}

func runAccountsRemove(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	account := cfg.FindAccount(args[0])
	if account == nil {
		return fmt.Errorf("no account matches %q", args[0])
	}
	id := account.ID
	cfg.RemoveAccount(id)
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed account %s.\n", id)
	return nil
}
