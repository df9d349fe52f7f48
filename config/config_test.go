package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.MaxURLLength)
	assert.True(t, cfg.ShowSourceToggle)
	assert.False(t, cfg.DisableImages)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.False(t, cfg.HasAccounts())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `max_url_length: 30
show_source_toggle: false
accounts:
  - name: support
    email: support@example.com
    password: secret
    service_provider: custom
    imap_server: mail.example.com
    imap_port: 1993
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.MaxURLLength)
	assert.False(t, cfg.ShowSourceToggle)
	assert.Equal(t, 256, cfg.CacheSize)
	require.Len(t, cfg.Accounts, 1)

	acc := cfg.Accounts[0]
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "support@example.com", acc.FetchEmail)
	assert.Equal(t, "mail.example.com", acc.GetIMAPServer())
	assert.Equal(t, 1993, acc.GetIMAPPort())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TICKETVIEW_MAX_URL_LENGTH", "72")
	t.Setenv("TICKETVIEW_DISABLE_IMAGES", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 72, cfg.MaxURLLength)
	assert.True(t, cfg.DisableImages)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_url_length: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.MaxURLLength = 40
	cfg.AddAccount(Account{Name: "helpdesk", Email: "help@example.com", ServiceProvider: "gmail"})

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, loaded.MaxURLLength)
	require.Len(t, loaded.Accounts, 1)
	assert.Equal(t, cfg.Accounts[0].ID, loaded.Accounts[0].ID)
	assert.Equal(t, "imap.gmail.com", loaded.Accounts[0].GetIMAPServer())
}

func TestAccounts(t *testing.T) {
	cfg := defaultConfig()
	cfg.AddAccount(Account{Name: "a", Email: "a@example.com"})
	cfg.AddAccount(Account{ID: "fixed", Name: "b", Email: "b@example.com", FetchEmail: "tickets@example.com"})

	assert.Equal(t, "a@example.com", cfg.Accounts[0].FetchEmail)
	assert.Equal(t, "tickets@example.com", cfg.Accounts[1].FetchEmail)
	assert.NotEqual(t, cfg.Accounts[0].ID, cfg.Accounts[1].ID)

	assert.Equal(t, "b", cfg.FindAccount("fixed").Name)
	assert.Equal(t, "b", cfg.FindAccount("b@example.com").Name)
	assert.Equal(t, "a", cfg.FindAccount("a").Name)
	assert.Nil(t, cfg.FindAccount("nobody"))
	assert.Equal(t, "a", cfg.GetFirstAccount().Name)

	assert.True(t, cfg.RemoveAccount("fixed"))
	assert.False(t, cfg.RemoveAccount("fixed"))
	assert.Len(t, cfg.Accounts, 1)
}

func TestIMAPDefaults(t *testing.T) {
	testCases := []struct {
		name    string
		account Account
		server  string
		port    int
	}{
		{name: "Gmail", account: Account{ServiceProvider: "gmail"}, server: "imap.gmail.com", port: 993},
		{name: "iCloud", account: Account{ServiceProvider: "icloud"}, server: "imap.mail.me.com", port: 993},
		{name: "Custom default port", account: Account{ServiceProvider: "custom", IMAPServer: "x"}, server: "x", port: 993},
		{name: "Unknown", account: Account{ServiceProvider: "other"}, server: "", port: 993},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.server, tc.account.GetIMAPServer())
			assert.Equal(t, tc.port, tc.account.GetIMAPPort())
		})
	}
}
