package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CachedMessage stores a fetched message so it can be reopened offline.
type CachedMessage struct {
	UID       uint32    `json:"uid"`
	From      string    `json:"from"`
	To        []string  `json:"to"`
	Subject   string    `json:"subject"`
	Date      time.Time `json:"date"`
	MessageID string    `json:"message_id"`
	AccountID string    `json:"account_id"`
	Body      string    `json:"body"`
}

// MessageCache stores the most recent IMAP fetch.
type MessageCache struct {
	AccountID string          `json:"account_id"`
	Mailbox   string          `json:"mailbox"`
	Messages  []CachedMessage `json:"messages"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// cacheFile returns the full path to the message cache file.
func cacheFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "message_cache.json"), nil
}

// SaveMessageCache saves messages to the cache file.
func SaveMessageCache(cache *MessageCache) error {
	path, err := cacheFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	cache.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadMessageCache loads messages from the cache file.
func LoadMessageCache() (*MessageCache, error) {
	path, err := cacheFile()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading message cache: %w", err)
	}
	var cache MessageCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing message cache: %w", err)
	}
	return &cache, nil
}

// HasMessageCache checks if a cache file exists.
func HasMessageCache() bool {
	path, err := cacheFile()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// ClearMessageCache removes the cache file. A missing file is not an error.
func ClearMessageCache() error {
	path, err := cacheFile()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
