package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/stuartf/oae-rest/internal/json"
)

const (
	SessionsFileName = "sessions.json"
	sessionsVersion  = 1
)

// sessionStore is the on-disk shape of the persisted sessions, keyed by
// tenant host so one file serves every tenant a user talks to.
type sessionStore struct {
	Version   int               `json:"version"`
	Sessions  map[string]string `json:"sessions"`
	UpdatedAt time.Time         `json:"updated_at"`
}

var (
	sessionsCache *sessionStore
	sessionsMu    sync.RWMutex
)

// SessionsFilePath returns the session store location, ~/.oae/sessions.json.
func SessionsFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".oae", SessionsFileName)
}

// SessionFor returns the persisted session token for a tenant host, or ""
// when none is stored.
func SessionFor(host string) string {
	store, err := loadSessions()
	if err != nil || store == nil {
		return ""
	}
	return store.Sessions[host]
}

// SaveSession persists the session token for a tenant host. The file is
// written with owner-only permissions.
func SaveSession(host, token string) error {
	if host == "" || token == "" {
		return fmt.Errorf("cannot persist an empty session")
	}

	sessionsMu.Lock()
	defer sessionsMu.Unlock()

	store, err := readSessionsFile()
	if err != nil {
		return err
	}
	if store == nil {
		store = &sessionStore{Version: sessionsVersion, Sessions: map[string]string{}}
	}
	store.Sessions[host] = token
	return writeSessionsFile(store)
}

// ClearSession drops the persisted session for a tenant host, typically
// after the server rejected it as expired.
func ClearSession(host string) error {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()

	store, err := readSessionsFile()
	if err != nil || store == nil {
		return err
	}
	if _, ok := store.Sessions[host]; !ok {
		return nil
	}
	delete(store.Sessions, host)
	return writeSessionsFile(store)
}

// InvalidateSessionCache forces the next read to hit the file again.
func InvalidateSessionCache() {
	sessionsMu.Lock()
	sessionsCache = nil
	sessionsMu.Unlock()
}

func loadSessions() (*sessionStore, error) {
	sessionsMu.RLock()
	if sessionsCache != nil {
		s := sessionsCache
		sessionsMu.RUnlock()
		return s, nil
	}
	sessionsMu.RUnlock()

	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	if sessionsCache != nil {
		return sessionsCache, nil
	}
	store, err := readSessionsFile()
	if err != nil {
		return nil, err
	}
	sessionsCache = store
	return store, nil
}

func readSessionsFile() (*sessionStore, error) {
	path := SessionsFilePath()
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var store sessionStore
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, err
	}
	if store.Sessions == nil {
		store.Sessions = map[string]string{}
	}
	return &store, nil
}

func writeSessionsFile(store *sessionStore) error {
	path := SessionsFilePath()
	if path == "" {
		return fmt.Errorf("cannot determine session store path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	if store.Version == 0 {
		store.Version = sessionsVersion
	}
	store.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}

	sessionsCache = store
	return nil
}
