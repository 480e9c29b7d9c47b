package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go-easyapply-automation/internal/models"

	"github.com/playwright-community/playwright-go"
)

// Cookie struct represents a browser cookie, either inside a storage state file
// or in a plain cookie array exported from a browser extension.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

type StorageEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type OriginState struct {
	Origin       string         `json:"origin"`
	LocalStorage []StorageEntry `json:"localStorage"`
}

// SessionState is the storage state Playwright writes for a browser context.
type SessionState struct {
	Cookies []Cookie      `json:"cookies"`
	Origins []OriginState `json:"origins"`
}

// StateSource is the part of a browser context the store needs to capture state.
type StateSource interface {
	StorageState(path ...string) (*playwright.StorageState, error)
}

// SessionStore keeps the authenticated browser state in one JSON file.
// Last save wins; there is no merge and no locking.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

func (s *SessionStore) Path() string {
	return s.path
}

func (s *SessionStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load returns nil, nil when no state has been saved yet.
func (s *SessionStore) Load() (*SessionState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read session %s: %v", models.ErrPersistence, s.path, err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: parse session %s: %v", models.ErrPersistence, s.path, err)
	}
	return &state, nil
}

// Save captures the context's cookies and storage and overwrites the session file.
func (s *SessionStore) Save(src StateSource) error {
	state, err := src.StorageState()
	if err != nil {
		return fmt.Errorf("%w: capture storage state: %v", models.ErrPersistence, err)
	}
	return s.write(state)
}

// SaveState writes an already captured state.
func (s *SessionStore) SaveState(state *SessionState) error {
	return s.write(state)
}

func (s *SessionStore) write(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal session: %v", models.ErrPersistence, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: create session dir: %v", models.ErrPersistence, err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("%w: write session %s: %v", models.ErrPersistence, s.path, err)
	}
	return nil
}

// LoadCookies reads a plain cookie array (as exported by browser extensions).
func LoadCookies(path string) ([]playwright.OptionalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, err
	}

	pwCookies := make([]playwright.OptionalCookie, len(cookies))
	for i, c := range cookies {
		pwCookies[i] = c.ToPlaywright()
	}
	return pwCookies, nil
}

func (c Cookie) ToPlaywright() playwright.OptionalCookie {
	pwCookie := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(c.Path),
	}

	if c.Expires > 0 {
		pwCookie.Expires = playwright.Float(c.Expires)
	}
	if c.HTTPOnly {
		pwCookie.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		pwCookie.Secure = playwright.Bool(true)
	}

	switch c.SameSite {
	case "Lax":
		pwCookie.SameSite = playwright.SameSiteAttributeLax
	case "Strict":
		pwCookie.SameSite = playwright.SameSiteAttributeStrict
	case "None":
		pwCookie.SameSite = playwright.SameSiteAttributeNone
	}

	return pwCookie
}
