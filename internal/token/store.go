package token

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// CachedToken is the persisted token record. Records are replaced whole,
// never mutated.
type CachedToken struct {
	AccessToken string    `json:"accessToken"`
	ExpiryDate  time.Time `json:"expiryDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store persists the single supplier token record across restarts.
// Read returns (nil, nil) when no token is cached. Concurrent refreshes are
// last-writer-wins; any valid token works for any caller.
type Store interface {
	Read(ctx context.Context) (*CachedToken, error)
	Write(ctx context.Context, tok *CachedToken) error
}

// FileStore keeps the token record in a local JSON file. Writes go to a temp
// file in the same directory followed by a rename, so a concurrent reader
// never observes a partial record.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Read(ctx context.Context) (*CachedToken, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token cache: %w", err)
	}
	var tok CachedToken
	if err := json.Unmarshal(data, &tok); err != nil {
		// A corrupt cache is treated as absent, not fatal: the worst case is
		// one extra authentication call.
		log.Printf("[token] discarding unreadable cache %s: %v", s.Path, err)
		return nil, nil
	}
	if tok.AccessToken == "" {
		return nil, nil
	}
	return &tok, nil
}

func (s *FileStore) Write(ctx context.Context, tok *CachedToken) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token cache: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace token cache: %w", err)
	}
	return nil
}
