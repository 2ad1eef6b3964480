// Package session keeps the demo login record in a client-scoped storage.
//
// There is no real authentication: the only accepted credential pair is the
// literal demo pair, and the stored record is trusted as long as it parses.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Key is the storage key holding the serialized record.
const Key = "vta.session"

// ErrInvalidCredentials is returned by Authenticate on any mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Record is the demo user persisted for a logged-in client.
type Record struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
	Nome  string `json:"nome"`
	Papel string `json:"papel"`
}

// DemoUser is the only account the prototype accepts.
var DemoUser = Record{
	Email: "1",
	Senha: "1",
	Nome:  "Usuário Demo",
	Papel: "Veterinário",
}

// Authenticate compares the trimmed input against the demo pair.
func Authenticate(email, senha string) (Record, error) {
	email = strings.TrimSpace(email)
	senha = strings.TrimSpace(senha)
	if email != DemoUser.Email || senha != DemoUser.Senha {
		return Record{}, ErrInvalidCredentials
	}
	rec := DemoUser
	rec.Email = email
	return rec, nil
}

// Service reads and writes the record through an injected Storage.
type Service struct {
	storage Storage
}

// NewService creates a Service over storage.
func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// Set serializes rec under Key.
func (s *Service) Set(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}
	if err := s.storage.SetItem(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Get returns the stored record, or nil when there is none. A value that
// does not parse as a record counts as no session.
func (s *Service) Get(ctx context.Context) (*Record, error) {
	raw, err := s.storage.GetItem(ctx, Key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var rec *Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, nil
	}
	return rec, nil
}

// Active reports whether a session exists. Storage failures count as
// logged out.
func (s *Service) Active(ctx context.Context) bool {
	rec, err := s.Get(ctx)
	return err == nil && rec != nil
}

// Clear removes the stored record.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.storage.RemoveItem(ctx, Key); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
