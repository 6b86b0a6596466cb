// Package fallback keeps pickup and franchise leads in local JSON files for
// sites running without (or alongside) the sheet relay.
package fallback

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind names a lead list. The values double as the storage keys.
type Kind string

const (
	Pickup    Kind = "a1_leads"
	Franchise Kind = "a1_franchise_leads"
)

// ParseKind maps the short route name ("pickup", "franchise") to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pickup":
		return Pickup, true
	case "franchise":
		return Franchise, true
	}
	return "", false
}

// subset lists the stored keys per kind and the form field each is read from.
var subset = map[Kind][][2]string{
	Pickup: {
		{"name", "name"},
		{"phone", "phone"},
		{"city", "city"},
		{"category", "category"},
	},
	Franchise: {
		{"fullname", "name"},
		{"phone", "phone"},
		{"email", "email"},
		{"city", "city"},
		{"state", "state"},
		{"investment", "investment"},
		{"reason", "reason"},
	},
}

// Lead is one stored submission.
type Lead struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
	TS     time.Time         `json:"ts"`
}

// Store holds one JSON list file per Kind under Dir. Lists grow without bound.
type Store struct {
	mu     sync.Mutex
	Dir    string
	Now    func() time.Time
	Logger *zap.Logger
}

func New(dir string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("fallback store dir empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create fallback dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{Dir: dir, Now: time.Now, Logger: logger}, nil
}

func (s *Store) path(k Kind) string {
	return filepath.Join(s.Dir, string(k)+".json")
}

// load reads the list for k. Missing or malformed files read as empty.
func (s *Store) load(k Kind) []Lead {
	b, err := os.ReadFile(s.path(k))
	if err != nil {
		if !os.IsNotExist(err) {
			s.Logger.Warn("fallback list unreadable, treating as empty", zap.String("kind", string(k)), zap.Error(err))
		}
		return nil
	}
	var items []Lead
	if err := json.Unmarshal(b, &items); err != nil {
		s.Logger.Warn("fallback list malformed, treating as empty", zap.String("kind", string(k)), zap.Error(err))
		return nil
	}
	return items
}

// List returns the leads for k, most recent first.
func (s *Store) List(k Kind) ([]Lead, error) {
	if _, ok := subset[k]; !ok {
		return nil, fmt.Errorf("unknown lead kind %q", k)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(k), nil
}

// Record keeps k's field subset from fields and puts the lead at the front.
func (s *Store) Record(k Kind, fields map[string]string) (Lead, error) {
	keys, ok := subset[k]
	if !ok {
		return Lead{}, fmt.Errorf("unknown lead kind %q", k)
	}
	lead := Lead{
		ID:     uuid.NewString(),
		Fields: make(map[string]string, len(keys)),
		TS:     s.Now().UTC(),
	}
	for _, kv := range keys {
		lead.Fields[kv[0]] = strings.TrimSpace(fields[kv[1]])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := append([]Lead{lead}, s.load(k)...)

	tmp := s.path(k) + ".tmp"
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return Lead{}, err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Lead{}, err
	}
	if err := os.Rename(tmp, s.path(k)); err != nil {
		return Lead{}, err
	}
	return lead, nil
}
