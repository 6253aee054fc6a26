package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"PriceSentinel/internal/model"
	"PriceSentinel/internal/registry"
)

// Asset is one holding in the portfolio file.
type Asset struct {
	Ticker     string  `json:"ticker"`
	Shares     float64 `json:"shares"`
	AvgCost    float64 `json:"cost"`
	AlertPrice float64 `json:"alert_price"`
	Group      string  `json:"group"`
}

// FileStore reads portfolios from a JSON file maintained by an external
// process. A missing file is an empty portfolio, not an error.
type FileStore struct {
	path string

	mu      sync.Mutex
	ruleIDs map[model.Instrument]string
}

// NewFileStore creates a store backed by the given JSON file.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:    path,
		ruleIDs: make(map[model.Instrument]string),
	}
}

func (s *FileStore) load() ([]Asset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read portfolio file: %w", err)
	}
	var assets []Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("parse portfolio file: %w", err)
	}
	return assets, nil
}

// ListAssets returns all holdings as stored, for report building.
func (s *FileStore) ListAssets(_ context.Context) ([]Asset, error) {
	return s.load()
}

// ListAllInstruments returns the distinct normalized instruments across all
// holdings.
func (s *FileStore) ListAllInstruments(_ context.Context) ([]model.Instrument, error) {
	assets, err := s.load()
	if err != nil {
		return nil, err
	}
	seen := make(map[model.Instrument]struct{}, len(assets))
	instruments := make([]model.Instrument, 0, len(assets))
	for _, a := range assets {
		inst := registry.Normalize(a.Ticker)
		if inst == "" {
			continue
		}
		if _, ok := seen[inst]; ok {
			continue
		}
		seen[inst] = struct{}{}
		instruments = append(instruments, inst)
	}
	return instruments, nil
}

// ListAlertRules returns one rule per instrument that has a positive alert
// price set. Rule IDs are stable across reloads for the process lifetime.
func (s *FileStore) ListAlertRules(_ context.Context) ([]model.AlertRule, error) {
	assets, err := s.load()
	if err != nil {
		return nil, err
	}
	var rules []model.AlertRule
	seen := make(map[model.Instrument]struct{}, len(assets))
	for _, a := range assets {
		inst := registry.Normalize(a.Ticker)
		if inst == "" {
			continue
		}
		if _, ok := seen[inst]; ok {
			continue
		}
		seen[inst] = struct{}{}
		rules = append(rules, model.AlertRule{
			RuleID:     s.ruleID(inst),
			Instrument: inst,
			Threshold:  a.AlertPrice,
		})
	}
	return rules, nil
}

func (s *FileStore) ruleID(inst model.Instrument) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.ruleIDs[inst]; ok {
		return id
	}
	id := uuid.NewString()
	s.ruleIDs[inst] = id
	return id
}
