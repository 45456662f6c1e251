package rules

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sat-tum/kaiyo-api/internal/models"
)

// Source kinds accepted by Load.
const (
	SourceFile     = "file"
	SourceDatabase = "database"
)

// file is the on-disk layout of a rule table. JSON documents parse as well since YAML is a superset.
type file struct {
	Rules []models.RuleSet `yaml:"rules"`
}

// Store lists persisted rule sets.
type Store interface {
	ListAll(ctx context.Context) ([]models.RuleSet, error)
}

// ParseFile decodes rule sets from YAML or JSON bytes.
func ParseFile(data []byte) ([]models.RuleSet, error) {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode rule file: %w", err)
	}
	return doc.Rules, nil
}

// LoadFile reads and indexes a rule file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file %s: %w", path, err)
	}
	sets, err := ParseFile(data)
	if err != nil {
		return nil, err
	}
	return NewTable(sets)
}

// LoadStore reads and indexes every rule set from a store.
func LoadStore(ctx context.Context, store Store) (*Table, error) {
	sets, err := store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rule sets: %w", err)
	}
	return NewTable(sets)
}

// Load builds the table from the configured source.
func Load(ctx context.Context, source, path string, store Store) (*Table, error) {
	switch source {
	case SourceDatabase:
		if store == nil {
			return nil, fmt.Errorf("rule source %q requires a database", source)
		}
		return LoadStore(ctx, store)
	case SourceFile, "":
		return LoadFile(path)
	default:
		return nil, fmt.Errorf("unknown rule source %q", source)
	}
}

// Writer persists rule sets.
type Writer interface {
	Upsert(ctx context.Context, set models.RuleSet) error
}

// Import validates a rule file as a whole and writes every set to the store.
// Nothing is written when the file fails validation.
func Import(ctx context.Context, path string, w Writer) (*Table, error) {
	table, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, set := range table.All() {
		if err := w.Upsert(ctx, set); err != nil {
			return nil, fmt.Errorf("import rule set %d/%s/%s: %w", set.EnrollmentYear, set.Department, set.Milestone, err)
		}
	}
	return table, nil
}
