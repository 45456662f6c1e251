// Package rules holds the curriculum rule table. A Table is built once at
// startup and handed to whoever needs it; it is never mutated afterwards.
package rules

import (
	"fmt"
	"sort"

	"github.com/sat-tum/kaiyo-api/internal/models"
)

// LookupResult is the outcome of a rule lookup: either a rule set was found or not.
type LookupResult struct {
	ruleSet models.RuleSet
	found   bool
}

// Found reports whether a rule set matched the key.
func (r LookupResult) Found() bool {
	return r.found
}

// RuleSet returns the matched rule set. It is the zero value when nothing matched.
func (r LookupResult) RuleSet() models.RuleSet {
	return r.ruleSet.Clone()
}

// Table is an immutable index of rule sets keyed by (enrollment year, department, milestone).
type Table struct {
	byKey map[models.RuleKey]models.RuleSet
}

// NewTable indexes the supplied rule sets. Duplicate keys and unknown milestones are rejected.
func NewTable(sets []models.RuleSet) (*Table, error) {
	byKey := make(map[models.RuleKey]models.RuleSet, len(sets))
	for _, set := range sets {
		if !set.Milestone.Valid() {
			return nil, fmt.Errorf("rule set %d/%s: unknown milestone %q", set.EnrollmentYear, set.Department, set.Milestone)
		}
		if set.Department == "" {
			return nil, fmt.Errorf("rule set %d/%s: department is required", set.EnrollmentYear, set.Milestone)
		}
		key := set.Key()
		if _, exists := byKey[key]; exists {
			return nil, fmt.Errorf("duplicate rule set for %d/%s/%s", key.EnrollmentYear, key.Department, key.Milestone)
		}
		if set.CategoryRequiredCredits == nil {
			set.CategoryRequiredCredits = map[string]int{}
		}
		byKey[key] = set.Clone()
	}
	return &Table{byKey: byKey}, nil
}

// Lookup finds the rule set for key by exact match.
func (t *Table) Lookup(key models.RuleKey) LookupResult {
	if t == nil {
		return LookupResult{}
	}
	set, ok := t.byKey[key]
	if !ok {
		return LookupResult{}
	}
	return LookupResult{ruleSet: set, found: true}
}

// ForProgram returns every rule set for a cohort and department in milestone order.
func (t *Table) ForProgram(enrollmentYear int, department string) []models.RuleSet {
	if t == nil {
		return []models.RuleSet{}
	}
	out := make([]models.RuleSet, 0, len(models.Milestones()))
	for key, set := range t.byKey {
		if key.EnrollmentYear == enrollmentYear && key.Department == department {
			out = append(out, set.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Milestone.Order() < out[j].Milestone.Order()
	})
	return out
}

// Len returns the number of rule sets in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byKey)
}

// All returns every rule set ordered by enrollment year, department and milestone.
func (t *Table) All() []models.RuleSet {
	if t == nil {
		return []models.RuleSet{}
	}
	out := make([]models.RuleSet, 0, len(t.byKey))
	for _, set := range t.byKey {
		out = append(out, set.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.EnrollmentYear != b.EnrollmentYear {
			return a.EnrollmentYear < b.EnrollmentYear
		}
		if a.Department != b.Department {
			return a.Department < b.Department
		}
		return a.Milestone.Order() < b.Milestone.Order()
	})
	return out
}
