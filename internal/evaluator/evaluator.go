// Package evaluator computes a student's standing against a curriculum rule set.
//
// Every function is a pure transform: record slices and rule sets passed in
// are never modified, and nothing performs I/O.
package evaluator

import (
	"strings"
	"unicode/utf8"

	"github.com/sat-tum/kaiyo-api/internal/models"
)

// UncappedLimit is the cap applied to categories the rule set does not mention.
const UncappedLimit = 999

// DefaultCompositeMarker is the label fragment identifying composite-subject categories.
const DefaultCompositeMarker = "総合科目"

// subcategory separators allowed between the composite marker and a subcategory key.
const compositeSeparators = "-・:/ "

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCompositeMarker overrides the composite-subject marker. Empty values are ignored.
func WithCompositeMarker(marker string) Option {
	return func(e *Evaluator) {
		if marker != "" {
			e.compositeMarker = marker
		}
	}
}

// Evaluator holds evaluation settings. The zero value is not usable; call New.
type Evaluator struct {
	compositeMarker string
}

// New constructs an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{compositeMarker: DefaultCompositeMarker}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CompositeMarker returns the marker used to recognise composite-subject categories.
func (e *Evaluator) CompositeMarker() string {
	return e.compositeMarker
}

// CountedCredits returns the credits that count toward rules.TotalRequiredCredits.
// Each category contributes min(acquired, cap), so surplus in one category never
// offsets shortfall in another.
func (e *Evaluator) CountedCredits(records []models.CourseRecord, rules models.RuleSet) int {
	total := 0
	for category, acquired := range acquiredByCategory(records) {
		total += min(acquired, capFor(rules, category))
	}
	return total
}

// RemainingByCategory returns the shortfall for every category the rule set names.
// Satisfied categories are reported as 0 rather than omitted.
func (e *Evaluator) RemainingByCategory(records []models.CourseRecord, rules models.RuleSet) map[string]int {
	acquired := acquiredByCategory(records)
	remaining := make(map[string]int, len(rules.CategoryRequiredCredits))
	for category, required := range rules.CategoryRequiredCredits {
		remaining[category] = max(0, required-acquired[category])
	}
	return remaining
}

// RemainingByCompositeSubcategory returns the shortfall for every composite
// subcategory quota. It is empty when the rule set has no composite breakdown.
func (e *Evaluator) RemainingByCompositeSubcategory(records []models.CourseRecord, rules models.RuleSet) map[string]int {
	if rules.CompositeSubjectDetails == nil {
		return map[string]int{}
	}

	byLabel := make(map[string]int)
	for _, record := range records {
		if record.IsOverCredit || !strings.Contains(record.Category, e.compositeMarker) {
			continue
		}
		byLabel[record.Category] += record.Credits
	}

	remaining := make(map[string]int, len(rules.CompositeSubjectDetails))
	for subcategory, required := range rules.CompositeSubjectDetails {
		acquired := 0
		for label, credits := range byLabel {
			if e.matchesSubcategory(label, subcategory) {
				acquired += credits
			}
		}
		remaining[subcategory] = max(0, required-acquired)
	}
	return remaining
}

// matchesSubcategory reports whether a composite category label belongs to the
// subcategory key: either an exact match, or the marker followed by one
// separator and the key.
func (e *Evaluator) matchesSubcategory(label, subcategory string) bool {
	if label == subcategory {
		return true
	}
	rest, ok := strings.CutPrefix(label, e.compositeMarker)
	if !ok || rest == "" {
		return false
	}
	sep, size := utf8.DecodeRuneInString(rest)
	if !strings.ContainsRune(compositeSeparators, sep) {
		return false
	}
	return rest[size:] == subcategory
}

// MissingMandatoryCourses returns, in rule order, the mandatory courses that do
// not appear among the records. Over-credit status does not matter here.
func (e *Evaluator) MissingMandatoryCourses(records []models.CourseRecord, rules models.RuleSet) []string {
	if rules.RequiredCourses == nil {
		return []string{}
	}

	taken := make(map[string]struct{}, len(records))
	for _, record := range records {
		taken[record.CourseName] = struct{}{}
	}

	missing := make([]string, 0, len(rules.RequiredCourses))
	for _, name := range rules.RequiredCourses {
		if _, ok := taken[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// ClassifyOverCredit reports whether record's category is over its cap, counting
// every record in all that shares the category and is not already flagged
// (record itself included when unflagged). The result is advisory; applying it
// is up to the caller, and which record absorbs the excess depends on the flags
// present in the snapshot.
func (e *Evaluator) ClassifyOverCredit(record models.CourseRecord, all []models.CourseRecord, rules models.RuleSet) bool {
	limit := capFor(rules, record.Category)
	total := 0
	for _, other := range all {
		if other.Category == record.Category && !other.IsOverCredit {
			total += other.Credits
		}
	}
	return total > limit
}

// Evaluate runs every read operation and assembles the result.
func (e *Evaluator) Evaluate(records []models.CourseRecord, rules models.RuleSet) models.Evaluation {
	counted := e.CountedCredits(records, rules)
	byCategory := e.RemainingByCategory(records, rules)
	composite := e.RemainingByCompositeSubcategory(records, rules)
	missing := e.MissingMandatoryCourses(records, rules)

	satisfied := counted >= rules.TotalRequiredCredits && len(missing) == 0
	for _, v := range byCategory {
		if v > 0 {
			satisfied = false
		}
	}
	for _, v := range composite {
		if v > 0 {
			satisfied = false
		}
	}

	return models.Evaluation{
		Milestone:               rules.Milestone,
		TotalRequiredCredits:    rules.TotalRequiredCredits,
		CountedCredits:          counted,
		RemainingTotal:          max(0, rules.TotalRequiredCredits-counted),
		RemainingByCategory:     byCategory,
		RemainingByComposite:    composite,
		MissingMandatoryCourses: missing,
		Satisfied:               satisfied,
	}
}

func acquiredByCategory(records []models.CourseRecord) map[string]int {
	acc := make(map[string]int)
	for _, record := range records {
		if record.IsOverCredit {
			continue
		}
		acc[record.Category] += record.Credits
	}
	return acc
}

func capFor(rules models.RuleSet, category string) int {
	if limit, ok := rules.CategoryRequiredCredits[category]; ok {
		return limit
	}
	return UncappedLimit
}
