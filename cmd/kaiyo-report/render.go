package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/internal/rules"
)

func printProgress(w io.Writer, p *models.Progress) {
	eval := p.Evaluation
	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintf(w, "\n=== %s / %d / %s ===\n", p.StudentID, p.EnrollmentYear, p.Department) //nolint:errcheck

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"Milestone", "Required", "Counted", "Remaining", "Records"})
	summary.Append([]string{
		string(eval.Milestone),
		strconv.Itoa(eval.TotalRequiredCredits),
		strconv.Itoa(eval.CountedCredits),
		strconv.Itoa(eval.RemainingTotal),
		strconv.Itoa(p.RecordCount),
	})
	summary.Render()

	printRemaining(w, "Remaining by category", eval.RemainingByCategory)
	if len(eval.RemainingByComposite) > 0 {
		printRemaining(w, "Remaining by composite subcategory", eval.RemainingByComposite)
	}

	if len(eval.MissingMandatoryCourses) > 0 {
		color.New(color.FgYellow).Fprintln(w, "\nMissing mandatory courses") //nolint:errcheck
		for _, name := range eval.MissingMandatoryCourses {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}

	if eval.Satisfied {
		color.New(color.FgGreen).Fprintln(w, "\nAll requirements met.") //nolint:errcheck
	} else {
		color.New(color.FgRed).Fprintln(w, "\nRequirements not yet met.") //nolint:errcheck
	}
}

func printRemaining(w io.Writer, title string, remaining map[string]int) {
	color.New(color.FgYellow).Fprintf(w, "\n%s\n", title) //nolint:errcheck
	keys := make([]string, 0, len(remaining))
	for k := range remaining {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Remaining"})
	for _, k := range keys {
		table.Append([]string{k, strconv.Itoa(remaining[k])})
	}
	table.Render()
}

func printRuleTable(w io.Writer, table *rules.Table) {
	color.New(color.FgCyan, color.Bold).Fprintf(w, "\n=== %d rule sets ===\n", table.Len()) //nolint:errcheck
	out := tablewriter.NewWriter(w)
	out.SetHeader([]string{"Year", "Department", "Milestone", "Total", "Categories", "Composite", "Mandatory"})
	for _, set := range table.All() {
		out.Append([]string{
			strconv.Itoa(set.EnrollmentYear),
			set.Department,
			string(set.Milestone),
			strconv.Itoa(set.TotalRequiredCredits),
			strconv.Itoa(len(set.CategoryRequiredCredits)),
			strconv.Itoa(len(set.CompositeSubjectDetails)),
			strconv.Itoa(len(set.RequiredCourses)),
		})
	}
	out.Render()
}
