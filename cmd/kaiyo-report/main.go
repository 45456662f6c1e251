// Command kaiyo-report prints a student's credit progress to the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/sat-tum/kaiyo-api/internal/evaluator"
	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/internal/repository"
	"github.com/sat-tum/kaiyo-api/internal/rules"
	"github.com/sat-tum/kaiyo-api/internal/service"
	"github.com/sat-tum/kaiyo-api/pkg/config"
	"github.com/sat-tum/kaiyo-api/pkg/database"
)

func main() {
	studentID := flag.String("student", "", "student ID to report on")
	milestone := flag.String("milestone", "", "Grade2, Grade3, Grade4 or Graduation (default: next for current grade)")
	listRules := flag.Bool("rules", false, "list the loaded rule table instead of a student report")
	importFile := flag.String("import", "", "validate a rule file and write it to the database, then list it")
	flag.Parse()

	opts := options{
		studentID:  *studentID,
		milestone:  models.MilestoneType(*milestone),
		listRules:  *listRules,
		importFile: *importFile,
	}
	if err := run(opts); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

type options struct {
	studentID  string
	milestone  models.MilestoneType
	listRules  bool
	importFile string
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Only an import changes the database.
	cfg.Database.RunMigrations = opts.importFile != ""

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	ruleSets := repository.NewRuleSetRepository(db)
	if opts.importFile != "" {
		table, err := rules.Import(ctx, opts.importFile, ruleSets)
		if err != nil {
			return err
		}
		color.Green("imported %d rule sets from %s", table.Len(), opts.importFile)
		printRuleTable(os.Stdout, table)
		return nil
	}

	table, err := rules.Load(ctx, cfg.Rules.Source, cfg.Rules.File, ruleSets)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	if opts.listRules {
		printRuleTable(os.Stdout, table)
		return nil
	}
	if opts.studentID == "" {
		return fmt.Errorf("-student is required")
	}

	profiles := service.NewProfileService(repository.NewStudentProfileRepository(db), nil, nil, nil)
	progressSvc := service.NewProgressService(service.ProgressServiceConfig{
		Profiles:  profiles,
		Records:   repository.NewCourseRecordRepository(db),
		Rules:     table,
		Evaluator: evaluator.New(evaluator.WithCompositeMarker(cfg.Rules.CompositeMarker)),
	})

	progress, err := progressSvc.Evaluate(ctx, opts.studentID, opts.milestone)
	if err != nil {
		return err
	}
	printProgress(os.Stdout, progress)
	return nil
}
