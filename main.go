package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"f0oster/adreport/activedirectory"
	"f0oster/adreport/archive"
	"f0oster/adreport/config"
	"f0oster/adreport/dataset"
	"f0oster/adreport/normalize"
	"f0oster/adreport/pipeline"
	"f0oster/adreport/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type runFlags struct {
	envFile      string
	reportConfig string
	format       string
	scope        string
	outputDir    string
	datasetBase  string
	allAccounts  bool
	diagrams     bool
	save         bool
	load         bool
	zipBundle    bool
	pgDSN        string
	verbose      bool
}

type scopeOutcome struct {
	name      string
	artifacts []report.Artifact
	warnings  []error
	err       error
}

func main() {
	flags := runFlags{}

	root := &cobra.Command{
		Use:   "adreport",
		Short: "Inventory an Active Directory forest and render report bundles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags)
		},
		SilenceUsage: true,
	}

	root.Flags().StringVar(&flags.envFile, "env", "settings.env", "env file with LDAP connection settings")
	root.Flags().StringVar(&flags.reportConfig, "report-config", "", "YAML file overriding report defaults")
	root.Flags().StringVar(&flags.format, "format", "html", "report format: html, xlsx or all")
	root.Flags().StringVar(&flags.scope, "scope", "all", "report scope: forest, domain or all")
	root.Flags().StringVar(&flags.outputDir, "output", ".", "directory for report artifacts")
	root.Flags().StringVar(&flags.datasetBase, "dataset", "adreport", "dataset file name base")
	root.Flags().BoolVar(&flags.allAccounts, "all-accounts", false, "include the full account table in domain reports")
	root.Flags().BoolVar(&flags.diagrams, "diagrams", false, "emit Mermaid diagram side-cars")
	root.Flags().BoolVar(&flags.save, "save", false, "save the gathered dataset for later re-rendering")
	root.Flags().BoolVar(&flags.load, "load", false, "render from a saved dataset instead of querying")
	root.Flags().BoolVar(&flags.zipBundle, "zip", false, "bundle all artifacts into a zip")
	root.Flags().StringVar(&flags.pgDSN, "pg-dsn", "", "store datasets in Postgres instead of files")
	root.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		color.Red("adreport failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, flags runFlags) error {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	reportCfg, err := config.LoadReport(flags.reportConfig)
	if err != nil {
		return err
	}
	formats, err := parseFormats(flags.format)
	if err != nil {
		return err
	}
	runForest := flags.scope == "forest" || flags.scope == "all"
	runDomain := flags.scope == "domain" || flags.scope == "all"
	if !runForest && !runDomain {
		return fmt.Errorf("unknown scope %q", flags.scope)
	}

	forest, domain, domainName, err := gatherRecords(ctx, flags, runForest, runDomain)
	if err != nil {
		return err
	}

	assembler := report.NewAssembler(flags.outputDir)
	normCfg := normalize.Config{
		StaleThreshold: reportCfg.StaleThreshold(),
		ReferenceTime:  time.Now().UTC(),
	}

	var wg sync.WaitGroup
	outcomes := make([]*scopeOutcome, 0, 2)

	// a scope whose records could not be gathered is reported as failed; the
	// other scope still runs its pipeline
	if runForest {
		outcome := &scopeOutcome{name: "forest", err: forest.err}
		outcomes = append(outcomes, outcome)
		if outcome.err == nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := pipeline.Forest(ctx, "forest_"+flags.datasetBase, forest.records)
				if err != nil {
					outcome.err = err
					return
				}
				outcome.warnings = result.Warnings
				artifacts, failures := assembler.Emit(ctx, result.Document, formats)
				outcome.artifacts = artifacts
				outcome.warnings = append(outcome.warnings, failures...)
				if flags.diagrams {
					outcome.artifacts = appendDiagram(outcome, flags, result)
				}
			}()
		}
	}

	if runDomain {
		outcome := &scopeOutcome{name: "domain " + domainName, err: domain.err}
		outcomes = append(outcomes, outcome)
		if outcome.err == nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := pipeline.Domain(ctx, "domain_"+flags.datasetBase, domain.records, reportCfg, normCfg,
					pipeline.DomainOptions{AllAccounts: flags.allAccounts})
				if err != nil {
					outcome.err = err
					return
				}
				outcome.warnings = result.Warnings
				artifacts, failures := assembler.Emit(ctx, result.Document, formats)
				outcome.artifacts = artifacts
				outcome.warnings = append(outcome.warnings, failures...)
			}()
		}
	}

	wg.Wait()

	if flags.zipBundle {
		var files []string
		for _, o := range outcomes {
			for _, a := range o.artifacts {
				files = append(files, a.Path)
			}
		}
		if len(files) > 0 {
			zipPath := filepath.Join(flags.outputDir, flags.datasetBase+"_report.zip")
			if err := archive.Bundle(zipPath, files); err != nil {
				slog.Error("bundle failed", "error", err)
			} else {
				color.Green("bundled %d artifacts into %s", len(files), zipPath)
			}
		}
	}

	return summarize(outcomes)
}

// scopeData is one scope's gathered record set, or the error that kept the
// scope from being gathered at all.
type scopeData struct {
	records []*activedirectory.DirectoryRecord
	err     error
}

// gatherRecords fetches or loads the record set per requested scope. One
// scope's query or load failure is recorded in its scopeData so the other
// scope still proceeds; only configuration and connection failures are fatal.
func gatherRecords(ctx context.Context, flags runFlags, runForest, runDomain bool) (forest, domain scopeData, domainName string, err error) {
	conn, err := config.LoadConnection(flags.envFile)
	if err != nil && !flags.load {
		return forest, domain, "", err
	}
	domainName = conn.BaseDN

	if flags.load {
		forest, domain = loadDatasets(ctx, flags, runForest, runDomain)
		return forest, domain, domainName, nil
	}

	instance := activedirectory.NewInstance(conn.BaseDN, conn.DcFQDN, conn.PageSize)
	if err := instance.Connect(conn.Username, conn.Password); err != nil {
		return forest, domain, "", err
	}
	defer instance.Close()

	if runForest {
		forest.records, forest.err = instance.FetchForestRecords(ctx)
		if forest.err != nil {
			slog.Error("forest query failed, scope reported as failed", "error", forest.err)
		}
	}
	if runDomain {
		domain.records, domain.err = instance.FetchDomainRecords(ctx)
		if domain.err != nil {
			slog.Error("domain query failed, scope reported as failed", "error", domain.err)
		}
	}

	if flags.save {
		if err := saveDatasets(ctx, flags, forest.records, domain.records); err != nil {
			slog.Error("dataset save failed", "error", err)
		}
	}
	return forest, domain, domainName, nil
}

func loadDatasets(ctx context.Context, flags runFlags, runForest, runDomain bool) (forest, domain scopeData) {
	load := func(scope dataset.Scope) ([]*activedirectory.DirectoryRecord, error) {
		if flags.pgDSN != "" {
			store := dataset.NewPostgresStore(flags.pgDSN)
			if err := store.Connect(ctx); err != nil {
				return nil, err
			}
			defer store.Close()
			return store.Load(ctx, scope, flags.datasetBase)
		}
		return dataset.NewFileStore(flags.outputDir).Load(scope, flags.datasetBase)
	}

	if runForest {
		forest.records, forest.err = load(dataset.ScopeForest)
		if errors.Is(forest.err, dataset.ErrMissingDataset) {
			slog.Warn("forest dataset missing, scope skipped", "error", forest.err)
		}
	}
	if runDomain {
		domain.records, domain.err = load(dataset.ScopeDomain)
		if errors.Is(domain.err, dataset.ErrMissingDataset) {
			slog.Warn("domain dataset missing, scope skipped", "error", domain.err)
		}
	}
	return forest, domain
}

func saveDatasets(ctx context.Context, flags runFlags, forest, domain []*activedirectory.DirectoryRecord) error {
	if flags.pgDSN != "" {
		store := dataset.NewPostgresStore(flags.pgDSN)
		if err := store.Connect(ctx); err != nil {
			return err
		}
		defer store.Close()
		if len(forest) > 0 {
			if err := store.Save(ctx, dataset.ScopeForest, flags.datasetBase, forest); err != nil {
				return err
			}
		}
		if len(domain) > 0 {
			return store.Save(ctx, dataset.ScopeDomain, flags.datasetBase, domain)
		}
		return nil
	}

	store := dataset.NewFileStore(flags.outputDir)
	if len(forest) > 0 {
		if err := store.Save(dataset.ScopeForest, flags.datasetBase, forest); err != nil {
			return err
		}
	}
	if len(domain) > 0 {
		return store.Save(dataset.ScopeDomain, flags.datasetBase, domain)
	}
	return nil
}

func appendDiagram(outcome *scopeOutcome, flags runFlags, result *pipeline.ForestResult) []report.Artifact {
	path := filepath.Join(flags.outputDir, "forest_"+flags.datasetBase+".mmd")
	if err := os.WriteFile(path, []byte(result.Diagram.Mermaid()), 0o644); err != nil {
		outcome.warnings = append(outcome.warnings, err)
		return outcome.artifacts
	}
	return append(outcome.artifacts, report.Artifact{Path: path, Format: "mermaid"})
}

func parseFormats(s string) ([]report.Format, error) {
	switch s {
	case "html":
		return []report.Format{report.FormatHTML}, nil
	case "xlsx":
		return []report.Format{report.FormatXLSX}, nil
	case "all":
		return []report.Format{report.FormatHTML, report.FormatXLSX}, nil
	}
	return nil, fmt.Errorf("unknown format %q", s)
}

// summarize prints the per-scope outcome and fails only when every scope did.
func summarize(outcomes []*scopeOutcome) error {
	failed := 0
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			failed++
			color.Red("%s: failed: %v", o.name, o.err)
		case len(o.warnings) > 0:
			color.Yellow("%s: %d artifacts, %d warnings", o.name, len(o.artifacts), len(o.warnings))
		default:
			color.Green("%s: %d artifacts", o.name, len(o.artifacts))
		}
	}
	if len(outcomes) > 0 && failed == len(outcomes) {
		return errors.New("all report scopes failed")
	}
	return nil
}
