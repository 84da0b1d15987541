package main

import (
	"flag"
	"fmt"
	"os"

	"energysink-engine/internal/reputation"
)

// runBuildReputation is the offline batch step: it folds a labeled postings
// CSV into the reputation snapshot the engine loads at startup.
func runBuildReputation(args []string) error {
	fs := flag.NewFlagSet("build-reputation", flag.ContinueOnError)
	dataset := fs.String("dataset", "", "labeled postings CSV (company_profile, company_name, fraudulent)")
	out := fs.String("out", "reputation.json", "snapshot output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataset == "" {
		return fmt.Errorf("-dataset is required")
	}

	f, err := os.Open(*dataset)
	if err != nil {
		return err
	}
	defer f.Close()

	table, err := reputation.BuildFromCSV(f)
	if err != nil {
		return fmt.Errorf("build table: %w", err)
	}
	if err := table.SaveSnapshot(*out); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	fmt.Printf("wrote %d company records to %s\n", table.Len(), *out)
	return nil
}
