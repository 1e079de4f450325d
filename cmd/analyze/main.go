// Command analyze evaluates a YAML snapshot of one user's finances offline and prints
// the full report as indented JSON.
//
// Usage:
//
//	analyze -file snapshot.yaml [-as-of 2025-01-31] [-log-level debug]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/advisor"
	"github.com/aristath/finsight/pkg/logger"
)

// snapshotFile is the on-disk layout read by analyze
type snapshotFile struct {
	UserID       string               `yaml:"user_id"`
	Profile      *domain.UserProfile  `yaml:"profile"`
	Transactions []domain.Transaction `yaml:"transactions"`
	Accounts     []domain.Account     `yaml:"accounts"`
	Holdings     []domain.Holding     `yaml:"holdings"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "YAML snapshot to evaluate")
	asOfFlag := fs.String("as-of", "", "evaluation date, YYYY-MM-DD (defaults to now)")
	level := fs.String("log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	var asOf time.Time
	if *asOfFlag != "" {
		day, err := time.Parse("2006-01-02", *asOfFlag)
		if err != nil {
			return fmt.Errorf("invalid -as-of %q: %w", *asOfFlag, err)
		}
		asOf = day.Add(24*time.Hour - time.Second)
	}

	log := logger.New(logger.Config{Level: *level, Pretty: true, Output: stderr})

	store, err := loadSnapshot(*file)
	if err != nil {
		return err
	}

	report, err := analyze(context.Background(), store, asOf, log)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func analyze(ctx context.Context, store *fileStore, asOf time.Time, log zerolog.Logger) (advisor.Report, error) {
	// Report never touches the snapshot store
	svc := advisor.NewService(
		store,
		accountSource{store},
		holdingSource{store},
		store,
		nil,
		domain.SystemClock{},
		log,
	)
	return svc.Report(ctx, store.userID, asOf)
}

func loadSnapshot(path string) (*fileStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap snapshotFile
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	userID := strings.TrimSpace(snap.UserID)
	if userID == "" && snap.Profile != nil {
		userID = snap.Profile.UserID
	}
	if userID == "" {
		userID = "local"
	}

	for i := range snap.Transactions {
		tx := &snap.Transactions[i]
		if !tx.Type.Valid() {
			return nil, fmt.Errorf("transaction %d: invalid type %q", i, tx.Type)
		}
		if tx.ID == "" {
			tx.ID = fmt.Sprintf("tx-%d", i+1)
		}
		tx.UserID = userID
	}
	for i := range snap.Accounts {
		acc := &snap.Accounts[i]
		if !acc.Type.Valid() {
			return nil, fmt.Errorf("account %d: invalid type %q", i, acc.Type)
		}
		acc.UserID = userID
	}
	if snap.Profile != nil {
		snap.Profile.UserID = userID
		if snap.Profile.RiskTolerance == "" {
			snap.Profile.RiskTolerance = domain.RiskModerate
		}
	}

	return &fileStore{
		userID:       userID,
		profile:      snap.Profile,
		transactions: snap.Transactions,
		accounts:     snap.Accounts,
		holdings:     snap.Holdings,
	}, nil
}
