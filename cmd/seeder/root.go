package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"concierge/internal/adapters/observability"
	"concierge/internal/app"
	"concierge/internal/domain"
	"concierge/internal/shared"
	mysqlrepo "concierge/internal/storage/mysql"
)

func newRootCmd() *cobra.Command {
	var (
		file    string
		workers int
	)
	cmd := &cobra.Command{
		Use:           "seeder --file properties.json",
		Short:         "Register properties in bulk",
		Long:          "Reads a JSON array of {\"phone_number\", \"wifi\", \"check_in\", \"checkout\", \"recommendations\"} objects and registers each one. Phone numbers that already exist are skipped, never overwritten.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, file, workers)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the JSON file (- for stdin)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent registrations (default SEED_WORKERS)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func run(cmd *cobra.Command, file string, workers int) error {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if workers <= 0 {
		workers = cfg.SeedWorkers
	}

	in := cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file, err)
		}
		defer f.Close()
		in = f
	}
	props, err := readProperties(in)
	if err != nil {
		return err
	}
	log.Info().Int("properties", len(props)).Int("workers", workers).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("db.Ping: %w", err)
	}

	// no cache here: Register only evicts, and nothing is cached yet for new numbers
	dir := app.NewDirectoryService(mysqlrepo.New(db), nil, cfg.CacheTTL)
	rep, err := app.Seed(cmd.Context(), dir, props, workers)
	if err != nil {
		return err
	}
	log.Info().
		Int("created", rep.Created).
		Int("duplicates", rep.Duplicates).
		Int("failed", rep.Failed).
		Msg("seeding completed")
	if rep.Failed > 0 {
		return fmt.Errorf("%d properties failed to register", rep.Failed)
	}
	return nil
}

func readProperties(r io.Reader) ([]domain.Property, error) {
	var rows []map[string]string
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding properties: %w", err)
	}
	out := make([]domain.Property, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.PropertyFromColumns(row))
	}
	return out, nil
}
