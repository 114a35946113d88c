// Package seed inserts the records a fresh printdesk database needs.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/store"
)

const (
	defaultFilamentID = "pla-generico"
	defaultPrinterID  = "impresora-estandar"
	fixedPackageID    = "acabado-basico"
	multiplyPackageID = "mano-de-obra"
	defaultPrinterKWh = 0.12
	defaultBcryptCost = bcrypt.DefaultCost
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail            string
	AdminPassword         string
	DefaultProfitMargin   float64
	ElectricityCostPerKWh float64
	DefaultTaxPercent     float64
	// BcryptCost defaults to bcrypt.DefaultCost when zero.
	BcryptCost int
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in one transaction. Existing rows are never
// modified, so running it again inserts nothing.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stats := Stats{}
	steps := []func(context.Context, *sql.Tx, Config, *Stats) error{
		seedAdmin,
		seedCatalog,
		seedSettings,
	}
	for _, step := range steps {
		if err := step(ctx, tx, cfg, &stats); err != nil {
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}
	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, cfg Config, stats *Stats) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, cfg.AdminEmail).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = defaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, cfg.AdminEmail, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func seedCatalog(ctx context.Context, tx *sql.Tx, _ Config, stats *Stats) error {
	inserts := []struct {
		what  string
		query string
		args  []any
	}{
		{
			what:  "default filament",
			query: `INSERT INTO filaments (id, name, material, cost_per_gram) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			args:  []any{defaultFilamentID, "PLA (Genérico)", "PLA", 0},
		},
		{
			what:  "default printer",
			query: `INSERT INTO printers (id, name, kwh_per_hour) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			args:  []any{defaultPrinterID, "Impresora estándar", defaultPrinterKWh},
		},
		{
			what:  "fixed work package",
			query: `INSERT INTO work_packages (id, name, calculation_type, value) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			args:  []any{fixedPackageID, "Acabado básico", string(pricing.CalculationFixed), 0},
		},
		{
			what:  "hourly work package",
			query: `INSERT INTO work_packages (id, name, calculation_type, value) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			args:  []any{multiplyPackageID, "Mano de obra por hora", string(pricing.CalculationMultiply), 0},
		},
	}

	for _, ins := range inserts {
		if err := execCounted(ctx, tx, stats, ins.query, ins.args...); err != nil {
			return fmt.Errorf("insert %s: %w", ins.what, err)
		}
	}
	return nil
}

func seedSettings(ctx context.Context, tx *sql.Tx, cfg Config, stats *Stats) error {
	settings := []struct {
		key   string
		value float64
	}{
		{store.SettingDefaultProfitMargin, cfg.DefaultProfitMargin},
		{store.SettingElectricityCostPerKWh, cfg.ElectricityCostPerKWh},
		{store.SettingDefaultTaxPercent, cfg.DefaultTaxPercent},
	}

	for _, s := range settings {
		value := strconv.FormatFloat(s.value, 'f', -1, 64)
		if err := execCounted(ctx, tx, stats, `INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`, s.key, value); err != nil {
			return fmt.Errorf("insert setting %s: %w", s.key, err)
		}
	}
	return nil
}

func execCounted(ctx context.Context, tx *sql.Tx, stats *Stats, query string, args ...any) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	stats.Inserts += int(affected)
	return nil
}
