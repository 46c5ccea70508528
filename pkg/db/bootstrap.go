package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Seed holds the first-run values, taken from the settings file.
type Seed struct {
	ProfileName   string
	CalibAngle    int
	ListenAddress string
}

// Bootstrap creates the active profile and its API server from seed when the
// database has no profiles yet. It is a no-op afterwards.
func (db *DB) Bootstrap(ctx context.Context, seed Seed) error {
	needed, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check profiles: %w", err)
	}
	if !needed {
		return nil
	}

	if seed.ProfileName == "" {
		seed.ProfileName = "default"
	}
	host, port, err := ParseAddress(seed.ListenAddress)
	if err != nil {
		return err
	}

	return db.Tx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (name, calib_angle, is_active)
			VALUES (?, ?, 1)
		`, seed.ProfileName, seed.CalibAngle)
		if err != nil {
			return fmt.Errorf("failed to create default profile: %w", err)
		}

		profileID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get profile ID: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO api_servers (profile_id, host, port)
			VALUES (?, ?, ?)
		`, profileID, host, port)
		if err != nil {
			return fmt.Errorf("failed to create default API server: %w", err)
		}

		return nil
	})
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
