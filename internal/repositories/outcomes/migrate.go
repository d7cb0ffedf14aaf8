package outcomes

import (
	"embed"
	stderrors "errors"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/KirkDiggler/skywar-api/internal/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the ledger schema up to date. databaseURL is a postgres://
// URL.
func Migrate(databaseURL string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "failed to open embedded migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return errors.Wrap(err, "failed to create migrator")
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if sourceErr != nil || dbErr != nil {
			slog.Warn("Failed to close migrator", "source_error", sourceErr, "db_error", dbErr)
		}
	}()

	version, dirty, err := m.Version()
	if err != nil && !stderrors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "failed to read schema version")
	}
	if dirty {
		return errors.FailedPreconditionf("ledger schema is dirty at version %d", version)
	}

	if err := m.Up(); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			slog.Info("Ledger schema up to date", "version", version)
			return nil
		}
		return errors.Wrap(err, "failed to apply migrations")
	}

	newVersion, _, _ := m.Version()
	slog.Info("Ledger schema migrated", "from", version, "to", newVersion)
	return nil
}
