// Package pg bootstraps a PostgreSQL connection pool on pgx/v5 and applies
// goose migrations from an embedded filesystem.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, db.Migrations, db.MigrationsDir, cfg, log); err != nil {
//		return err
//	}
//
// Healthcheck returns a closure suitable for a readiness endpoint, and
// IsNotFoundError classifies pgx "no rows" errors.
package pg
