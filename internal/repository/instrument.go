// Package repository implements the market ports on PostgreSQL.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/parkstar12/newstoss/internal/market"
	"github.com/parkstar12/newstoss/pkg/pg"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InstrumentRepository implements market.InstrumentRepository.
type InstrumentRepository struct {
	db DBTX
}

// NewInstrumentRepository creates a repository over db.
func NewInstrumentRepository(db DBTX) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

var _ market.InstrumentRepository = (*InstrumentRepository)(nil)

const loadInstrument = `
SELECT code, name, price, change_amount, sign, change_rate::float8, updated_at
FROM instruments
WHERE code = $1`

// LoadInstrument returns market.ErrInstrumentNotFound when no row matches code.
func (r *InstrumentRepository) LoadInstrument(ctx context.Context, code string) (market.Instrument, error) {
	var i market.Instrument
	err := r.db.QueryRow(ctx, loadInstrument, code).Scan(
		&i.Code,
		&i.Name,
		&i.Price,
		&i.ChangeAmount,
		&i.Sign,
		&i.ChangeRate,
		&i.UpdatedAt,
	)
	if pg.IsNotFoundError(err) {
		return market.Instrument{}, fmt.Errorf("%w: %s", market.ErrInstrumentNotFound, code)
	}
	if err != nil {
		return market.Instrument{}, fmt.Errorf("failed to load instrument %s: %w", code, err)
	}
	return i, nil
}

const saveInstrumentPrice = `
UPDATE instruments
SET price = $2, change_amount = $3, sign = $4, change_rate = $5, updated_at = $6
WHERE code = $1`

// SaveInstrumentPrice writes the price fields of instrument in one statement.
func (r *InstrumentRepository) SaveInstrumentPrice(ctx context.Context, i market.Instrument) error {
	tag, err := r.db.Exec(ctx, saveInstrumentPrice,
		i.Code, i.Price, i.ChangeAmount, i.Sign, i.ChangeRate, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save instrument %s: %w", i.Code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", market.ErrInstrumentNotFound, i.Code)
	}
	return nil
}
