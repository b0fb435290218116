package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parkstar12/newstoss/internal/market"
	"github.com/parkstar12/newstoss/internal/repository"
)

type MockDB struct {
	mock.Mock
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	called := m.Called(ctx, sql, args)
	return called.Get(0).(pgconn.CommandTag), called.Error(1)
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	called := m.Called(ctx, sql, args)
	return called.Get(0).(pgx.Row)
}

// row scans fixed values into the destinations, or returns err.
type row struct {
	values []any
	err    error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *int64:
			*p = r.values[i].(int64)
		case *float64:
			*p = r.values[i].(float64)
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}
	return nil
}

func TestInstrumentRepository_LoadInstrument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	updated := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		db := new(MockDB)
		db.On("QueryRow", ctx, mock.Anything, []any{"005930"}).
			Return(row{values: []any{"005930", "Samsung Electronics", int64(71500), int64(-500), "5", -0.69, updated}}).Once()

		inst, err := repository.NewInstrumentRepository(db).LoadInstrument(ctx, "005930")
		require.NoError(t, err)
		assert.Equal(t, market.Instrument{
			Code:         "005930",
			Name:         "Samsung Electronics",
			Price:        71500,
			ChangeAmount: -500,
			Sign:         "5",
			ChangeRate:   -0.69,
			UpdatedAt:    updated,
		}, inst)
		db.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db := new(MockDB)
		db.On("QueryRow", ctx, mock.Anything, []any{"999999"}).Return(row{err: pgx.ErrNoRows}).Once()

		_, err := repository.NewInstrumentRepository(db).LoadInstrument(ctx, "999999")
		assert.ErrorIs(t, err, market.ErrInstrumentNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		db := new(MockDB)
		dbErr := errors.New("conn busy")
		db.On("QueryRow", ctx, mock.Anything, []any{"005930"}).Return(row{err: dbErr}).Once()

		_, err := repository.NewInstrumentRepository(db).LoadInstrument(ctx, "005930")
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, market.ErrInstrumentNotFound)
	})
}

func TestInstrumentRepository_SaveInstrumentPrice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inst := market.Instrument{
		Code:         "005930",
		Price:        71500,
		ChangeAmount: -500,
		Sign:         "5",
		ChangeRate:   -0.69,
		UpdatedAt:    time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC),
	}
	args := []any{inst.Code, inst.Price, inst.ChangeAmount, inst.Sign, inst.ChangeRate, inst.UpdatedAt}

	t.Run("updates one row", func(t *testing.T) {
		t.Parallel()
		db := new(MockDB)
		db.On("Exec", ctx, mock.Anything, args).Return(pgconn.NewCommandTag("UPDATE 1"), nil).Once()

		require.NoError(t, repository.NewInstrumentRepository(db).SaveInstrumentPrice(ctx, inst))
		db.AssertExpectations(t)
	})

	t.Run("no row updated", func(t *testing.T) {
		t.Parallel()
		db := new(MockDB)
		db.On("Exec", ctx, mock.Anything, args).Return(pgconn.NewCommandTag("UPDATE 0"), nil).Once()

		err := repository.NewInstrumentRepository(db).SaveInstrumentPrice(ctx, inst)
		assert.ErrorIs(t, err, market.ErrInstrumentNotFound)
	})

	t.Run("exec error", func(t *testing.T) {
		t.Parallel()
		db := new(MockDB)
		dbErr := errors.New("deadlock detected")
		db.On("Exec", ctx, mock.Anything, args).Return(pgconn.CommandTag{}, dbErr).Once()

		assert.ErrorIs(t, repository.NewInstrumentRepository(db).SaveInstrumentPrice(ctx, inst), dbErr)
	})
}
