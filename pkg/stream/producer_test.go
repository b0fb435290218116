package stream_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parkstar12/newstoss/pkg/stream"
)

type MockAppender struct {
	mock.Mock
}

func (m *MockAppender) Append(ctx context.Context, name string, values map[string]any) (string, error) {
	args := m.Called(ctx, name, values)
	return args.String(0), args.Error(1)
}

func TestProducer_NewProducer(t *testing.T) {
	t.Parallel()

	_, err := stream.NewProducer(nil, testStream)
	assert.ErrorIs(t, err, stream.ErrStoreNil)

	store, _ := newRedisStore(t)
	_, err = stream.NewProducer(store, "")
	assert.ErrorIs(t, err, stream.ErrEmptyStream)

	p, err := stream.NewProducer(store, testStream)
	require.NoError(t, err)
	assert.Equal(t, testStream, p.Stream())
}

func TestProducer_Publish(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("appends in insertion order", func(t *testing.T) {
		t.Parallel()
		store, srv := newRedisStore(t)
		p, err := stream.NewProducer(store, testStream)
		require.NoError(t, err)

		id1, err := p.Publish(ctx, testMessage{"type": "stock", "stockCode": "005930"})
		require.NoError(t, err)
		id2, err := p.Publish(ctx, testMessage{"type": "stock", "stockCode": "000660"})
		require.NoError(t, err)
		assert.NotEqual(t, id1, id2)

		got := entries(t, srv, testStream)
		require.Len(t, got, 2)
		assert.Equal(t, id1, got[0].ID)
		assert.Equal(t, id2, got[1].ID)
		assert.Equal(t, "000660", got[1].Values["stockCode"])
	})

	t.Run("empty message", func(t *testing.T) {
		t.Parallel()
		store, _ := newRedisStore(t)
		p, err := stream.NewProducer(store, testStream)
		require.NoError(t, err)

		_, err = p.Publish(ctx, nil)
		assert.ErrorIs(t, err, stream.ErrEmptyMessage)
		_, err = p.Publish(ctx, testMessage{})
		assert.ErrorIs(t, err, stream.ErrEmptyMessage)
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		t.Parallel()
		store := new(MockAppender)
		defer store.AssertExpectations(t)

		storeErr := errors.New("READONLY")
		store.On("Append", mock.Anything, testStream, map[string]any{"type": "fx"}).Return("", storeErr).Once()

		p, err := stream.NewProducer(store, testStream)
		require.NoError(t, err)

		_, err = p.Publish(ctx, testMessage{"type": "fx"})
		assert.ErrorIs(t, err, storeErr)
		assert.Contains(t, err.Error(), testStream)
	})
}
