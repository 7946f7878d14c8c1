package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
	pub "github.com/jhoicas/stock-movements/internal/infrastructure/kafka"
	"github.com/jhoicas/stock-movements/pkg/metrics"
)

type stubGateway struct{ err error }

func (s stubGateway) Submit(_ context.Context, req entity.StockMovementRequest) (*entity.LedgerEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.LedgerEntry{
		MovementID:   "mov-9",
		MovementType: req.Type,
		MovementDate: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
		Details:      []entity.LedgerEntryDetail{{LocationID: 5, SupplyID: 10, BatchID: 1, BatchNumber: "B1", Quantity: decimal.NewFromInt(-2)}},
	}, nil
}

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublishingGateway_PublicaTrasPersistir(t *testing.T) {
	w := &recordingWriter{}
	m := metrics.New(metrics.Config{Namespace: "pub"})
	g := pub.NewPublishingGateway(stubGateway{}, w, pub.Config{Source: "test"}, m, zerolog.Nop())

	origin := int64(5)
	entry, err := g.Submit(context.Background(), entity.StockMovementRequest{
		Type: entity.MovementReturn, OriginLocationID: &origin, UserID: 42,
	})

	require.NoError(t, err)
	assert.Equal(t, "mov-9", entry.MovementID)
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "mov-9", string(msg.Key))
	assert.Equal(t, pub.EventTypeMovementRegistered, header(msg, "ce-type"))
	assert.Equal(t, "RETURN", header(msg, "movement-type"))

	var ev pub.MovementEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, int64(42), ev.UserID)
	assert.Equal(t, "test", ev.Source)
	require.NotNil(t, ev.Movement)
	assert.Equal(t, entity.MovementReturn, ev.Movement.MovementType)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("success")))
}

func TestPublishingGateway_FallaAlPublicar_NoAfectaElResultado(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker unavailable")}
	m := metrics.New(metrics.Config{Namespace: "pub"})
	g := pub.NewPublishingGateway(stubGateway{}, w, pub.Config{}, m, zerolog.Nop())

	entry, err := g.Submit(context.Background(), entity.StockMovementRequest{Type: entity.MovementPurchase})

	require.NoError(t, err)
	assert.NotNil(t, entry)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("failure")))
}

func TestPublishingGateway_FallaDelGateway_NoPublica(t *testing.T) {
	w := &recordingWriter{}
	g := pub.NewPublishingGateway(stubGateway{err: errors.New("conflict")}, w, pub.Config{}, nil, zerolog.Nop())

	_, err := g.Submit(context.Background(), entity.StockMovementRequest{Type: entity.MovementPurchase})

	assert.EqualError(t, err, "conflict")
	assert.Empty(t, w.msgs)
}
