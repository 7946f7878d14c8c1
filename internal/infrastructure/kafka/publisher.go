package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/stock-movements/internal/application/inventory"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/pkg/metrics"
)

var _ inventory.SubmissionGateway = (*PublishingGateway)(nil)

// EventTypeMovementRegistered tipo de evento emitido por cada movimiento persistido.
const EventTypeMovementRegistered = "stock.movement.registered"

// Config configuración del productor.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	Source       string
}

// MessageWriter es lo que se usa de *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewWriter crea un writer síncrono para el tópico configurado.
func NewWriter(cfg Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
		Async:        false,
	}
}

// MovementEvent cuerpo del evento publicado.
type MovementEvent struct {
	ID                    string              `json:"id"`
	Type                  string              `json:"type"`
	Source                string              `json:"source"`
	Time                  time.Time           `json:"time"`
	UserID                int64               `json:"userId"`
	OriginLocationID      *int64              `json:"originLocationId,omitempty"`
	DestinationLocationID *int64              `json:"destinationLocationId,omitempty"`
	SupplierID            *int64              `json:"supplierId,omitempty"`
	ExitReason            *entity.ExitReason  `json:"exitReason,omitempty"`
	Movement              *entity.LedgerEntry `json:"movement"`
}

// PublishingGateway decora el gateway de envío: tras persistir, publica el asiento en Kafka.
// El asiento ya está guardado, así que una falla al publicar se registra y no se devuelve.
type PublishingGateway struct {
	next    inventory.SubmissionGateway
	writer  MessageWriter
	source  string
	timeout time.Duration
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewPublishingGateway envuelve next. m puede ser nil.
func NewPublishingGateway(next inventory.SubmissionGateway, w MessageWriter, cfg Config, m *metrics.Metrics, log zerolog.Logger) *PublishingGateway {
	source := cfg.Source
	if source == "" {
		source = "stock-movements"
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PublishingGateway{
		next:    next,
		writer:  w,
		source:  source,
		timeout: timeout,
		metrics: m,
		log:     log.With().Str("component", "movement_publisher").Logger(),
	}
}

// Submit delega en el gateway y, si tuvo éxito, publica el evento.
func (g *PublishingGateway) Submit(ctx context.Context, req entity.StockMovementRequest) (*entity.LedgerEntry, error) {
	entry, err := g.next.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	err = g.publish(ctx, req, entry)
	g.metrics.ObservePublish(err)
	if err != nil {
		g.log.Error().Err(err).Str("movement_id", entry.MovementID).Msg("publish movement event failed")
	}
	return entry, nil
}

func (g *PublishingGateway) publish(ctx context.Context, req entity.StockMovementRequest, entry *entity.LedgerEntry) error {
	event := MovementEvent{
		ID:                    uuid.NewString(),
		Type:                  EventTypeMovementRegistered,
		Source:                g.source,
		Time:                  entry.MovementDate,
		UserID:                req.UserID,
		OriginLocationID:      req.OriginLocationID,
		DestinationLocationID: req.DestinationLocationID,
		SupplierID:            req.SupplierID,
		ExitReason:            req.ExitReason,
		Movement:              entry,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal movement event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(entry.MovementID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "ce-type", Value: []byte(event.Type)},
			{Key: "ce-source", Value: []byte(event.Source)},
			{Key: "ce-id", Value: []byte(event.ID)},
			{Key: "ce-time", Value: []byte(event.Time.Format(time.RFC3339))},
			{Key: "movement-type", Value: []byte(entry.MovementType.String())},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: event.Time,
	}

	// No depende de la cancelación del request: el asiento ya existe.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()
	if err := g.writer.WriteMessages(pubCtx, msg); err != nil {
		return fmt.Errorf("write movement event: %w", err)
	}
	return nil
}
