package listener

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fekuna/omnipos-storefront/internal/inventory"
	"github.com/fekuna/omnipos-storefront/internal/metrics"
	"github.com/fekuna/omnipos-storefront/internal/navigation"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the consuming side of a Kafka topic.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Event types that change what the catalog shows.
var reloadEvents = map[string]bool{
	"InventoryAdjusted": true,
	"StockReserved":     true,
	"StockReleased":     true,
	"OrderCreated":      true,
	"ProductUpdated":    true,
}

// Event is the envelope shared by inventory, order and product events. The
// payload is not needed to decide on a reload.
type Event struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// InventoryListener reloads the catalog when stock or products change
// elsewhere. Bursts of events collapse into one reload.
type InventoryListener struct {
	consumer MessageReader
	reloader inventory.Reloader
	debounce *navigation.Debouncer
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer MessageReader, reloader inventory.Reloader, window time.Duration, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		reloader: reloader,
		debounce: navigation.NewDebouncer(window),
		logger:   logger,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting Inventory Kafka Listener")
	defer l.debounce.Stop()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event Event
	if err := sonic.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	metrics.InventoryEvents.WithLabelValues(event.EventType).Inc()

	if !reloadEvents[event.EventType] {
		return
	}

	l.logger.Debug("scheduling catalog reload",
		zap.String("event_type", event.EventType),
		zap.String("event_id", event.EventID),
	)
	l.debounce.Trigger(func() {
		if _, err := l.reloader.Reload(ctx); err != nil {
			l.logger.Error("event driven catalog reload failed", zap.String("event_type", event.EventType), zap.Error(err))
		}
	})
}
