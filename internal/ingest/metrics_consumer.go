package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
	"secwatch-reporting/internal/mqtt"
	"secwatch-reporting/internal/repository"
)

// metricPayload is the JSON body published per sample.
// Timestamp is Unix seconds; zero means "use receive time".
type metricPayload struct {
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// subscriber is the broker surface the consumer needs (see internal/mqtt).
type subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// MetricsConsumer ingests device metric samples published on
// secwatch/metrics/{deviceID}/{metricType} and stores them for the
// device-health report.
type MetricsConsumer struct {
	devices repository.DevicesRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewMetricsConsumer creates a metrics consumer.
func NewMetricsConsumer(devices repository.DevicesRepository, logger *zap.Logger) *MetricsConsumer {
	return &MetricsConsumer{
		devices: devices,
		logger:  logger,
		now:     time.Now,
	}
}

// Start subscribes the consumer on the given topic filter.
func (c *MetricsConsumer) Start(ctx context.Context, sub subscriber, topic string, qos byte) error {
	return sub.Subscribe(topic, qos, func(t string, payload []byte) error {
		return c.Handle(ctx, t, payload)
	})
}

// Handle processes one published sample.
func (c *MetricsConsumer) Handle(ctx context.Context, topic string, payload []byte) error {
	deviceID, metricType, err := parseMetricTopic(topic)
	if err != nil {
		return err
	}

	var body metricPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return fmt.Errorf("failed to unmarshal metric payload: %w", err)
	}

	timestamp := c.now().UTC()
	if body.Timestamp > 0 {
		timestamp = time.Unix(body.Timestamp, 0).UTC()
	}

	metric := &domain.DeviceMetric{
		MetricID:   uuid.NewString(),
		DeviceID:   deviceID,
		MetricType: metricType,
		Value:      body.Value,
		Timestamp:  timestamp,
	}

	if err := c.devices.InsertMetric(ctx, metric); err != nil {
		return err
	}

	c.logger.Debug("ingested device metric",
		zap.String("device_id", deviceID),
		zap.String("metric_type", metricType),
		zap.Float64("value", body.Value),
	)

	return nil
}

// parseMetricTopic extracts device ID and metric type from a topic of the
// form secwatch/metrics/{deviceID}/{metricType}.
func parseMetricTopic(topic string) (deviceID, metricType string, err error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "secwatch" || parts[1] != "metrics" || parts[2] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("unexpected metric topic: %q", topic)
	}

	metricType = parts[3]
	switch metricType {
	case domain.MetricCPU, domain.MetricMemory, domain.MetricThreats:
	default:
		return "", "", fmt.Errorf("unknown metric type: %q", metricType)
	}

	return parts[2], metricType, nil
}
