package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
	"secwatch-reporting/internal/mqtt"
	"secwatch-reporting/internal/repository"
)

type fakeDevicesRepo struct {
	inserted []*domain.DeviceMetric
	err      error
}

var _ repository.DevicesRepository = (*fakeDevicesRepo)(nil)

func (f *fakeDevicesRepo) ListDevices(context.Context, []string) ([]domain.Device, error) {
	return nil, nil
}

func (f *fakeDevicesRepo) ListMetrics(context.Context, []string, time.Time, time.Time) ([]domain.DeviceMetric, error) {
	return nil, nil
}

func (f *fakeDevicesRepo) InsertMetric(_ context.Context, m *domain.DeviceMetric) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, m)
	return nil
}

type fakeSubscriber struct {
	topic   string
	qos     byte
	handler mqtt.MessageHandler
}

func (f *fakeSubscriber) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	f.topic = topic
	f.qos = qos
	f.handler = handler
	return nil
}

func newTestConsumer(repo *fakeDevicesRepo) *MetricsConsumer {
	c := NewMetricsConsumer(repo, zap.NewNop())
	c.now = func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return c
}

func TestParseMetricTopic(t *testing.T) {
	tests := []struct {
		topic      string
		deviceID   string
		metricType string
		wantErr    bool
	}{
		{"secwatch/metrics/d1/cpu", "d1", "cpu", false},
		{"secwatch/metrics/d1/memory", "d1", "memory", false},
		{"secwatch/metrics/d1/threats", "d1", "threats", false},
		{"secwatch/metrics/d1/disk", "", "", true},
		{"secwatch/metrics//cpu", "", "", true},
		{"secwatch/metrics/d1", "", "", true},
		{"other/metrics/d1/cpu", "", "", true},
		{"secwatch/metrics/d1/cpu/extra", "", "", true},
	}

	for _, tt := range tests {
		deviceID, metricType, err := parseMetricTopic(tt.topic)
		if tt.wantErr {
			assert.Error(t, err, tt.topic)
			continue
		}
		require.NoError(t, err, tt.topic)
		assert.Equal(t, tt.deviceID, deviceID)
		assert.Equal(t, tt.metricType, metricType)
	}
}

func TestHandle_StoresSample(t *testing.T) {
	repo := &fakeDevicesRepo{}
	c := newTestConsumer(repo)

	err := c.Handle(context.Background(), "secwatch/metrics/fw-01/cpu", []byte(`{"value":87.5,"timestamp":1770000000}`))

	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)

	m := repo.inserted[0]
	assert.NotEmpty(t, m.MetricID)
	assert.Equal(t, "fw-01", m.DeviceID)
	assert.Equal(t, domain.MetricCPU, m.MetricType)
	assert.Equal(t, 87.5, m.Value)
	assert.Equal(t, time.Unix(1770000000, 0).UTC(), m.Timestamp)
}

func TestHandle_MissingTimestampUsesReceiveTime(t *testing.T) {
	repo := &fakeDevicesRepo{}
	c := newTestConsumer(repo)

	err := c.Handle(context.Background(), "secwatch/metrics/fw-01/threats", []byte(`{"value":2}`))

	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), repo.inserted[0].Timestamp)
}

func TestHandle_BadTopicOrPayload(t *testing.T) {
	repo := &fakeDevicesRepo{}
	c := newTestConsumer(repo)

	err := c.Handle(context.Background(), "secwatch/metrics/fw-01/disk", []byte(`{"value":1}`))
	assert.Error(t, err)

	err = c.Handle(context.Background(), "secwatch/metrics/fw-01/cpu", []byte(`{not json`))
	assert.Error(t, err)

	assert.Empty(t, repo.inserted)
}

func TestStart_SubscribesAndRoutes(t *testing.T) {
	repo := &fakeDevicesRepo{}
	c := newTestConsumer(repo)
	sub := &fakeSubscriber{}

	err := c.Start(context.Background(), sub, "secwatch/metrics/+/+", 1)

	require.NoError(t, err)
	assert.Equal(t, "secwatch/metrics/+/+", sub.topic)
	assert.Equal(t, byte(1), sub.qos)
	require.NotNil(t, sub.handler)

	require.NoError(t, sub.handler("secwatch/metrics/d9/memory", []byte(`{"value":55}`)))
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "d9", repo.inserted[0].DeviceID)
}
