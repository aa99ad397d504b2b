package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := NewBusinessMetrics(provider.Meter(MeterName))
	require.NoError(t, err)
	return bm, reader
}

// counterValue sums the data points of an int64 counter matching attrs
func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	want := attribute.NewSet(attrs...)
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if dp.Attributes.Equals(&want) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := NewBusinessMetrics(nil)
	require.Error(t, err)
	assert.Nil(t, bm)
}

func TestNopBusinessMetrics(t *testing.T) {
	bm := NopBusinessMetrics()
	require.NotNil(t, bm)
	ctx := context.Background()
	bm.RecordWebhook(ctx, "orders/create", OutcomeSuccess)
	bm.RecordSyncRun(ctx, "orders", 1, 1, time.Second, nil)
	bm.RecordToolCall(ctx, "get_sales", nil)
	bm.RecordAssistantQuery(ctx, time.Second, nil)
}

func TestBusinessMetrics_RecordWebhook(t *testing.T) {
	bm, reader := newTestMetrics(t)
	ctx := context.Background()

	bm.RecordWebhook(ctx, "orders/create", OutcomeSuccess)
	bm.RecordWebhook(ctx, "orders/create", OutcomeSuccess)
	bm.RecordWebhook(ctx, "orders/create", OutcomeRejected)

	assert.Equal(t, int64(2), counterValue(t, reader, "retailops.webhook.deliveries",
		AttrTopic.String("orders/create"), AttrOutcome.String(OutcomeSuccess)))
	assert.Equal(t, int64(1), counterValue(t, reader, "retailops.webhook.deliveries",
		AttrTopic.String("orders/create"), AttrOutcome.String(OutcomeRejected)))
}

func TestBusinessMetrics_RecordSyncRun(t *testing.T) {
	bm, reader := newTestMetrics(t)
	ctx := context.Background()

	bm.RecordSyncRun(ctx, "inventory", 2, 1, 3*time.Second, nil)
	bm.RecordSyncRun(ctx, "inventory", 0, 0, time.Second, errors.New("upstream down"))

	assert.Equal(t, int64(2), counterValue(t, reader, "retailops.sync.records",
		AttrJob.String("inventory"), AttrOutcome.String(OutcomeSuccess)))
	assert.Equal(t, int64(1), counterValue(t, reader, "retailops.sync.records",
		AttrJob.String("inventory"), AttrOutcome.String(OutcomeFailure)))
	assert.Equal(t, int64(1), counterValue(t, reader, "retailops.sync.runs",
		AttrJob.String("inventory"), AttrOutcome.String(OutcomeFailure)))
}

func TestBusinessMetrics_RecordToolCall(t *testing.T) {
	bm, reader := newTestMetrics(t)
	ctx := context.Background()

	bm.RecordToolCall(ctx, "get_inventory", nil)
	bm.RecordToolCall(ctx, "get_inventory", errors.New("db down"))

	assert.Equal(t, int64(1), counterValue(t, reader, "retailops.assistant.tool_calls",
		AttrTool.String("get_inventory"), AttrOutcome.String(OutcomeSuccess)))
	assert.Equal(t, int64(1), counterValue(t, reader, "retailops.assistant.tool_calls",
		AttrTool.String("get_inventory"), AttrOutcome.String(OutcomeFailure)))
}
