package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the instrumentation scope of the retail metrics
const MeterName = "github.com/retailops/backend"

// BusinessMetrics counts webhook deliveries, sync records and assistant tool calls
type BusinessMetrics struct {
	webhooks      *Counter
	syncRecords   *Counter
	syncRuns      *Counter
	syncDuration  *Histogram
	toolCalls     *Counter
	assistantTime *Histogram
}

// NewBusinessMetrics registers the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewBusinessMetrics: meter cannot be nil")
	}

	var (
		bm   BusinessMetrics
		err  error
		errs []error
	)
	bm.webhooks, err = NewCounter(meter, "retailops.webhook.deliveries", "E-commerce webhook deliveries by topic and outcome", "{delivery}")
	errs = append(errs, err)
	bm.syncRecords, err = NewCounter(meter, "retailops.sync.records", "Records processed by sync jobs", "{record}")
	errs = append(errs, err)
	bm.syncRuns, err = NewCounter(meter, "retailops.sync.runs", "Sync job runs by outcome", "{run}")
	errs = append(errs, err)
	bm.syncDuration, err = NewHistogram(meter, "retailops.sync.duration", "Sync job duration", "s", JobDurationBuckets)
	errs = append(errs, err)
	bm.toolCalls, err = NewCounter(meter, "retailops.assistant.tool_calls", "Assistant tool dispatches by tool and outcome", "{call}")
	errs = append(errs, err)
	bm.assistantTime, err = NewHistogram(meter, "retailops.assistant.duration", "Assistant query duration", "s", JobDurationBuckets)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &bm, nil
}

// NopBusinessMetrics returns metrics backed by a no-op meter, for tests and disabled setups
func NopBusinessMetrics() *BusinessMetrics {
	bm, _ := NewBusinessMetrics(noop.NewMeterProvider().Meter(MeterName))
	return bm
}

// RecordWebhook counts one webhook delivery
func (bm *BusinessMetrics) RecordWebhook(ctx context.Context, topic, outcome string) {
	bm.webhooks.Inc(ctx, AttrTopic.String(topic), AttrOutcome.String(outcome))
}

// RecordSyncRun counts a finished sync run with its per-record tallies
func (bm *BusinessMetrics) RecordSyncRun(ctx context.Context, job string, synced, failed int, d time.Duration, runErr error) {
	outcome := OutcomeSuccess
	if runErr != nil {
		outcome = OutcomeFailure
	}
	bm.syncRuns.Inc(ctx, AttrJob.String(job), AttrOutcome.String(outcome))
	bm.syncDuration.RecordDuration(ctx, d, AttrJob.String(job))
	if synced > 0 {
		bm.syncRecords.Add(ctx, int64(synced), AttrJob.String(job), AttrOutcome.String(OutcomeSuccess))
	}
	if failed > 0 {
		bm.syncRecords.Add(ctx, int64(failed), AttrJob.String(job), AttrOutcome.String(OutcomeFailure))
	}
}

// RecordToolCall counts one assistant tool dispatch
func (bm *BusinessMetrics) RecordToolCall(ctx context.Context, tool string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	bm.toolCalls.Inc(ctx, AttrTool.String(tool), AttrOutcome.String(outcome))
}

// RecordAssistantQuery records the end-to-end time of an assistant query
func (bm *BusinessMetrics) RecordAssistantQuery(ctx context.Context, d time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	bm.assistantTime.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}
