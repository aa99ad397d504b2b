package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/domain/notification"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/trade"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// WebhookDelivery is one inbound webhook request
type WebhookDelivery struct {
	Topic     string
	Signature string
	Body      []byte
}

// WebhookResult acknowledges a delivery
type WebhookResult struct {
	Received bool   `json:"received"`
	Topic    string `json:"topic"`
	OrderID  string `json:"order_id,omitempty"`
	Ignored  bool   `json:"ignored"`
}

// WebhookService ingests signed e-commerce order webhooks
type WebhookService struct {
	verifier integration.WebhookVerifier
	parser   integration.OrderPayloadParser
	orders   trade.OrderRepository
	notifier Notifier
	metrics  *telemetry.BusinessMetrics
	logger   *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	verifier integration.WebhookVerifier,
	parser integration.OrderPayloadParser,
	orders trade.OrderRepository,
	notifier Notifier,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *WebhookService {
	if metrics == nil {
		metrics = telemetry.NopBusinessMetrics()
	}
	return &WebhookService{
		verifier: verifier,
		parser:   parser,
		orders:   orders,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Handle verifies and applies a delivery. Nothing is written unless the
// signature checks out. Re-deliveries overwrite the stored order and do not
// repeat the new-order notification.
func (s *WebhookService) Handle(ctx context.Context, d WebhookDelivery) (result *WebhookResult, err error) {
	topic := integration.WebhookTopic(strings.TrimSpace(d.Topic))
	ctx, span := telemetry.StartSpan(ctx, "WebhookService", "Handle", telemetry.AttrTopic.String(string(topic)))
	defer func() { telemetry.EndSpan(span, err) }()

	log := logger.LOr(ctx, s.logger).With(zap.String("topic", string(topic)))

	if err := s.verifier.Verify(d.Body, d.Signature); err != nil {
		s.metrics.RecordWebhook(ctx, string(topic), telemetry.OutcomeRejected)
		if errors.Is(err, integration.ErrWebhookSecretMissing) {
			log.Error("Webhook rejected: shared secret not configured")
		} else {
			log.Warn("Webhook rejected", zap.Error(err))
		}
		return nil, err
	}

	if topic == "" {
		s.metrics.RecordWebhook(ctx, "", telemetry.OutcomeRejected)
		return nil, shared.ErrInvalidInput.WithMessage("Missing webhook topic header")
	}
	if !topic.IsOrderEvent() {
		s.metrics.RecordWebhook(ctx, string(topic), telemetry.OutcomeIgnored)
		log.Debug("Webhook topic ignored")
		return &WebhookResult{Received: true, Topic: string(topic), Ignored: true}, nil
	}

	defer func() {
		outcome := telemetry.OutcomeSuccess
		if err != nil {
			outcome = telemetry.OutcomeFailure
		}
		s.metrics.RecordWebhook(ctx, string(topic), outcome)
	}()

	parsed, err := s.parser.ParseOrder(d.Body)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewOrder(trade.SourceEcommerce, parsed.ExternalID, parsed.TotalAmount, parsed.OrderedAt, parsed.Raw)
	if err != nil {
		return nil, err
	}
	order.OrderNumber = parsed.OrderNumber
	order.Currency = parsed.Currency
	order.Status = parsed.Status

	created, err := s.orders.Upsert(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("store order %s: %w", order.ExternalID, err)
	}
	log.Info("Webhook order stored",
		zap.String("external_id", order.ExternalID),
		zap.Bool("created", created))

	if topic.IsCreate() && created {
		if _, err := s.notifier.Notify(ctx, notification.TypeNewOrder, notification.SeverityInfo,
			newOrderTitle(order), newOrderMessage(order)); err != nil {
			return nil, fmt.Errorf("record new order notification: %w", err)
		}
	}

	return &WebhookResult{Received: true, Topic: string(topic), OrderID: order.ExternalID}, nil
}

func newOrderTitle(o *trade.Order) string {
	ref := o.OrderNumber
	if ref == "" {
		ref = o.ExternalID
	}
	return "New order " + ref
}

func newOrderMessage(o *trade.Order) string {
	msg := fmt.Sprintf("Online order received: %s", o.TotalAmount.StringFixed(2))
	if o.Currency != "" {
		msg += " " + o.Currency
	}
	return msg
}
