package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/payment-ops/internal/config"
	"github.com/spec-kit/payment-ops/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCustomerNotified, n.handleCustomerNotified)
	n.dispatcher.Subscribe(events.EventPaymentEscalated, n.handlePaymentEscalated)
	n.dispatcher.Subscribe(events.EventCaseOpened, n.handleCaseOpened)
	n.dispatcher.Subscribe(events.EventRunCompleted, n.handleRunCompleted)
}

func (n *NotificationService) handleCustomerNotified(ctx context.Context, event events.Event) error {
	n.logger.Info("CustomerNotified", zap.String("payment_id", event.PaymentID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePaymentEscalated(ctx context.Context, event events.Event) error {
	n.logger.Info("PaymentEscalated", zap.String("payment_id", event.PaymentID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCaseOpened(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseOpened", zap.String("payment_id", event.PaymentID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRunCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("RunCompleted", zap.String("run_id", event.RunID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("payment_id", event.PaymentID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("run_id", event.RunID),
		zap.String("event_type", string(event.Type)))
}
