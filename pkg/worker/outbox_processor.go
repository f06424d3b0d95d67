package worker

import (
	"context"
	"time"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
	"github.com/nutrivo/practice-api/pkg/logger"
	"github.com/nutrivo/practice-api/pkg/messaging"
	"github.com/nutrivo/practice-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:     50,
		PollInterval:  5 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    30 * time.Second,
	}
}

// OutboxProcessor drains pending outbox events and publishes them to the
// broker. Summary artifacts themselves are written synchronously by the
// pipeline; only the notification fan-out goes through here.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultOutboxProcessorConfig().BatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultOutboxProcessorConfig().PollInterval
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopping")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox batch")
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		p.processEvent(ctx, event)
	}
	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) {
	start := time.Now()

	err := p.broker.Publish(ctx, messaging.SummaryEventsChannel, messaging.Message{
		Type:    event.EventType,
		Payload: event.Payload,
	})
	p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		p.metrics.OutboxEventsFailed.Inc()
		p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()

		status := model.OutboxStatusPending
		if event.RetryCount+1 >= p.config.RetryAttempts {
			status = model.OutboxStatusFailed
		}
		msg := err.Error()
		retryAt := time.Now().Add(p.config.RetryDelay)
		if uerr := p.repo.MarkRetry(ctx, event.ID, status, &msg, &retryAt); uerr != nil {
			p.logger.Error(uerr, "failed to update outbox event after publish failure")
		}
		return
	}

	p.metrics.OutboxEventsProcessed.Inc()
	if uerr := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); uerr != nil {
		p.logger.Error(uerr, "failed to mark outbox event processed")
	}
}
