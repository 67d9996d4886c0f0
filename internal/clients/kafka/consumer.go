package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/myexpenses/myexpenses/internal/logger"
	"github.com/myexpenses/myexpenses/internal/model/reports"
)

type consumerConfig interface {
	producerConfig
	ConsumerGroup() string
}

type reportGenerator interface {
	GenerateReport(ctx context.Context, userID int64, period string) (reports.ReportResult, error)
}

type reportCacher interface {
	CacheReport(userID int64, period string, report []byte) error
}

type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	generator     reportGenerator
	cacher        reportCacher
}

func NewConsumer(cfg consumerConfig, generator reportGenerator, cacher reportCacher) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), cfg.ConsumerGroup(), config)
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.ReportsTopic(),
		generator:     generator,
		cacher:        cacher,
	}, err
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
	}
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - setup")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - cleanup")
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var req reports.ReportRequest
		err := json.Unmarshal(message.Value, &req)
		if err != nil {
			logger.Error("cannot unmarshal kafka message", zap.Error(err))
		} else {
			logger.Info(
				"received report request",
				zap.String("requestID", req.RequestID),
				zap.Int64("userID", req.UserID),
				zap.String("period", req.Period),
			)
			c.processRequest(session.Context(), req)
		}
		session.MarkMessage(message, "")
	}

	return nil
}

func (c *Consumer) processRequest(ctx context.Context, req reports.ReportRequest) {
	report, err := c.generator.GenerateReport(ctx, req.UserID, req.Period)
	if err != nil {
		logger.Error("failed to generate report", zap.String("requestID", req.RequestID), zap.Error(err))
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		logger.Error("failed to marshal report", zap.String("requestID", req.RequestID), zap.Error(err))
		return
	}
	if err = c.cacher.CacheReport(req.UserID, req.Period, raw); err != nil {
		logger.Error("failed to cache report", zap.String("requestID", req.RequestID), zap.Error(err))
	}
}
