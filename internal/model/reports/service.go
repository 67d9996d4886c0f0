package reports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/myexpenses/myexpenses/internal/logger"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
)

type reportCache interface {
	GetReport(userID int64, period string) ([]byte, error)
	InvalidateCache(userID int64, periods []string) error
}

type requestProducer interface {
	ProduceMessage(message []byte) error
}

// Service is the request side of the reporting pipeline. Cache hits are
// served directly; misses enqueue a generation request and the caller
// polls again later.
type Service struct {
	cache    reportCache
	producer requestProducer
}

func NewService(cache reportCache, producer requestProducer) *Service {
	return &Service{cache: cache, producer: producer}
}

// Request returns the cached report if one is ready. Otherwise it enqueues
// a generation request and reports ready=false.
func (s *Service) Request(ctx context.Context, userID int64, period string) (ReportResult, bool, error) {
	if _, err := periodStart(period, time.Now()); err != nil {
		return ReportResult{}, false, &customerr.ValidationError{Reason: err.Error()}
	}

	raw, err := s.cache.GetReport(userID, period)
	if err == nil {
		var res ReportResult
		if err = json.Unmarshal(raw, &res); err == nil {
			return res, true, nil
		}
		logger.Error("corrupt cached report", zap.Int64("userID", userID), zap.Error(err))
	}

	req := ReportRequest{
		RequestID: uuid.NewString(),
		UserID:    userID,
		Period:    period,
	}
	message, err := json.Marshal(req)
	if err != nil {
		return ReportResult{}, false, errors.Wrap(err, "request report")
	}
	if err = s.producer.ProduceMessage(message); err != nil {
		return ReportResult{}, false, errors.Wrap(err, "request report")
	}
	logger.Info("report requested",
		zap.String("requestID", req.RequestID),
		zap.Int64("userID", userID),
		zap.String("period", period),
	)
	return ReportResult{}, false, nil
}

// Invalidate drops every cached period for the user. Called after any
// personal record mutation.
func (s *Service) Invalidate(userID int64) error {
	return s.cache.InvalidateCache(userID, Periods)
}
