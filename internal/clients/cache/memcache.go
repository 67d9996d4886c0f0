package cache

import (
	"strconv"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/myexpenses/myexpenses/internal/logger"
)

var defaultBase = 10

type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func formatKey(userID int64, period string) string {
	return strconv.FormatInt(userID, defaultBase) + ":" + period
}

func (mc *MemcacheClient) CacheReport(userID int64, period string, report []byte) error {
	logger.Info("cache report", zap.Int64("userID", userID), zap.String("period", period))
	return mc.client.Set(&memcache.Item{
		Key:   formatKey(userID, period),
		Value: report},
	)
}

func (mc *MemcacheClient) GetReport(userID int64, period string) ([]byte, error) {
	logger.Info("get report from cache", zap.Int64("userID", userID), zap.String("period", period))
	item, err := mc.client.Get(formatKey(userID, period))
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

func (mc *MemcacheClient) InvalidateCache(userID int64, periods []string) error {
	logger.Info("invalidate cache", zap.Int64("userID", userID))

	for _, period := range periods {
		err := mc.client.Delete(formatKey(userID, period))
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}
