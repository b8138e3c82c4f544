package store

import (
	"context"
	"encoding/json"

	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/data/redisStore"
	"github.com/johanvictor/FinDocAPI/internal/domain/jobModel"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

type RedisReportStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisReportStore(ctx context.Context) *RedisReportStore {
	return &RedisReportStore{
		store:  redisStore.GetRedisStore(ctx, config.RedisReportStore),
		logger: logger_i.NewLogger("ReportStore"),
	}
}

func (s *RedisReportStore) SaveReport(ctx context.Context, report jobModel.ReportRecord) error {
	log := s.logger.With("report Id", report.ReportId, "user Id", report.UserId)
	log.Debug("saving report metadata")
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, reportKey(report.ReportId), data, config.RedisReportStoreTTL)
	if err == nil {
		log.Debug("Saved report metadata to Redis")
	}
	return err
}

func (s *RedisReportStore) GetReport(ctx context.Context, reportId string) (jobModel.ReportRecord, bool) {
	var report jobModel.ReportRecord
	log := s.logger.With("report Id", reportId)

	val, err := s.store.Get(ctx, reportKey(reportId))
	if s.store.IsNil(err) {
		return report, false
	} else if err != nil {
		log.Error("Error getting report from Redis", "error", err)
		return report, false
	}

	if err := json.Unmarshal([]byte(val), &report); err != nil {
		log.Error("Error unmarshalling report", "error", err)
		return report, false
	}
	return report, true
}

func reportKey(reportId string) string {
	return "report:" + reportId
}

func TestReportStore(store *redisStore.Store) *RedisReportStore {
	return &RedisReportStore{
		store:  store,
		logger: logger_i.NewLogger("test report store"),
	}
}
