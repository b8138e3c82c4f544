package store

import (
	"context"
	"sync"

	"github.com/johanvictor/FinDocAPI/internal/domain/jobModel"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

type InMemoryReportStore struct {
	reportMutex *sync.RWMutex
	reportMap   map[string]jobModel.ReportRecord
	logger      *logger_i.Logger
}

func InitInMemoryReportStore() *InMemoryReportStore {
	return &InMemoryReportStore{
		reportMutex: new(sync.RWMutex),
		reportMap:   make(map[string]jobModel.ReportRecord),
		logger:      logger_i.NewLogger("InMem ReportStore"),
	}
}

func (store *InMemoryReportStore) SaveReport(ctx context.Context, report jobModel.ReportRecord) error {
	store.reportMutex.Lock()
	defer store.reportMutex.Unlock()
	store.reportMap[report.ReportId] = report
	store.logger.Info(report.ReportId, " : Saved report to store")
	return nil
}

func (store *InMemoryReportStore) GetReport(ctx context.Context, reportId string) (jobModel.ReportRecord, bool) {
	store.reportMutex.RLock()
	defer store.reportMutex.RUnlock()
	result, found := store.reportMap[reportId]
	return result, found
}
