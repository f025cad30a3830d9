// Package report builds the per-university dashboard snapshot. The
// aggregation is a read-only unit of work served from the replica; computed
// snapshots are cached in Redis with a TTL.
package report

import (
	"context"
	"time"

	"campus/internal/domain/student"
	"campus/internal/infrastructure/cache"
	"campus/internal/shared/biztime"
	"campus/internal/shared/db"
	"campus/internal/shared/goroutine"
	"campus/internal/shared/logger"
)

type DashboardSnapshot struct {
	UniversitySID string           `json:"university_sid"`
	TotalStudents int64            `json:"total_students"`
	ByStatus      map[string]int64 `json:"by_status"`
	GeneratedAt   time.Time        `json:"generated_at"`
}

type DashboardUseCase struct {
	studentRepo student.Repository
	router      *db.Router
	cache       *cache.DashboardCache
	logger      logger.Interface
}

func NewDashboardUseCase(
	studentRepo student.Repository,
	router *db.Router,
	dashCache *cache.DashboardCache,
	log logger.Interface,
) *DashboardUseCase {
	return &DashboardUseCase{
		studentRepo: studentRepo,
		router:      router,
		cache:       dashCache,
		logger:      log,
	}
}

// Execute returns the dashboard for the university, recomputing it from the
// replica on a cache miss. Dashboards tolerate replica lag; a caller that
// needs exact post-write numbers reads the entities directly instead.
func (uc *DashboardUseCase) Execute(ctx context.Context, universitySID string) (*DashboardSnapshot, error) {
	if uc.cache != nil {
		var cached DashboardSnapshot
		hit, err := uc.cache.Get(ctx, universitySID, &cached)
		if err != nil {
			uc.logger.Warnw("dashboard cache read failed", "error", err, "tenant_id", universitySID)
		} else if hit {
			return &cached, nil
		}
	}

	snapshot := &DashboardSnapshot{
		UniversitySID: universitySID,
		GeneratedAt:   biztime.NowUTC(),
	}

	err := uc.router.RunReadOnly(ctx, func(ctx context.Context) error {
		total, err := uc.studentRepo.CountByUniversity(ctx, universitySID)
		if err != nil {
			return err
		}
		byStatus, err := uc.studentRepo.CountByStatus(ctx, universitySID)
		if err != nil {
			return err
		}
		snapshot.TotalStudents = total
		snapshot.ByStatus = byStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		// Populate off the request path; the response does not wait on Redis.
		goroutine.SafeGo(uc.logger, "dashboard-cache-set", func() {
			cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := uc.cache.Set(cacheCtx, universitySID, snapshot); err != nil {
				uc.logger.Warnw("dashboard cache write failed", "error", err, "tenant_id", universitySID)
			}
		})
	}

	return snapshot, nil
}
