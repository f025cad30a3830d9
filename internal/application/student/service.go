// Package student implements the tenant-scoped student operations. Reads are
// declared read-only units of work so the router can send them to the
// replica; every mutation stays on the primary and invalidates the cached
// dashboard for the university.
package student

import (
	"context"
	"fmt"

	"campus/internal/domain/student"
	"campus/internal/infrastructure/cache"
	"campus/internal/shared/db"
	"campus/internal/shared/errors"
	"campus/internal/shared/id"
	"campus/internal/shared/logger"
)

type Service struct {
	repo   student.Repository
	router *db.Router
	cache  *cache.DashboardCache
	logger logger.Interface
}

func NewService(repo student.Repository, router *db.Router, dashCache *cache.DashboardCache, log logger.Interface) *Service {
	return &Service{
		repo:   repo,
		router: router,
		cache:  dashCache,
		logger: log,
	}
}

func (s *Service) Get(ctx context.Context, universitySID, sid string) (*student.Student, error) {
	var result *student.Student
	err := s.router.RunReadOnly(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.repo.GetBySID(ctx, universitySID, sid)
		return err
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.NewNotFoundError("student not found")
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, universitySID string, filter student.ListFilter) ([]*student.Student, int64, error) {
	var (
		students []*student.Student
		total    int64
	)
	err := s.router.RunReadOnly(ctx, func(ctx context.Context) error {
		var err error
		students, total, err = s.repo.List(ctx, universitySID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

type CreateCommand struct {
	FirstName      string
	LastName       string
	Email          string
	EnrollmentYear int
}

func (s *Service) Create(ctx context.Context, universitySID string, cmd CreateCommand) (*student.Student, error) {
	record := &student.Student{
		SID:            id.MustGenerateWithPrefix(id.PrefixStudent, id.DefaultLength),
		UniversitySID:  universitySID,
		FirstName:      cmd.FirstName,
		LastName:       cmd.LastName,
		Email:          cmd.Email,
		EnrollmentYear: cmd.EnrollmentYear,
		Status:         "enrolled",
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.invalidateDashboard(ctx, universitySID)
	return record, nil
}

type UpdateCommand struct {
	FirstName *string
	LastName  *string
	Email     *string
	Status    *string
}

func (s *Service) Update(ctx context.Context, universitySID, sid string, cmd UpdateCommand) (*student.Student, error) {
	// Read through the primary: this read feeds a write and must not see a
	// lagging replica.
	record, err := s.repo.GetBySID(db.WithReadWrite(ctx), universitySID, sid)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.NewNotFoundError("student not found")
	}

	if cmd.FirstName != nil {
		record.FirstName = *cmd.FirstName
	}
	if cmd.LastName != nil {
		record.LastName = *cmd.LastName
	}
	if cmd.Email != nil {
		record.Email = *cmd.Email
	}
	if cmd.Status != nil {
		record.Status = *cmd.Status
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx, universitySID)
	return record, nil
}

func (s *Service) Delete(ctx context.Context, universitySID, sid string) error {
	if err := s.repo.Delete(ctx, universitySID, sid); err != nil {
		return err
	}
	s.invalidateDashboard(ctx, universitySID)
	return nil
}

// invalidateDashboard is best effort: a stale dashboard expires with its TTL
// anyway.
func (s *Service) invalidateDashboard(ctx context.Context, universitySID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, universitySID); err != nil {
		s.logger.Warnw("failed to invalidate dashboard cache", "error", err, "tenant_id", universitySID)
	}
}
