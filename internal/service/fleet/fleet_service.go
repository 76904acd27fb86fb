package fleet

import (
	"context"

	"github.com/frankmutethia/Aurora-sub000/internal/catalog"
	"github.com/frankmutethia/Aurora-sub000/internal/domain"
	"github.com/frankmutethia/Aurora-sub000/internal/logger"
	"github.com/frankmutethia/Aurora-sub000/internal/repository"
)

type FleetUseCase interface {
	Search(ctx context.Context, criteria catalog.Criteria) (catalog.Result, error)
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	RecordOdometer(ctx context.Context, id string, km int64) (*domain.Vehicle, error)
	MarkServiced(ctx context.Context, id string) (*domain.Vehicle, error)
	SetStatus(ctx context.Context, id string, status domain.VehicleStatus) (*domain.Vehicle, error)
}

type Cache interface {
	GetFleet(ctx context.Context) ([]domain.Vehicle, error)
	SetFleet(ctx context.Context, vehicles []domain.Vehicle) error
	InvalidateFleet(ctx context.Context) error
}

type FleetService struct {
	repo  repository.VehicleRepository
	cache Cache
	log   logger.Logger
}

func NewFleetService(repo repository.VehicleRepository, cache Cache, log logger.Logger) *FleetService {
	return &FleetService{repo: repo, cache: cache, log: log}
}

// Search loads the fleet (cache first) and applies the catalog filter.
// Filtering itself never errors; bad criteria degrade to "no filter".
func (s *FleetService) Search(ctx context.Context, criteria catalog.Criteria) (catalog.Result, error) {
	vehicles, err := s.fleet(ctx)
	if err != nil {
		return catalog.Result{}, err
	}
	return catalog.Filter(vehicles, criteria), nil
}

func (s *FleetService) fleet(ctx context.Context) ([]domain.Vehicle, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFleet(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	vehicles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFleet(ctx, vehicles); err != nil {
			s.log.Warn("fleet cache write failed", logger.Error(err))
		}
	}
	return vehicles, nil
}

func (s *FleetService) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FleetService) RecordOdometer(ctx context.Context, id string, km int64) (*domain.Vehicle, error) {
	if err := s.repo.UpdateOdometer(ctx, id, km); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.ServiceDue() {
		s.log.Warn("vehicle service due",
			logger.String("vehicle_id", v.ID),
			logger.Int64("current_odometer", v.CurrentOdometer),
		)
	}
	return v, nil
}

func (s *FleetService) MarkServiced(ctx context.Context, id string) (*domain.Vehicle, error) {
	if err := s.repo.MarkServiced(ctx, id); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *FleetService) SetStatus(ctx context.Context, id string, status domain.VehicleStatus) (*domain.Vehicle, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *FleetService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFleet(ctx); err != nil {
		s.log.Warn("fleet cache invalidation failed", logger.Error(err))
	}
}

var _ FleetUseCase = (*FleetService)(nil)
