package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/repositories"
	"pharmacy-system/pkg/types"
	"pharmacy-system/pkg/utils"
)

type BranchServiceInterface interface {
	GetBranches(ctx context.Context, filter types.Filter) ([]dto.BranchDTO, uint64, error)
	GetActiveBranches(ctx context.Context) ([]dto.BranchDTO, error)
	FindBranch(ctx context.Context, id string) (*dto.BranchDTO, error)
	CreateBranch(ctx context.Context, payload dto.CreateBranchDTO) (*dto.BranchDTO, error)
	UpdateBranch(ctx context.Context, id string, payload dto.UpdateBranchDTO) (*dto.BranchDTO, error)
	SetBranchStatus(ctx context.Context, id string, status string) (*dto.BranchDTO, error)
	DeleteBranch(ctx context.Context, id string) error
}

type BranchService struct {
	branchRepository repositories.BranchRepositoryInterface
	logger           *zap.Logger
}

func NewBranchService(branchRepository repositories.BranchRepositoryInterface, logger *zap.Logger) BranchServiceInterface {
	return &BranchService{branchRepository: branchRepository, logger: logger}
}

func branchEntityToDTO(b entities.Branch) dto.BranchDTO {
	return dto.BranchDTO{
		ID:       b.ID,
		Name:     b.Name,
		Address:  b.Address,
		Manager:  b.Manager,
		City:     b.City,
		Phone:    b.Phone,
		Workers:  b.Workers,
		Status:   string(b.Status),
		IsActive: b.IsActive(),
	}
}

func (s *BranchService) GetBranches(ctx context.Context, filter types.Filter) ([]dto.BranchDTO, uint64, error) {
	branches, err := s.branchRepository.GetBranches(ctx)
	if err != nil {
		return nil, 0, err
	}

	search := strings.ToLower(filter.Search)
	status := filter.FilterString("status")
	city := filter.FilterString("city")

	list := make([]dto.BranchDTO, 0, len(branches))
	for _, b := range branches {
		if search != "" && !strings.Contains(strings.ToLower(b.Name), search) &&
			!strings.Contains(strings.ToLower(b.Address), search) {
			continue
		}
		if status != "" && b.Status != entities.NormalizeBranchStatus(status) {
			continue
		}
		if city != "" && !strings.EqualFold(b.City, city) {
			continue
		}
		list = append(list, branchEntityToDTO(b))
	}
	return utils.Paginate(list, filter), uint64(len(list)), nil
}

// GetActiveBranches - только филиалы со статусом Activo; в них можно оформить резерв.
func (s *BranchService) GetActiveBranches(ctx context.Context) ([]dto.BranchDTO, error) {
	branches, err := s.branchRepository.GetBranches(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]dto.BranchDTO, 0, len(branches))
	for _, b := range branches {
		if b.IsActive() {
			list = append(list, branchEntityToDTO(b))
		}
	}
	return list, nil
}

func (s *BranchService) FindBranch(ctx context.Context, id string) (*dto.BranchDTO, error) {
	b, err := s.branchRepository.FindBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	res := branchEntityToDTO(*b)
	return &res, nil
}

func (s *BranchService) CreateBranch(ctx context.Context, payload dto.CreateBranchDTO) (*dto.BranchDTO, error) {
	status := entities.BranchStatusActive
	if payload.Status != "" {
		status = entities.NormalizeBranchStatus(payload.Status)
	}
	created, err := s.branchRepository.CreateBranch(ctx, entities.Branch{
		Name:    payload.Name,
		Address: payload.Address,
		Manager: payload.Manager,
		City:    payload.City,
		Phone:   payload.Phone,
		Workers: payload.Workers,
		Status:  status,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Филиал создан", zap.String("id", created.ID), zap.String("name", created.Name))
	res := branchEntityToDTO(*created)
	return &res, nil
}

// UpdateBranch - полная замена записи: при одновременной правке побеждает последний.
func (s *BranchService) UpdateBranch(ctx context.Context, id string, payload dto.UpdateBranchDTO) (*dto.BranchDTO, error) {
	b, err := s.branchRepository.FindBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload.Name.Valid {
		b.Name = payload.Name.String
	}
	if payload.Address.Valid {
		b.Address = payload.Address.String
	}
	if payload.Manager.Valid {
		b.Manager = payload.Manager.String
	}
	if payload.City.Valid {
		b.City = payload.City.String
	}
	if payload.Phone.Valid {
		b.Phone = payload.Phone.String
	}
	if payload.Workers.Valid {
		b.Workers = payload.Workers.Int
	}
	if payload.Status.Valid {
		b.Status = entities.NormalizeBranchStatus(payload.Status.String)
	}

	updated, err := s.branchRepository.UpdateBranch(ctx, *b)
	if err != nil {
		return nil, err
	}
	res := branchEntityToDTO(*updated)
	return &res, nil
}

func (s *BranchService) SetBranchStatus(ctx context.Context, id string, status string) (*dto.BranchDTO, error) {
	b, err := s.branchRepository.FindBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := b.Status
	b.Status = entities.NormalizeBranchStatus(status)

	updated, err := s.branchRepository.UpdateBranch(ctx, *b)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Статус филиала изменён",
		zap.String("id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(updated.Status)),
	)
	res := branchEntityToDTO(*updated)
	return &res, nil
}

func (s *BranchService) DeleteBranch(ctx context.Context, id string) error {
	return s.branchRepository.DeleteBranch(ctx, id)
}
