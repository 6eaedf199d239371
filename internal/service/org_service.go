package service

import (
	"fmt"

	"github.com/troopops/task-tracker/internal/models"
	"github.com/troopops/task-tracker/internal/repository"
)

// OrgService covers the admin-facing organization settings: the rank ladder
// and the per-priority SLA configuration.
type OrgService struct {
	rankRepo *repository.RankRepository
	slaRepo  *repository.SLARepository
}

func NewOrgService(rankRepo *repository.RankRepository, slaRepo *repository.SLARepository) *OrgService {
	return &OrgService{rankRepo: rankRepo, slaRepo: slaRepo}
}

func (s *OrgService) ListRanks() ([]models.Rank, error) {
	return s.rankRepo.List()
}

func (s *OrgService) CreateRank(name string, orderIndex int) (models.Rank, error) {
	if name == "" {
		return models.Rank{}, fmt.Errorf("rank name is required")
	}
	rank := models.Rank{Name: name, OrderIndex: orderIndex}
	if err := s.rankRepo.Create(&rank); err != nil {
		return models.Rank{}, err
	}
	return rank, nil
}

func (s *OrgService) UpdateRank(id, name string, orderIndex int) (models.Rank, error) {
	if name == "" {
		return models.Rank{}, fmt.Errorf("rank name is required")
	}
	rank := models.Rank{ID: id, Name: name, OrderIndex: orderIndex}
	if err := s.rankRepo.Update(&rank); err != nil {
		return models.Rank{}, err
	}
	return rank, nil
}

func (s *OrgService) DeleteRank(id string) error {
	return s.rankRepo.Delete(id)
}

func (s *OrgService) ListSLASettings() ([]models.SLASetting, error) {
	return s.slaRepo.List()
}

func (s *OrgService) UpsertSLASetting(setting models.SLASetting) (models.SLASetting, error) {
	if !setting.Priority.IsValid() {
		return models.SLASetting{}, fmt.Errorf("invalid priority: %q", setting.Priority)
	}
	if setting.ResponseHours <= 0 {
		return models.SLASetting{}, fmt.Errorf("response hours must be positive")
	}
	if err := s.slaRepo.Upsert(&setting); err != nil {
		return models.SLASetting{}, err
	}
	return setting, nil
}
