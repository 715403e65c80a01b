package services

import (
	"fmt"
	"strings"
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/repositories"
)

type IncomeService struct {
	Repo repositories.IncomeRepository
}

func NewIncomeService(repo repositories.IncomeRepository) *IncomeService {
	return &IncomeService{Repo: repo}
}

func (s *IncomeService) Create(i *models.Income) error {
	if strings.TrimSpace(i.Source) == "" || i.Amount <= 0 {
		return fmt.Errorf("%w: source and positive amount are required", ErrValidation)
	}
	if i.Category == "" {
		i.Category = "Other"
	}
	if i.Date.IsZero() {
		i.Date = time.Now()
	}
	return s.Repo.Create(i)
}

func (s *IncomeService) Update(i *models.Income) error {
	current, err := s.Repo.GetByID(i.ID)
	if err != nil {
		return err
	}
	if current == nil || current.AccountID != i.AccountID {
		return nil
	}
	if i.Source == "" {
		i.Source = current.Source
	}
	if i.Amount == 0 {
		i.Amount = current.Amount
	}
	if i.Category == "" {
		i.Category = current.Category
	}
	if i.Date.IsZero() {
		i.Date = current.Date
	}
	return s.Repo.Update(i)
}

func (s *IncomeService) Delete(id, accountID int) (bool, error) {
	return s.Repo.Delete(id, accountID)
}

func (s *IncomeService) List(accountID int, month string, limit, offset int) ([]*models.Income, error) {
	return s.Repo.ListByAccount(accountID, month, limit, offset)
}
