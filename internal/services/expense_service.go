package services

import (
	"fmt"
	"strings"
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/repositories"
)

type ExpenseService struct {
	Repo repositories.ExpenseRepository
}

func NewExpenseService(repo repositories.ExpenseRepository) *ExpenseService {
	return &ExpenseService{Repo: repo}
}

func (s *ExpenseService) Create(e *models.Expense) error {
	if strings.TrimSpace(e.Title) == "" || e.Amount <= 0 {
		return fmt.Errorf("%w: title and positive amount are required", ErrValidation)
	}
	if e.Category == "" {
		e.Category = "Other"
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	return s.Repo.Create(e)
}

func (s *ExpenseService) Update(e *models.Expense) error {
	current, err := s.Repo.GetByID(e.ID)
	if err != nil {
		return err
	}
	if current == nil || current.AccountID != e.AccountID {
		return nil
	}
	if e.Title == "" {
		e.Title = current.Title
	}
	if e.Amount == 0 {
		e.Amount = current.Amount
	}
	if e.Category == "" {
		e.Category = current.Category
	}
	if e.Date.IsZero() {
		e.Date = current.Date
	}
	return s.Repo.Update(e)
}

func (s *ExpenseService) Delete(id, accountID int) (bool, error) {
	return s.Repo.Delete(id, accountID)
}

func (s *ExpenseService) List(accountID int, month string, limit, offset int) ([]*models.Expense, error) {
	return s.Repo.ListByAccount(accountID, month, limit, offset)
}
