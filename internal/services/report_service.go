package services

import (
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/pdf"
	"expensetracker/internal/repositories"
)

type ReportService struct {
	Expenses repositories.ExpenseRepository
	Incomes  repositories.IncomeRepository
}

func NewReportService(expenses repositories.ExpenseRepository, incomes repositories.IncomeRepository) *ReportService {
	return &ReportService{Expenses: expenses, Incomes: incomes}
}

func (s *ReportService) GetSummary(accountID int) (*models.Summary, error) {
	income, err := s.Incomes.TotalByAccount(accountID)
	if err != nil {
		return nil, err
	}
	expense, err := s.Expenses.TotalByAccount(accountID)
	if err != nil {
		return nil, err
	}
	return &models.Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income - expense,
	}, nil
}

// GetTimeline returns per-day expense totals for the current month.
func (s *ReportService) GetTimeline(accountID int, now time.Time) ([]*models.TimelinePoint, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)
	return s.Expenses.DailyTotals(accountID, from, to)
}

func (s *ReportService) ExpensesByCategory(accountID int) ([]*models.CategoryTotal, error) {
	return s.Expenses.TotalsByCategory(accountID)
}

func (s *ReportService) IncomesByCategory(accountID int) ([]*models.CategoryTotal, error) {
	return s.Incomes.TotalsByCategory(accountID)
}

// BuildStatement collects one month of activity for the PDF export. The
// summary here is scoped to the month, not all-time.
func (s *ReportService) BuildStatement(accountID int, name, currency string, month time.Time) (*pdf.StatementData, error) {
	monthKey := month.Format("2006-01")

	expenses, err := s.Expenses.ListByAccount(accountID, monthKey, 10000, 0)
	if err != nil {
		return nil, err
	}
	incomes, err := s.Incomes.ListByAccount(accountID, monthKey, 10000, 0)
	if err != nil {
		return nil, err
	}

	var summary models.Summary
	for _, e := range expenses {
		summary.TotalExpense += e.Amount
	}
	for _, i := range incomes {
		summary.TotalIncome += i.Amount
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense

	return &pdf.StatementData{
		AccountName: name,
		Currency:    currency,
		Month:       month,
		Summary:     summary,
		Expenses:    expenses,
		Incomes:     incomes,
	}, nil
}
