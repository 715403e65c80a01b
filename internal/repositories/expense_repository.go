package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"expensetracker/internal/models"
)

type ExpenseRepository interface {
	Create(e *models.Expense) error
	GetByID(id int) (*models.Expense, error)
	Update(e *models.Expense) error
	Delete(id, accountID int) (bool, error)
	ListByAccount(accountID int, month string, limit, offset int) ([]*models.Expense, error)
	TotalByAccount(accountID int) (float64, error)
	TotalsByCategory(accountID int) ([]*models.CategoryTotal, error)
	DailyTotals(accountID int, from, to time.Time) ([]*models.TimelinePoint, error)
}

type expenseRepository struct {
	DB *sql.DB
}

func NewExpenseRepository(db *sql.DB) ExpenseRepository {
	return &expenseRepository{DB: db}
}

func (r *expenseRepository) Create(e *models.Expense) error {
	const q = `
		INSERT INTO expenses (account_id, title, amount, category, date, note)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''))
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q, e.AccountID, e.Title, e.Amount, e.Category, e.Date, e.Note).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *expenseRepository) GetByID(id int) (*models.Expense, error) {
	const q = `
		SELECT id, account_id, title, amount, category, date, COALESCE(note,''), created_at
		FROM expenses WHERE id=$1
	`
	e := &models.Expense{}
	err := r.DB.QueryRow(q, id).Scan(
		&e.ID, &e.AccountID, &e.Title, &e.Amount, &e.Category, &e.Date, &e.Note, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *expenseRepository) Update(e *models.Expense) error {
	const q = `
		UPDATE expenses
		SET title=$1, amount=$2, category=$3, date=$4, note=NULLIF($5,'')
		WHERE id=$6 AND account_id=$7
	`
	_, err := r.DB.Exec(q, e.Title, e.Amount, e.Category, e.Date, e.Note, e.ID, e.AccountID)
	return err
}

func (r *expenseRepository) Delete(id, accountID int) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM expenses WHERE id=$1 AND account_id=$2`, id, accountID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListByAccount returns newest-first; month is optional "YYYY-MM".
func (r *expenseRepository) ListByAccount(accountID int, month string, limit, offset int) ([]*models.Expense, error) {
	q := `
		SELECT id, account_id, title, amount, category, date, COALESCE(note,''), created_at
		FROM expenses
		WHERE account_id=$1
	`
	args := []interface{}{accountID}
	if month != "" {
		q += fmt.Sprintf(` AND to_char(date, 'YYYY-MM') = $%d`, len(args)+1)
		args = append(args, month)
	}
	q += fmt.Sprintf(` ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(
			&e.ID, &e.AccountID, &e.Title, &e.Amount, &e.Category, &e.Date, &e.Note, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r *expenseRepository) TotalByAccount(accountID int) (float64, error) {
	var total float64
	err := r.DB.QueryRow(
		`SELECT COALESCE(SUM(amount),0) FROM expenses WHERE account_id=$1`, accountID,
	).Scan(&total)
	return total, err
}

func (r *expenseRepository) TotalsByCategory(accountID int) ([]*models.CategoryTotal, error) {
	const q = `
		SELECT category, SUM(amount)
		FROM expenses
		WHERE account_id=$1
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`
	rows, err := r.DB.Query(q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.CategoryTotal
	for rows.Next() {
		ct := &models.CategoryTotal{}
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		res = append(res, ct)
	}
	return res, rows.Err()
}

func (r *expenseRepository) DailyTotals(accountID int, from, to time.Time) ([]*models.TimelinePoint, error) {
	const q = `
		SELECT to_char(date, 'YYYY-MM-DD') AS day, SUM(amount)
		FROM expenses
		WHERE account_id=$1 AND date >= $2 AND date < $3
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.DB.Query(q, accountID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.TimelinePoint
	for rows.Next() {
		p := &models.TimelinePoint{}
		if err := rows.Scan(&p.Day, &p.Total); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}
