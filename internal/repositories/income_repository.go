package repositories

import (
	"database/sql"
	"fmt"

	"expensetracker/internal/models"
)

type IncomeRepository interface {
	Create(i *models.Income) error
	GetByID(id int) (*models.Income, error)
	Update(i *models.Income) error
	Delete(id, accountID int) (bool, error)
	ListByAccount(accountID int, month string, limit, offset int) ([]*models.Income, error)
	TotalByAccount(accountID int) (float64, error)
	TotalsByCategory(accountID int) ([]*models.CategoryTotal, error)
}

type incomeRepository struct {
	DB *sql.DB
}

func NewIncomeRepository(db *sql.DB) IncomeRepository {
	return &incomeRepository{DB: db}
}

func (r *incomeRepository) Create(i *models.Income) error {
	const q = `
		INSERT INTO incomes (account_id, source, amount, category, date, note)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''))
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q, i.AccountID, i.Source, i.Amount, i.Category, i.Date, i.Note).
		Scan(&i.ID, &i.CreatedAt)
}

func (r *incomeRepository) GetByID(id int) (*models.Income, error) {
	const q = `
		SELECT id, account_id, source, amount, category, date, COALESCE(note,''), created_at
		FROM incomes WHERE id=$1
	`
	i := &models.Income{}
	err := r.DB.QueryRow(q, id).Scan(
		&i.ID, &i.AccountID, &i.Source, &i.Amount, &i.Category, &i.Date, &i.Note, &i.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *incomeRepository) Update(i *models.Income) error {
	const q = `
		UPDATE incomes
		SET source=$1, amount=$2, category=$3, date=$4, note=NULLIF($5,'')
		WHERE id=$6 AND account_id=$7
	`
	_, err := r.DB.Exec(q, i.Source, i.Amount, i.Category, i.Date, i.Note, i.ID, i.AccountID)
	return err
}

func (r *incomeRepository) Delete(id, accountID int) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM incomes WHERE id=$1 AND account_id=$2`, id, accountID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *incomeRepository) ListByAccount(accountID int, month string, limit, offset int) ([]*models.Income, error) {
	q := `
		SELECT id, account_id, source, amount, category, date, COALESCE(note,''), created_at
		FROM incomes
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

	var res []*models.Income
	for rows.Next() {
		i := &models.Income{}
		if err := rows.Scan(
			&i.ID, &i.AccountID, &i.Source, &i.Amount, &i.Category, &i.Date, &i.Note, &i.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, i)
	}
	return res, rows.Err()
}

func (r *incomeRepository) TotalByAccount(accountID int) (float64, error) {
	var total float64
	err := r.DB.QueryRow(
		`SELECT COALESCE(SUM(amount),0) FROM incomes WHERE account_id=$1`, accountID,
	).Scan(&total)
	return total, err
}

func (r *incomeRepository) TotalsByCategory(accountID int) ([]*models.CategoryTotal, error) {
	const q = `
		SELECT category, SUM(amount)
		FROM incomes
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
