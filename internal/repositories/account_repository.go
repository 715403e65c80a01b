package repositories

import (
	"database/sql"
	"time"

	"expensetracker/internal/models"
)

type AccountRepository interface {
	Create(a *models.Account) error
	GetByID(id int) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)

	// verification helpers
	SetVerification(accountID int, token string, expiresAt time.Time) error
	// RedeemVerification flips email_verified and clears the token pair in a
	// single conditional UPDATE. Returns false when no row matched the token
	// with an unexpired deadline.
	RedeemVerification(token string, now time.Time) (bool, error)

	// reset helpers
	SetResetOTP(accountID int, otp string, expiresAt time.Time) error
	// CompleteReset swaps the password hash and clears the OTP pair, keyed on
	// the OTP still being the stored one so a racing rotation wins.
	CompleteReset(accountID int, otp, passwordHash string) (bool, error)

	UpdateProfile(a *models.Account) error
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

const accountColumns = `
	id, name, email, password_hash, COALESCE(avatar,''), currency,
	email_verified,
	verify_token, verify_token_exp,
	reset_otp, reset_otp_exp,
	created_at
`

func (r *accountRepository) Create(a *models.Account) error {
	const q = `
		INSERT INTO accounts (
			name, email, password_hash, avatar, currency,
			email_verified, verify_token, verify_token_exp,
			reset_otp, reset_otp_exp
		)
		VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,$7,$8,NULL,NULL)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		a.Name,
		a.Email,
		a.PasswordHash,
		a.Avatar,
		a.Currency,
		a.EmailVerified,
		a.VerifyToken,
		a.VerifyTokenExp,
	).Scan(&a.ID, &a.CreatedAt)
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var (
		vt  sql.NullString
		vte sql.NullTime
		ro  sql.NullString
		roe sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Avatar, &a.Currency,
		&a.EmailVerified,
		&vt, &vte,
		&ro, &roe,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if vt.Valid {
		s := vt.String
		a.VerifyToken = &s
	}
	if vte.Valid {
		t := vte.Time
		a.VerifyTokenExp = &t
	}
	if ro.Valid {
		s := ro.String
		a.ResetOTP = &s
	}
	if roe.Valid {
		t := roe.Time
		a.ResetOTPExp = &t
	}
	return a, nil
}

func (r *accountRepository) GetByID(id int) (*models.Account, error) {
	row := r.DB.QueryRow(`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *accountRepository) GetByEmail(email string) (*models.Account, error) {
	row := r.DB.QueryRow(`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// ===== verification helpers =====

func (r *accountRepository) SetVerification(accountID int, token string, expiresAt time.Time) error {
	const q = `
		UPDATE accounts
		SET verify_token=$1, verify_token_exp=$2
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, token, expiresAt, accountID)
	return err
}

func (r *accountRepository) RedeemVerification(token string, now time.Time) (bool, error) {
	const q = `
		UPDATE accounts
		SET email_verified=TRUE, verify_token=NULL, verify_token_exp=NULL
		WHERE verify_token=$1 AND verify_token_exp > $2
	`
	res, err := r.DB.Exec(q, token, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ===== reset helpers =====

func (r *accountRepository) SetResetOTP(accountID int, otp string, expiresAt time.Time) error {
	const q = `
		UPDATE accounts
		SET reset_otp=$1, reset_otp_exp=$2
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, otp, expiresAt, accountID)
	return err
}

func (r *accountRepository) CompleteReset(accountID int, otp, passwordHash string) (bool, error) {
	const q = `
		UPDATE accounts
		SET password_hash=$1, reset_otp=NULL, reset_otp_exp=NULL
		WHERE id=$2 AND reset_otp=$3
	`
	res, err := r.DB.Exec(q, passwordHash, accountID, otp)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *accountRepository) UpdateProfile(a *models.Account) error {
	const q = `
		UPDATE accounts
		SET name=$1, currency=$2, avatar=NULLIF($3,'')
		WHERE id=$4
	`
	_, err := r.DB.Exec(q, a.Name, a.Currency, a.Avatar, a.ID)
	return err
}
