package services

import (
	"sync"
	"time"

	"github.com/lib/pq"

	"expensetracker/internal/models"
)

// memAccountRepo is an in-memory stand-in for the Postgres repository. All
// mutations hold the lock for their whole span, mirroring the single-statement
// atomicity of the real conditional UPDATEs.
type memAccountRepo struct {
	mu       sync.Mutex
	nextID   int
	accounts map[int]*models.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{nextID: 1, accounts: map[int]*models.Account{}}
}

func copyAccount(a *models.Account) *models.Account {
	cp := *a
	if a.VerifyToken != nil {
		v := *a.VerifyToken
		cp.VerifyToken = &v
	}
	if a.VerifyTokenExp != nil {
		v := *a.VerifyTokenExp
		cp.VerifyTokenExp = &v
	}
	if a.ResetOTP != nil {
		v := *a.ResetOTP
		cp.ResetOTP = &v
	}
	if a.ResetOTPExp != nil {
		v := *a.ResetOTPExp
		cp.ResetOTPExp = &v
	}
	return &cp
}

func (r *memAccountRepo) Create(a *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return &pq.Error{Code: "23505"}
		}
	}
	a.ID = r.nextID
	r.nextID++
	a.CreatedAt = time.Now()
	r.accounts[a.ID] = copyAccount(a)
	return nil
}

func (r *memAccountRepo) GetByID(id int) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	return copyAccount(a), nil
}

func (r *memAccountRepo) GetByEmail(email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return copyAccount(a), nil
		}
	}
	return nil, nil
}

func (r *memAccountRepo) SetVerification(accountID int, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[accountID]; ok {
		a.VerifyToken = &token
		a.VerifyTokenExp = &expiresAt
	}
	return nil
}

func (r *memAccountRepo) RedeemVerification(token string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.VerifyToken != nil && *a.VerifyToken == token && a.VerifyTokenExp.After(now) {
			a.EmailVerified = true
			a.VerifyToken = nil
			a.VerifyTokenExp = nil
			return true, nil
		}
	}
	return false, nil
}

func (r *memAccountRepo) SetResetOTP(accountID int, otp string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[accountID]; ok {
		a.ResetOTP = &otp
		a.ResetOTPExp = &expiresAt
	}
	return nil
}

func (r *memAccountRepo) CompleteReset(accountID int, otp, passwordHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok || a.ResetOTP == nil || *a.ResetOTP != otp {
		return false, nil
	}
	a.PasswordHash = passwordHash
	a.ResetOTP = nil
	a.ResetOTPExp = nil
	return true, nil
}

func (r *memAccountRepo) UpdateProfile(a *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.accounts[a.ID]; ok {
		existing.Name = a.Name
		existing.Currency = a.Currency
		existing.Avatar = a.Avatar
	}
	return nil
}

// test helpers bypassing the repository contract

func (r *memAccountRepo) expireVerification(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	past := time.Now().Add(-time.Minute)
	r.accounts[id].VerifyTokenExp = &past
}

func (r *memAccountRepo) expireResetOTP(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	past := time.Now().Add(-time.Minute)
	r.accounts[id].ResetOTPExp = &past
}

// recordingMailer captures dispatched messages instead of talking to SMTP.
type recordingMailer struct {
	mu sync.Mutex

	verifications []sentVerification
	otps          []sentOTP

	failSend error
}

type sentVerification struct {
	Email string
	Name  string
	Token string
}

type sentOTP struct {
	Email string
	OTP   string
}

func (m *recordingMailer) SendVerificationEmail(email, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend != nil {
		return m.failSend
	}
	m.verifications = append(m.verifications, sentVerification{Email: email, Name: name, Token: token})
	return nil
}

func (m *recordingMailer) SendResetOTPEmail(email, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend != nil {
		return m.failSend
	}
	m.otps = append(m.otps, sentOTP{Email: email, OTP: otp})
	return nil
}

func (m *recordingMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.verifications) + len(m.otps)
}

func (m *recordingMailer) lastVerification() sentVerification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifications[len(m.verifications)-1]
}

func (m *recordingMailer) lastOTP() sentOTP {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.otps[len(m.otps)-1]
}
