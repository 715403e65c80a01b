package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"

	"expensetracker/internal/config"
	"expensetracker/internal/models"
	"expensetracker/internal/repositories"
	"expensetracker/internal/utils"
)

// ResendOutcome tells the handler which of the three resend responses to
// render. Unknown emails get the same "sent" shape as real ones.
type ResendOutcome int

const (
	ResendSentIfExists ResendOutcome = iota
	ResendAlreadyVerified
	ResendSent
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Avatar   string
	Currency string
}

type LoginResult struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

type AccountService interface {
	Register(in RegisterInput) error
	VerifyEmail(token string) error
	ResendVerification(email string) (ResendOutcome, error)
	Login(email, password string) (*LoginResult, error)
	GoogleLogin(email, name, avatar string) (*LoginResult, error)
	GetProfile(accountID int) (*models.Account, error)
	UpdateProfile(accountID int, name, currency, avatar string) (*models.Profile, error)
}

type accountService struct {
	repo     repositories.AccountRepository
	emails   EmailService
	auth     AuthService
	sessions SessionService
	authCfg  config.AuthConfig
}

func NewAccountService(
	repo repositories.AccountRepository,
	emails EmailService,
	auth AuthService,
	sessions SessionService,
	authCfg config.AuthConfig,
) AccountService {
	return &accountService{
		repo:     repo,
		emails:   emails,
		auth:     auth,
		sessions: sessions,
		authCfg:  authCfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

func (s *accountService) Register(in RegisterInput) error {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("lookup account: %w", err)
	}
	if existing != nil {
		return ErrDuplicateAccount
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return err
	}

	token, err := utils.NewToken(32)
	if err != nil {
		return err
	}
	exp := time.Now().Add(s.authCfg.VerificationTTL())

	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = "USD"
	}

	account := &models.Account{
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		Avatar:         in.Avatar,
		Currency:       currency,
		EmailVerified:  false,
		VerifyToken:    &token,
		VerifyTokenExp: &exp,
	}
	if err := s.repo.Create(account); err != nil {
		// two concurrent registrations can both pass the lookup; the unique
		// index on email settles it
		if isUniqueViolation(err) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("create account: %w", err)
	}

	if err := s.emails.SendVerificationEmail(email, name, token); err != nil {
		// redelivery stays available via resend
		log.Printf("[auth][register] warning: failed to send verification email to %s: %v", email, err)
	}
	return nil
}

func (s *accountService) VerifyEmail(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	ok, err := s.repo.RedeemVerification(token, time.Now())
	if err != nil {
		return fmt.Errorf("redeem verification: %w", err)
	}
	if !ok {
		return ErrInvalidOrExpiredToken
	}
	return nil
}

func (s *accountService) ResendVerification(email string) (ResendOutcome, error) {
	email = normalizeEmail(email)
	if email == "" {
		return 0, fmt.Errorf("%w: email is required", ErrValidation)
	}

	account, err := s.repo.GetByEmail(email)
	if err != nil {
		return 0, fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		// don't leak existence
		log.Printf("[auth][resend] request for unknown email %q", email)
		return ResendSentIfExists, nil
	}
	if account.EmailVerified {
		return ResendAlreadyVerified, nil
	}

	// rotate: the previous token stops matching as soon as this lands
	token, err := utils.NewToken(32)
	if err != nil {
		return 0, err
	}
	exp := time.Now().Add(s.authCfg.VerificationTTL())
	if err := s.repo.SetVerification(account.ID, token, exp); err != nil {
		return 0, fmt.Errorf("rotate verification token: %w", err)
	}

	if err := s.emails.SendVerificationEmail(account.Email, account.Name, token); err != nil {
		log.Printf("[auth][resend] warning: failed to send verification email to %s: %v", account.Email, err)
	}
	return ResendSent, nil
}

func (s *accountService) Login(email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	account, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	// same error for unknown email and bad password
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	// verification gate comes first: an unverified account never gets a
	// session, no matter what password was supplied
	if !account.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	if !s.auth.ComparePassword(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	log.Printf("[auth][login] success id=%d", account.ID)
	return &LoginResult{Token: token, User: account.Profile()}, nil
}

// GoogleLogin trusts the upstream identity provider: no local password check,
// and accounts created here start out verified.
func (s *accountService) GoogleLogin(email, name, avatar string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	account, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		// unusable local placeholder; the password path opens only via reset
		placeholder, err := utils.NewToken(20)
		if err != nil {
			return nil, err
		}
		hash, err := s.auth.HashPassword(placeholder)
		if err != nil {
			return nil, err
		}
		account = &models.Account{
			Name:          strings.TrimSpace(name),
			Email:         email,
			PasswordHash:  hash,
			Avatar:        avatar,
			Currency:      "USD",
			EmailVerified: true,
		}
		if err := s.repo.Create(account); err != nil {
			if isUniqueViolation(err) {
				// lost the race to a concurrent login; reuse the winner's row
				if account, err = s.repo.GetByEmail(email); err != nil || account == nil {
					return nil, fmt.Errorf("lookup account after race: %w", err)
				}
			} else {
				return nil, fmt.Errorf("create account: %w", err)
			}
		} else {
			log.Printf("[auth][google] created account id=%d", account.ID)
		}
	}

	token, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &LoginResult{Token: token, User: account.Profile()}, nil
}

func (s *accountService) GetProfile(accountID int) (*models.Account, error) {
	return s.repo.GetByID(accountID)
}

func (s *accountService) UpdateProfile(accountID int, name, currency, avatar string) (*models.Profile, error) {
	account, err := s.repo.GetByID(accountID)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		return nil, nil
	}

	if v := strings.TrimSpace(name); v != "" {
		account.Name = v
	}
	if v := strings.TrimSpace(currency); v != "" {
		account.Currency = v
	}
	if avatar != "" {
		account.Avatar = avatar
	}

	if err := s.repo.UpdateProfile(account); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	p := account.Profile()
	return &p, nil
}
