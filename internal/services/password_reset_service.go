package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"expensetracker/internal/config"
	"expensetracker/internal/repositories"
	"expensetracker/internal/utils"
)

type PasswordResetService interface {
	RequestReset(email string) error
	ConfirmReset(email, otp, newPassword, confirmPassword string) error
}

type passwordResetService struct {
	repo    repositories.AccountRepository
	emails  EmailService
	auth    AuthService
	authCfg config.AuthConfig
}

func NewPasswordResetService(
	repo repositories.AccountRepository,
	emails EmailService,
	auth AuthService,
	authCfg config.AuthConfig,
) PasswordResetService {
	return &passwordResetService{
		repo:    repo,
		emails:  emails,
		auth:    auth,
		authCfg: authCfg,
	}
}

func (s *passwordResetService) RequestReset(email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	account, err := s.repo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		// don't leak existence; no mail goes out either
		log.Printf("[password-reset] request for unknown email %q", email)
		return nil
	}

	otp, err := utils.NewOTP()
	if err != nil {
		return err
	}
	exp := time.Now().Add(s.authCfg.OTPTTL())
	// overwrites any outstanding OTP; only the newest one matches from here on
	if err := s.repo.SetResetOTP(account.ID, otp, exp); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	// unlike registration, the user has no other way to get this code, so a
	// delivery failure must reach the caller
	if err := s.emails.SendResetOTPEmail(account.Email, otp); err != nil {
		log.Printf("[password-reset] failed to send OTP to %s: %v", account.Email, err)
		return ErrNotificationDelivery
	}
	return nil
}

func (s *passwordResetService) ConfirmReset(email, otp, newPassword, confirmPassword string) error {
	email = normalizeEmail(email)
	otp = strings.TrimSpace(otp)
	if email == "" || otp == "" || newPassword == "" || confirmPassword == "" {
		return fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if newPassword != confirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	account, err := s.repo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		return ErrNoOutstandingRequest
	}
	if account.ResetOTP == nil || account.ResetOTPExp == nil {
		return ErrNoOutstandingRequest
	}
	// a failed attempt must not consume the OTP, so mismatch and expiry are
	// plain reads; only success clears the fields
	if *account.ResetOTP != otp {
		return ErrInvalidOTP
	}
	if time.Now().After(*account.ResetOTPExp) {
		return ErrExpiredOTP
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	ok, err := s.repo.CompleteReset(account.ID, otp, hash)
	if err != nil {
		return fmt.Errorf("complete reset: %w", err)
	}
	if !ok {
		// the stored OTP changed between our read and the update; whoever
		// rotated it owns the current code
		return ErrInvalidOTP
	}
	log.Printf("[password-reset] password changed for id=%d", account.ID)
	return nil
}
