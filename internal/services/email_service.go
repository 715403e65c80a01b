package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"expensetracker/internal/config"
)

type EmailService interface {
	SendVerificationEmail(email, name, token string) error
	SendResetOTPEmail(email, otp string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
	urls   config.URLConfig
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string, urls config.URLConfig) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
		urls:   urls,
	}
}

func (s *emailService) SendVerificationEmail(email, name, token string) error {
	webLink := fmt.Sprintf("%s/verify/%s", s.urls.ClientURL, token)
	mobileLink := fmt.Sprintf("%s://verify/%s", s.urls.MobileScheme, token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Verify Your Expense Tracker Account")

	body := fmt.Sprintf(`
		<h2 style="text-align:center;">Verify your email</h2>
		<p style="text-align:center;">
			Hi %s,<br/><br/>
			Please verify your account to continue using <b>Expense Tracker</b>.
		</p>
		<div style="margin-top:30px; text-align:center;">
			<p>Using Web Browser?</p>
			<a href="%s" style="display:inline-block;padding:12px 24px;background:#6d28d9;color:white;text-decoration:none;border-radius:8px;font-weight:bold;">Verify on Website</a>
		</div>
		<div style="height:30px;"></div>
		<div style="text-align:center;">
			<p>Using Mobile App?</p>
			<a href="%s" style="display:inline-block;padding:12px 24px;background:#111827;color:white;text-decoration:none;border-radius:8px;font-weight:bold;">Open in Mobile App</a>
		</div>
		<hr style="margin:30px 0;" />
		<p style="font-size:12px;color:#9ca3af;text-align:center;">
			If you did not create this account, you can safely ignore this email.
		</p>
	`, name, webLink, mobileLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *emailService) SendResetOTPEmail(email, otp string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Expense Tracker Password Reset OTP")

	body := fmt.Sprintf(`
		<h2>Your OTP Code</h2>
		<h1 style="letter-spacing:3px">%s</h1>
		<p>Expires in <b>10 minutes</b>.</p>
	`, otp)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}
