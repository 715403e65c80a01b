package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

type stubAccounts struct {
	registerErr   error
	verifyErr     error
	resendOutcome services.ResendOutcome
	resendErr     error
	loginResult   *services.LoginResult
	loginErr      error
	account       *models.Account
	profile       *models.Profile
}

func (s *stubAccounts) Register(services.RegisterInput) error { return s.registerErr }
func (s *stubAccounts) VerifyEmail(string) error { return s.verifyErr }
func (s *stubAccounts) ResendVerification(string) (services.ResendOutcome, error) {
	return s.resendOutcome, s.resendErr
}
func (s *stubAccounts) Login(string, string) (*services.LoginResult, error) {
	return s.loginResult, s.loginErr
}
func (s *stubAccounts) GoogleLogin(string, string, string) (*services.LoginResult, error) {
	return s.loginResult, s.loginErr
}
func (s *stubAccounts) GetProfile(int) (*models.Account, error) { return s.account, nil }
func (s *stubAccounts) UpdateProfile(int, string, string, string) (*models.Profile, error) {
	return s.profile, nil
}

type stubResets struct {
	requestErr error
	confirmErr error
}

func (s *stubResets) RequestReset(string) error { return s.requestErr }
func (s *stubResets) ConfirmReset(string, string, string, string) error { return s.confirmErr }

func newAuthRouter(accounts services.AccountService, resets services.PasswordResetService, sessions services.SessionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(accounts, resets, "testdata", "http://localhost:4000")

	r := gin.New()
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.GET("/verify/:token", h.VerifyEmail)
		auth.POST("/resend-verify", h.ResendVerification)
		auth.POST("/login", h.Login)
		auth.POST("/google", h.GoogleLogin)
		auth.POST("/forgot", h.ForgotPassword)
		auth.POST("/reset", h.ResetPassword)
	}
	protected := r.Group("/api/auth")
	protected.Use(middleware.AuthMiddleware(sessions))
	{
		protected.GET("/me", h.Me)
	}
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testSessions() services.SessionService {
	return services.NewSessionService("test-secret", 7*24*time.Hour)
}

func TestLoginHandler(t *testing.T) {
	t.Run("invalid credentials map to 400", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{loginErr: services.ErrInvalidCredentials}, &stubResets{}, testSessions())
		w := postJSON(t, r, "/api/auth/login", gin.H{"email": "a@x.com", "password": "bad"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})

	t.Run("unverified account maps to 403", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{loginErr: services.ErrEmailNotVerified}, &stubResets{}, testSessions())
		w := postJSON(t, r, "/api/auth/login", gin.H{"email": "a@x.com", "password": "pw"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "verify your email")
	})

	t.Run("success returns token and user", func(t *testing.T) {
		stub := &stubAccounts{loginResult: &services.LoginResult{
			Token: "jwt-token",
			User:  models.Profile{ID: 1, Name: "Ana", Email: "a@x.com"},
		}}
		r := newAuthRouter(stub, &stubResets{}, testSessions())
		w := postJSON(t, r, "/api/auth/login", gin.H{"email": "a@x.com", "password": "pw"})
		require.Equal(t, http.StatusOK, w.Code)

		var got services.LoginResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "jwt-token", got.Token)
		assert.Equal(t, "Ana", got.User.Name)
	})
}

func TestRegisterHandler(t *testing.T) {
	t.Run("duplicate maps to 400", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{registerErr: services.ErrDuplicateAccount}, &stubResets{}, testSessions())
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader("name=Ana&email=a@x.com&password=pw"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "User already exists")
	})

	t.Run("success", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{}, &stubResets{}, testSessions())
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader("name=Ana&email=a@x.com&password=pw"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Check email")
	})
}

func TestVerifyEmailHandler(t *testing.T) {
	t.Run("bad token maps to 400", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{verifyErr: services.ErrInvalidOrExpiredToken}, &stubResets{}, testSessions())
		req := httptest.NewRequest(http.MethodGet, "/api/auth/verify/deadbeef", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired link")
	})

	t.Run("success", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{}, &stubResets{}, testSessions())
		req := httptest.NewRequest(http.MethodGet, "/api/auth/verify/sometoken", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestResendVerificationHandler(t *testing.T) {
	cases := []struct {
		name    string
		outcome services.ResendOutcome
		message string
	}{
		{"unknown email stays generic", services.ResendSentIfExists, "Email sent if account exists"},
		{"already verified", services.ResendAlreadyVerified, "Already verified"},
		{"sent", services.ResendSent, "Verification email sent"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newAuthRouter(&stubAccounts{resendOutcome: tc.outcome}, &stubResets{}, testSessions())
			w := postJSON(t, r, "/api/auth/resend-verify", gin.H{"email": "a@x.com"})
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
		})
	}

	t.Run("missing email", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{}, &stubResets{}, testSessions())
		w := postJSON(t, r, "/api/auth/resend-verify", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPasswordResetHandlers(t *testing.T) {
	t.Run("forgot always answers generically", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{}, &stubResets{}, testSessions())
		w := postJSON(t, r, "/api/auth/forgot", gin.H{"email": "whoever@x.com"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "If email exists, OTP sent")
	})

	t.Run("delivery failure maps to 500", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{}, &stubResets{requestErr: services.ErrNotificationDelivery}, testSessions())
		w := postJSON(t, r, "/api/auth/forgot", gin.H{"email": "a@x.com"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to send OTP")
	})

	t.Run("reset error mapping", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
			body   string
		}{
			{services.ErrInvalidOTP, http.StatusBadRequest, "Invalid OTP"},
			{services.ErrExpiredOTP, http.StatusBadRequest, "OTP expired"},
			{services.ErrNoOutstandingRequest, http.StatusBadRequest, "Request OTP again"},
		}
		for _, tc := range cases {
			r := newAuthRouter(&stubAccounts{}, &stubResets{confirmErr: tc.err}, testSessions())
			w := postJSON(t, r, "/api/auth/reset", gin.H{
				"email": "a@x.com", "otp": "123456",
				"password": "new", "confirmPassword": "new",
			})
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.body)
		}
	})

	t.Run("reset success", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{}, &stubResets{}, testSessions())
		w := postJSON(t, r, "/api/auth/reset", gin.H{
			"email": "a@x.com", "otp": "123456",
			"password": "new", "confirmPassword": "new",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestMeHandler(t *testing.T) {
	sessions := testSessions()
	account := &models.Account{ID: 7, Name: "Ana", Email: "a@x.com", PasswordHash: "secret-hash"}

	t.Run("without a token", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{account: account}, &stubResets{}, sessions)
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("with a garbage token", func(t *testing.T) {
		r := newAuthRouter(&stubAccounts{account: account}, &stubResets{}, sessions)
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})

	t.Run("with a valid token the profile comes back sanitized", func(t *testing.T) {
		token, err := sessions.Issue(7)
		require.NoError(t, err)

		r := newAuthRouter(&stubAccounts{account: account}, &stubResets{}, sessions)
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"a@x.com"`)
		assert.NotContains(t, w.Body.String(), "secret-hash")
	})
}
