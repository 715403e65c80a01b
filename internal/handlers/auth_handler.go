package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"expensetracker/internal/services"
)

const maxAvatarSize = 20 << 20 // 20 MB

type AuthHandler struct {
	accounts   services.AccountService
	resets     services.PasswordResetService
	uploadsDir string
	backendURL string
}

func NewAuthHandler(accounts services.AccountService, resets services.PasswordResetService, uploadsDir, backendURL string) *AuthHandler {
	return &AuthHandler{
		accounts:   accounts,
		resets:     resets,
		uploadsDir: uploadsDir,
		backendURL: backendURL,
	}
}

// saveAvatar stores an optional multipart avatar and returns its public URL.
// Absent file is not an error.
func (h *AuthHandler) saveAvatar(c *gin.Context) (string, error) {
	file, err := c.FormFile("avatar")
	if err != nil {
		return "", nil
	}
	if file.Size > maxAvatarSize {
		return "", fmt.Errorf("%w: avatar exceeds 20MB", services.ErrValidation)
	}
	name := fmt.Sprintf("avatar_%s%s", uuid.NewString(), filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadsDir, name)); err != nil {
		return "", fmt.Errorf("save avatar: %w", err)
	}
	return fmt.Sprintf("%s/uploads/%s", h.backendURL, name), nil
}

// @Summary      Register a new account
// @Description  Creates an unverified account and emails a verification link
// @Tags         Auth
// @Accept       mpfd
// @Produce      json
// @Param        name      formData  string  true   "Display name"
// @Param        email     formData  string  true   "Email"
// @Param        password  formData  string  true   "Password"
// @Param        currency  formData  string  false  "Preferred currency"
// @Param        avatar    formData  file    false  "Avatar image"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	avatar, err := h.saveAvatar(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	in := services.RegisterInput{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Currency: c.PostForm("currency"),
		Avatar:   avatar,
	}
	if err := h.accounts.Register(in); err != nil {
		log.Printf("[auth][register] failed for %q: %v", in.Email, err)
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registered! Check email to verify."})
}

// @Summary      Verify email address
// @Tags         Auth
// @Produce      json
// @Param        token  path  string  true  "Verification token"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/auth/verify/{token} [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.accounts.VerifyEmail(c.Param("token")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

// @Summary      Resend verification email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/auth/resend-verify [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email required"})
		return
	}

	outcome, err := h.accounts.ResendVerification(req.Email)
	if err != nil {
		serviceError(c, err)
		return
	}
	switch outcome {
	case services.ResendAlreadyVerified:
		c.JSON(http.StatusOK, gin.H{"message": "Already verified"})
	case services.ResendSent:
		c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
	default:
		// same shape as a real send, so the endpoint doesn't reveal whether
		// the account exists
		c.JSON(http.StatusOK, gin.H{"message": "Email sent if account exists"})
	}
}

// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      object  true  "Email and password"
// @Success      200  {object}  services.LoginResult
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      Google login
// @Description  Creates or matches an account using identity asserted by Google
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  services.LoginResult
// @Failure      400  {object}  map[string]string
// @Router       /api/auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.accounts.GoogleLogin(req.Email, req.Name, req.Picture)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      Request a password reset OTP
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/forgot [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if err := h.resets.RequestReset(req.Email); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If email exists, OTP sent"})
}

// @Summary      Reset password with OTP
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/auth/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email           string `json:"email"`
		OTP             string `json:"otp"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resets.ConfirmReset(req.Email, req.OTP, req.Password, req.ConfirmPassword); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

// @Summary      Current profile
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Profile
// @Failure      404  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	account, err := h.accounts.GetProfile(getUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, account.Profile())
}

// @Summary      Update profile
// @Tags         Auth
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Profile
// @Failure      404  {object}  map[string]string
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	avatar, err := h.saveAvatar(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	profile, err := h.accounts.UpdateProfile(
		getUserID(c),
		c.PostForm("name"),
		c.PostForm("currency"),
		avatar,
	)
	if err != nil {
		serviceError(c, err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
