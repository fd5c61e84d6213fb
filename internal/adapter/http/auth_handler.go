package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ltp2209/stockpos-api/internal/adapter/http/middleware"
	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/logging"
	"github.com/ltp2209/stockpos-api/internal/security"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type AuthHandler struct {
	users  usecase.UserStore
	tokens security.TokenConfig
}

func NewAuthHandler(users usecase.UserStore, tokens security.TokenConfig) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerReq struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	DOB        string `json:"dob"` // YYYY-MM-DD
	Role       string `json:"role"`
	AvatarURL  string `json:"avatarUrl"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	var dob *time.Time
	if req.DOB != "" {
		t, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dob must be YYYY-MM-DD"})
			return
		}
		dob = &t
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		return
	}

	u := &domain.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		DOB:          dob,
		Role:         req.Role,
		AvatarURL:    req.AvatarURL,
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		status, msg := errStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	token, err := security.MintToken(h.tokens, u)
	if err != nil {
		logging.From(c).Error("token mint failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	u, err := h.users.GetByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil || !security.CheckPassword(u.PasswordHash, req.Password) {
		// same answer for unknown email and wrong password
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := security.MintToken(h.tokens, u)
	if err != nil {
		logging.From(c).Error("token mint failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	u, err := h.users.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		status, msg := errStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateProfileReq struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	DOB        string `json:"dob"`
	AvatarURL  string `json:"avatarUrl"`
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	var dob *time.Time
	if req.DOB != "" {
		t, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dob must be YYYY-MM-DD"})
			return
		}
		dob = &t
	}

	id := middleware.IdentityFrom(c)
	u := &domain.User{
		ID:         id.UserID,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		DOB:        dob,
		AvatarURL:  req.AvatarURL,
	}
	if err := h.users.UpdateProfile(c.Request.Context(), u); err != nil {
		status, msg := errStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new password required"})
		return
	}

	id := middleware.IdentityFrom(c)
	u, err := h.users.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		status, msg := errStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	if !security.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password incorrect"})
		return
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update password"})
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), id.UserID, hash); err != nil {
		status, msg := errStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
