package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	core "document-downloader/api/internal/service"
	"document-downloader/api/pkg/config"
)

// AuthHandler serves admin authentication
type AuthHandler struct {
	cfg config.AuthConfig
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the login result
type LoginResponse struct {
	Token   string `json:"token,omitempty"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login handles POST /api/auth/login. The admin account lives in
// configuration; there is a single operator.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.FailWithMessage(c, core.ErrInvalidParam, "invalid request body")
		return
	}

	if req.Username != h.cfg.AdminUser || !core.VerifyPassword(req.Password, h.cfg.AdminPasswordHash) {
		log.Debug().Str("username", req.Username).Msg("Login rejected")
		core.Success(c, LoginResponse{Success: false, Message: "invalid username or password"})
		return
	}

	token, err := core.CreateAccessToken(map[string]interface{}{
		"sub":  req.Username,
		"role": "admin",
	}, h.cfg.SecretKey, time.Duration(h.cfg.AccessTokenExpireMinutes)*time.Minute)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create token")
		core.FailWithMessage(c, core.ErrInternalServer, "token generation failed")
		return
	}

	core.Success(c, LoginResponse{Success: true, Token: token, Message: "login ok"})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	core.Success(c, gin.H{"success": true})
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	claims, exists := c.Get("claims")
	if !exists {
		core.FailWithCode(c, core.ErrUnauthorized)
		return
	}

	claimsMap := claims.(map[string]interface{})
	core.Success(c, gin.H{
		"username": claimsMap["sub"],
		"role":     "admin",
	})
}
