package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/slidegen/internal/domain/auth"
)

// Register creates an account and signs the user in.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	session, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "register_failed"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// Login exchanges credentials for tokens.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	session, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "login_failed"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// Refresh issues a new token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	session, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, domainError(err, "refresh_failed"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me returns the signed-in user.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, auth.CodeAuthDisabled, "authentication is disabled", nil))
		return
	}
	view, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, domainError(err, "profile_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": view})
}
