package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hqportal/gatehouse/internal/infra/security"
	"github.com/hqportal/gatehouse/internal/transport/http/middleware"
	"github.com/hqportal/gatehouse/internal/usecase"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth   *usecase.AuthService
	tokens *security.TokenManager
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, tokens *security.TokenManager) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

// RegisterRoutes binds authentication routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.login)
	r.POST("/change-password", middleware.RequireAuth(h.tokens), h.changePassword)
	r.GET("/me", middleware.RequireAuth(h.tokens), h.me)
}

// login verifies the supplied credentials. A session token is issued for
// every successful verification, including the restricted
// must_set_password and must_change_password outcomes; the restricted
// states only permit a change-password call.
func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name is required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusUnauthorized, Message: "invalid credentials"},
			{Err: usecase.ErrPasswordWrong, Status: http.StatusUnauthorized, Message: "invalid credentials"},
			{Err: usecase.ErrAccountLocked, Status: http.StatusLocked, Message: "account is locked; contact an administrator"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.tokens.Sign(result.User.Identity())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to issue session token"))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		Status:      result.Status,
		User:        newUserSummary(result.User),
	})
}

// changePassword replaces the caller's own password after re-verifying the
// current one and checking the replacement against the runtime policy.
func (h *AuthHandler) changePassword(c *gin.Context) {
	claims, ok := middleware.GetSessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid change-password payload"))
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), claims.Username, req.OldPassword, req.NewPassword)
	if err != nil {
		var violation *security.PolicyViolation
		if errors.As(err, &violation) {
			c.JSON(http.StatusBadRequest, PolicyViolationResponse{
				Error:     violation.Message,
				Code:      string(violation.Code),
				MinLength: violation.MinLength,
				TraceID:   middleware.GetTraceID(c),
			})
			return
		}

		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrPasswordWrong, Status: http.StatusUnauthorized, Message: "current password is wrong"},
		}, http.StatusInternalServerError, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}

// me echoes the authenticated identity carried by the session token.
func (h *AuthHandler) me(c *gin.Context) {
	claims, ok := middleware.GetSessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, claims.Identity())
}
