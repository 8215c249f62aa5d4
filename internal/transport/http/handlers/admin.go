package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/infra/security"
	"github.com/hqportal/gatehouse/internal/transport/http/middleware"
	"github.com/hqportal/gatehouse/internal/usecase"
)

// AdminHandler exposes the administrator-only surface: runtime policy
// configuration, account provisioning, lockout recovery, and audit views.
type AdminHandler struct {
	auth   *usecase.AuthService
	users  *usecase.UserService
	config *usecase.ConfigService
	tokens *security.TokenManager
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(
	auth *usecase.AuthService,
	users *usecase.UserService,
	config *usecase.ConfigService,
	tokens *security.TokenManager,
) *AdminHandler {
	return &AdminHandler{auth: auth, users: users, config: config, tokens: tokens}
}

// RegisterRoutes binds the admin routes behind authentication and the
// admin role.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("", middleware.RequireAuth(h.tokens), middleware.RequireRole(domain.RoleAdmin))

	admin.GET("/config", h.getConfig)
	admin.PUT("/config", h.updateConfig)
	admin.POST("/users", h.createUser)
	admin.GET("/users/blocked", h.listBlocked)
	admin.POST("/users/:id/unblock", h.unblock)
	admin.GET("/users/:id/logs", h.userLogs)
}

func (h *AdminHandler) getConfig(c *gin.Context) {
	cfg, err := h.config.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to read configuration"))
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (h *AdminHandler) updateConfig(c *gin.Context) {
	var cfg domain.ServerConfiguration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid configuration payload"))
		return
	}

	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	if err := h.config.Update(c.Request.Context(), cfg); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to update configuration"))
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (h *AdminHandler) createUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Name, domain.Role(strings.ToLower(req.Role)))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrNameTaken, Status: http.StatusConflict, Message: "user name already taken"},
			{Err: usecase.ErrRoleUnknown, Status: http.StatusBadRequest, Message: "unknown role"},
		}, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, newUserSummary(*user))
}

func (h *AdminHandler) listBlocked(c *gin.Context) {
	users, err := h.users.ListBlocked(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list blocked users"))
		return
	}

	c.JSON(http.StatusOK, newUserSummaries(users))
}

// unblock lifts a lockout and responds with the generated one-time
// password. The plaintext appears only in this response; the owner must
// change it at the next login.
func (h *AdminHandler) unblock(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID < 1 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user id"))
		return
	}

	target, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to unblock user")
		return
	}

	result, err := h.auth.Unblock(c.Request.Context(), target.Name)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to unblock user")
		return
	}

	c.JSON(http.StatusOK, UnblockResponse{
		User:              newUserSummary(result.User),
		GeneratedPassword: result.Password,
	})
}

func (h *AdminHandler) userLogs(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID < 1 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user id"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid limit"))
			return
		}
	}

	entries, err := h.auth.RecentLogs(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to read audit log"))
		return
	}

	c.JSON(http.StatusOK, newAuditEntryViews(entries))
}
