package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/infra/security"
	"github.com/hqportal/gatehouse/internal/transport/http/middleware"
	"github.com/hqportal/gatehouse/internal/usecase"
)

// UserHandler exposes the role-scoped account listings. Residential
// accounts are visible to admins and residential users, commercial
// accounts to admins and commercial users.
type UserHandler struct {
	users  *usecase.UserService
	tokens *security.TokenManager
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService, tokens *security.TokenManager) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// RegisterRoutes binds the listing routes behind authentication.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := middleware.RequireAuth(h.tokens)

	r.GET("/users/residential",
		auth,
		middleware.RequireRole(domain.RoleAdmin, domain.RoleResidential),
		h.listRole(domain.RoleResidential),
	)
	r.GET("/users/commercial",
		auth,
		middleware.RequireRole(domain.RoleAdmin, domain.RoleCommercial),
		h.listRole(domain.RoleCommercial),
	)
}

func (h *UserHandler) listRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := h.users.ListByRole(c.Request.Context(), role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
			return
		}

		c.JSON(http.StatusOK, newUserSummaries(users))
	}
}
