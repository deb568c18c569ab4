package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tokopos/internal/domain/identity"
	"tokopos/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and user management endpoints.
type AuthHandler struct {
	*BaseHandler
	users *identity.Service
	jwt   *identity.JWTService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, users *identity.Service, jwt *identity.JWTService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, users: users, jwt: jwt}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.users.Verify(ctx, req.Username, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	token, expiresAt, err := h.jwt.GenerateAccessToken(user)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        dto.FromUser(user),
	})
}

// ListUsers handles GET /users (admin)
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.FromUser(&users[i]))
	}
	h.OK(c, out)
}

// CreateUser handles POST /users (admin)
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, user.ID)
}

// ChangePassword handles PUT /users/:id/password (admin)
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), id, req.Password); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "password diperbarui")
}

// Rename handles PUT /users/:id/username (admin)
func (h *AuthHandler) Rename(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.RenameUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.users.Rename(c.Request.Context(), id, req.Username); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "username diperbarui")
}

// SetRole handles PUT /users/:id/role (admin)
func (h *AuthHandler) SetRole(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.SetRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.users.SetRole(c.Request.Context(), id, req.Role); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "role diperbarui")
}

// DeleteUser handles DELETE /users/:id (admin)
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
