package handlers

import (
	"errors"
	"log"
	"net/http"

	"memeboard/internal/apperror"
	"memeboard/internal/middleware"
	"memeboard/internal/models"
	"memeboard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type changePasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Me returns the logged in user, or null.
func (h *AuthHandler) Me(c *gin.Context) {
	id := middleware.CurrentUserID(c)
	if id == 0 {
		null(c)
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if errors.Is(err, apperror.ErrNotFound) {
		null(c)
		return
	}
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.VisibleTo(id))
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	user, fields, err := h.users.Register(c.Request.Context(), in)
	h.userResponse(c, user, fields, err)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	user, fields, err := h.users.Login(c.Request.Context(), in.UsernameOrEmail, in.Password)
	h.userResponse(c, user, fields, err)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("Failed to clear session: %v", err)
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ForgotPassword always reports success.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.users.ForgotPassword(c.Request.Context(), in.Email); err != nil {
		log.Printf("Forgot password for %s failed: %v", in.Email, err)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in changePasswordRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	user, fields, err := h.users.ChangePassword(c.Request.Context(), in.Token, in.NewPassword)
	h.userResponse(c, user, fields, err)
}

// userResponse answers {errors} or {user}, logging the user in on success.
func (h *AuthHandler) userResponse(c *gin.Context, user *models.User, fields []apperror.FieldError, err error) {
	if err != nil {
		RenderError(c, err)
		return
	}
	if fields != nil {
		c.JSON(http.StatusOK, gin.H{"errors": fields})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.VisibleTo(user.ID)})
}
