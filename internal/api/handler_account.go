package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"storage-reservation-backend/internal/auth"
	"storage-reservation-backend/internal/model"
	"storage-reservation-backend/internal/mw"
	"storage-reservation-backend/internal/notification"
	"storage-reservation-backend/internal/store"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and issues an access token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// An unknown email and a wrong password answer identically.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(h.cfg.Auth.JWTSecret, h.cfg.Auth.TokenTTL,
		user.ID, user.Email, user.IsAdmin, user.IsStorageHandler)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":              token,
		"mustChangePassword": user.MustChangePassword,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword resets a forgotten password without authentication: a
// generated temporary password is stored and emailed to the account,
// which is then forced to pick a new one.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	password, err := auth.GenerateTemporaryPassword(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate password"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user, err := h.store.SetTemporaryPassword(c.Request.Context(), req.Email, string(hash))
	if err != nil {
		storeError(c, err)
		return
	}

	// The temporary password exists nowhere but this email, so a
	// delivery failure must fail the request.
	if err := h.mail.SendNow(notification.TemporaryPasswordMessage(user.Email, password)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send the password email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed successfully. Check your email: '" + user.Email + "'",
	})
}

// GetUserInfo returns the calling user's account details.
func (h *Handler) GetUserInfo(c *gin.Context) {
	claims := mw.Claims(c)
	user, err := h.store.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword replaces the calling user's password.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := mw.Claims(c)
	user, err := h.store.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		storeError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}
	if err := h.store.UpdatePassword(c.Request.Context(), user.ID, string(hash)); err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

type updateOwnInfoRequest struct {
	Username        *string `json:"username"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	EmailsActivated *bool   `json:"emailsActivated"`
}

// UpdateOwnInfo lets a user change their own contact details. Role
// flags are deliberately not accepted here.
func (h *Handler) UpdateOwnInfo(c *gin.Context) {
	var req updateOwnInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := mw.Claims(c)
	user, err := h.store.UpdateUser(c.Request.Context(), claims.UserID, store.UserPatch{
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		EmailsActivated: req.EmailsActivated,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type registerUserRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Username         string `json:"username" binding:"required"`
	FirstName        string `json:"firstName" binding:"required"`
	LastName         string `json:"lastName" binding:"required"`
	Password         string `json:"password" binding:"required,min=8"`
	IsAdmin          bool   `json:"isAdmin"`
	IsStorageHandler bool   `json:"isStorageHandler"`
}

// RegisterUser creates a new account (admin only).
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := model.User{
		Email:            req.Email,
		Username:         req.Username,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		PasswordHash:     string(hash),
		IsAdmin:          req.IsAdmin,
		IsStorageHandler: req.IsStorageHandler,
		EmailsActivated:  true,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers returns every account (admin only).
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type updateUserRequest struct {
	Username         *string `json:"username"`
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	IsAdmin          *bool   `json:"isAdmin"`
	IsStorageHandler *bool   `json:"isStorageHandler"`
	EmailsActivated  *bool   `json:"emailsActivated"`
}

// UpdateUser applies a sparse account update (admin only).
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.UpdateUser(c.Request.Context(), id, store.UserPatch{
		Username:         req.Username,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		IsAdmin:          req.IsAdmin,
		IsStorageHandler: req.IsStorageHandler,
		EmailsActivated:  req.EmailsActivated,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account (admin only).
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
