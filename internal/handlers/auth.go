package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/eventgrove/eventgrove/internal/auth"
	"github.com/eventgrove/eventgrove/internal/models"
	"github.com/eventgrove/eventgrove/internal/store"
)

// RegisterAuthRoutes registers the public register/login endpoints.
// Both answer with a signed bearer token plus the public user view.
func RegisterAuthRoutes(r gin.IRoutes, st store.Store, tm *auth.TokenManager, bcryptCost int) {
	r.POST("/register", func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Name == "" || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "please fill all required fields"})
			return
		}

		hash, err := auth.HashPassword(req.Password, bcryptCost)
		if err != nil {
			log.WithError(err).Error("failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		user := store.User{
			Name:         req.Name,
			Email:        req.Email,
			PhotoURL:     req.PhotoURL,
			PasswordHash: hash,
		}
		if err := st.CreateUser(c.Request.Context(), &user); err != nil {
			if errors.Is(err, store.ErrEmailTaken) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
				return
			}
			log.WithError(err).Error("failed to create user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		writeAuthResponse(c, http.StatusCreated, tm, user)
	})

	r.POST("/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "please provide email and password"})
			return
		}

		user, err := st.GetUserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
				return
			}
			log.WithError(err).Error("failed to look up user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}
		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}

		writeAuthResponse(c, http.StatusOK, tm, user)
	})
}

func writeAuthResponse(c *gin.Context, status int, tm *auth.TokenManager, user store.User) {
	token, err := tm.Issue(user)
	if err != nil {
		log.WithError(err).Error("failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(status, models.AuthResponse{
		Token: token,
		User: models.UserInfo{
			ID:       user.ID,
			Name:     user.Name,
			Email:    user.Email,
			PhotoURL: user.PhotoURL,
		},
	})
}
