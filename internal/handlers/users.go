package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/pinet/pinet/internal/database"
	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/middleware"
	"github.com/pinet/pinet/internal/models"
)

const wrongCredentials = "wrong username or password"

func Register(store database.Store, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/register"
		defer handlePanic(c, log, route)

		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, route, "password hash failed")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user := models.User{
			Username:     strings.TrimSpace(req.Username),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: string(hash),
		}
		if err := store.CreateUser(ctx, &user); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				respondWithError(c, log, http.StatusConflict, route, "username or email already registered")
				return
			}
			respondWithError(c, log, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] user registered: %s", route, user.Username)
		c.JSON(http.StatusCreated, models.RegisterResponse{ID: user.ID})
	}
}

func Login(store database.Store, log *logger.Logger, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/login"
		defer handlePanic(c, log, route)

		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := store.FindUserByUsername(ctx, strings.TrimSpace(req.Username))
		if errors.Is(err, database.ErrNotFound) {
			respondWithError(c, log, http.StatusBadRequest, route, wrongCredentials)
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, log, http.StatusBadRequest, route, wrongCredentials)
			return
		}

		token, err := middleware.IssueUserToken(user.Username, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		log.Printf("[%s] user login succeeded: %s", route, user.Username)
		c.JSON(http.StatusOK, models.LoginResponse{
			ID:       user.ID,
			Username: user.Username,
			Token:    token,
		})
	}
}

// GetMe echoes the identity carried by the bearer token.
func GetMe(store database.Store, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/me"
		defer handlePanic(c, log, route)

		username, ok := middleware.Username(c)
		if !ok {
			respondWithError(c, log, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := store.FindUserByUsername(ctx, username)
		if errors.Is(err, database.ErrNotFound) {
			respondWithError(c, log, http.StatusNotFound, route, "user not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, models.LoginResponse{ID: user.ID, Username: user.Username})
	}
}
