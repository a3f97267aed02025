package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pinet/pinet/internal/database"
	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/middleware"
	"github.com/pinet/pinet/internal/models"
)

// GetPins lists every pin in insertion order. Optional page/limit query
// values return a window of that list.
func GetPins(store database.Store, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /pins"
		defer handlePanic(c, log, route)

		log.Printf("[%s] hit", route)

		page, limit, paged, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, log, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pins, err := store.ListPins(ctx)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, route, "db error")
			return
		}
		if paged {
			pins = paginate(pins, page, limit)
		}

		log.Printf("[%s] returning %d pins", route, len(pins))
		c.JSON(http.StatusOK, pins)
	}
}

// CreatePin stores a new pin. When the request carries a token, the body's
// username must be the token's.
func CreatePin(store database.Store, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /pins"
		defer handlePanic(c, log, route)

		log.Printf("[%s] hit", route)

		var req models.CreatePinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		if username, ok := middleware.Username(c); ok && username != req.Owner() {
			respondWithError(c, log, http.StatusForbidden, route, "username does not match token")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pin := models.Pin{
			Username: req.Owner(),
			Title:    req.Title,
			Desc:     req.Desc,
			Rating:   req.Rating,
			Lat:      req.Lat,
			Long:     req.Long,
		}
		if err := store.CreatePin(ctx, &pin); err != nil {
			respondWithError(c, log, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] pin %s created by %s", route, pin.ID, pin.Username)
		c.JSON(http.StatusCreated, pin)
	}
}
