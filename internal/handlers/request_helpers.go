package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pinet/pinet/internal/logger"
)

func handlePanic(c *gin.Context, log *logger.Logger, route string) {
	if r := recover(); r != nil {
		log.Error(fmt.Sprintf("[%s] panic recovered", route), "panic", r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, log *logger.Logger, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func respondValidationError(c *gin.Context, log *logger.Logger, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min":
				details = append(details, fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param()))
			case "max":
				details = append(details, fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param()))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		log.Printf("[%s] validation failed: %s", route, strings.Join(details, "; "))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	log.Printf("[%s] invalid body: %v", route, err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": []string{err.Error()}})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
