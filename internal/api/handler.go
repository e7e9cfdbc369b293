package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storage-reservation-backend/config"
	"storage-reservation-backend/internal/notification"
	"storage-reservation-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store store.Store
	mail  *notification.WorkerPool
	cfg   *config.Config
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, mail *notification.WorkerPool, cfg *config.Config) *Handler {
	return &Handler{
		store: s,
		mail:  mail,
		cfg:   cfg,
	}
}

// storeError maps store sentinel errors to HTTP responses. Unexpected
// faults are logged and answered with a generic message.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("store error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred. Please try again later."})
	}
}
