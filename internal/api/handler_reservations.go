package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storage-reservation-backend/internal/mw"
	"storage-reservation-backend/internal/notification"
	"storage-reservation-backend/internal/store"
)

// pathID parses an integer id path parameter, answering 400 itself on
// malformed input.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

type createReservationRequest struct {
	ProjectName           string                `json:"projectName" binding:"required"`
	AdditionalInformation string                `json:"additionalInformation"`
	PickupDate            time.Time             `json:"pickupDate" binding:"required"`
	Items                 []store.RequestedItem `json:"items" binding:"required,min=1,dive"`
}

// CreateReservation handles POST /api/reservations.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := mw.Claims(c)
	reservation, err := h.store.CreateReservation(c.Request.Context(), store.CreateReservationInput{
		UserID:                claims.UserID,
		ProjectName:           req.ProjectName,
		AdditionalInformation: req.AdditionalInformation,
		PickupDate:            req.PickupDate,
		Items:                 req.Items,
	})
	if err != nil {
		storeError(c, err)
		return
	}

	// Fan out the new-reservation notice to all storage handlers in the
	// background; a delivery problem never fails the creation.
	recipients, err := h.store.ListHandlerEmails(c.Request.Context())
	if err == nil && len(recipients) > 0 {
		h.mail.Dispatch(notification.ReservationCreatedMessage(reservation, claims.Email, recipients))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Reservation created successfully",
		"reservation": reservation,
	})
}

// GetOwnReservations handles GET /api/reservations.
func (h *Handler) GetOwnReservations(c *gin.Context) {
	claims := mw.Claims(c)
	reservations, err := h.store.ListReservationsForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GetAllReservations handles GET /api/reservations/admin.
func (h *Handler) GetAllReservations(c *gin.Context) {
	reservations, err := h.store.ListAllReservations(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

type patchReservationRequest struct {
	ProjectName           *string    `json:"projectName"`
	AdditionalInformation *string    `json:"additionalInformation"`
	PickupDate            *time.Time `json:"pickupDate"`
	IsActive              *bool      `json:"isActive"`
}

func (h *Handler) patchReservation(c *gin.Context, ownerID *int64) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req patchReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.store.PatchReservation(c.Request.Context(), id, ownerID, store.ReservationPatch{
		ProjectName:           req.ProjectName,
		AdditionalInformation: req.AdditionalInformation,
		PickupDate:            req.PickupDate,
		IsActive:              req.IsActive,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// PatchOwnReservation handles PATCH /api/reservations/:id.
func (h *Handler) PatchOwnReservation(c *gin.Context) {
	claims := mw.Claims(c)
	h.patchReservation(c, &claims.UserID)
}

// PatchAnyReservation handles PATCH /api/reservations/admin/:id.
func (h *Handler) PatchAnyReservation(c *gin.Context) {
	h.patchReservation(c, nil)
}

func (h *Handler) deleteReservation(c *gin.Context, ownerID *int64) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteReservation(c.Request.Context(), id, ownerID); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully"})
}

// DeleteOwnReservation handles DELETE /api/reservations/:id.
func (h *Handler) DeleteOwnReservation(c *gin.Context) {
	claims := mw.Claims(c)
	h.deleteReservation(c, &claims.UserID)
}

// DeleteAnyReservation handles DELETE /api/reservations/admin/:id.
func (h *Handler) DeleteAnyReservation(c *gin.Context) {
	h.deleteReservation(c, nil)
}
