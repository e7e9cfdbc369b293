package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storage-reservation-backend/internal/mw"
	"storage-reservation-backend/internal/notification"
	"storage-reservation-backend/internal/store"
)

// storageItemView is the listing shape for ordinary users; the audit
// fields from the handler view are withheld.
type storageItemView struct {
	ItemType              string `json:"itemType"`
	ItemName              string `json:"itemName"`
	SerialNumber          string `json:"serialNumber"`
	Available             bool   `json:"available"`
	State                 string `json:"state"`
	ProjectName           string `json:"projectName"`
	AdditionalInformation string `json:"additionalInformation"`
}

type storageGroupView struct {
	Category string            `json:"category"`
	Items    []storageItemView `json:"items"`
}

// GetStorage handles GET /api/storage for ordinary users.
func (h *Handler) GetStorage(c *gin.Context) {
	groups, err := h.store.ListStorageGrouped(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}

	views := make([]storageGroupView, 0, len(groups))
	for _, group := range groups {
		view := storageGroupView{Category: group.Category, Items: make([]storageItemView, 0, len(group.Items))}
		for _, item := range group.Items {
			view.Items = append(view.Items, storageItemView{
				ItemType:              item.ItemType,
				ItemName:              item.ItemName,
				SerialNumber:          item.SerialNumber,
				Available:             item.Available,
				State:                 item.State,
				ProjectName:           item.ProjectName,
				AdditionalInformation: item.AdditionalInformation,
			})
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

// GetStorageForHandler handles GET /api/storage/handler; the full rows
// including audit fields.
func (h *Handler) GetStorageForHandler(c *gin.Context) {
	groups, err := h.store.ListStorageGrouped(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

type addStorageItemRequest struct {
	ItemType              string `json:"itemType" binding:"required"`
	ItemName              string `json:"itemName" binding:"required"`
	SerialNumber          string `json:"serialNumber"`
	AdditionalInformation string `json:"additionalInformation"`
}

// AddStorageItem handles POST /api/storage/items.
func (h *Handler) AddStorageItem(c *gin.Context) {
	var req addStorageItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := mw.Claims(c)
	addedBy := claims.Email
	if user, err := h.store.GetUserByID(c.Request.Context(), claims.UserID); err == nil {
		addedBy = user.FullName()
	}

	item, err := h.store.AddStorageItem(c.Request.Context(), store.AddStorageItemInput{
		ItemType:              req.ItemType,
		ItemName:              req.ItemName,
		SerialNumber:          req.SerialNumber,
		AdditionalInformation: req.AdditionalInformation,
		AddedBy:               addedBy,
	})
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "New item '" + item.ItemName + "' added successfully to the storage",
		"item":    item,
	})
}

type fulfillReservationRequest struct {
	ReservationID int64              `json:"reservationId" binding:"required"`
	Note          string             `json:"note"`
	ShelfIDs      []string           `json:"shelfIds"`
	Items         []store.ChosenItem `json:"items" binding:"dive"`
}

// FulfillReservation handles POST /api/storage/fulfill: the handler's
// shelf and serialized-item choices are bound to the reservation in one
// transaction, then the requester is notified. A notification failure
// is reported in the response but never undoes the fulfillment.
func (h *Handler) FulfillReservation(c *gin.Context) {
	var req fulfillReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := mw.Claims(c)
	result, err := h.store.FulfillReservation(c.Request.Context(), store.FulfillmentInput{
		ReservationID: req.ReservationID,
		HandlerID:     claims.UserID,
		Note:          req.Note,
		ShelfIDs:      req.ShelfIDs,
		Items:         req.Items,
	})
	if err != nil {
		storeError(c, err)
		return
	}

	message := "Reservation handled successfully."
	if result.NotifyRequester {
		msg := notification.ReservationReadyMessage(result.Reservation, result.OriginalItems, result.RequesterEmail)
		if err := h.mail.SendNow(msg); err != nil {
			message += " Unable to send email notification."
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     message,
		"reservation": result.Reservation,
	})
}

// shelfStatusView adds display formatting for the pickup date.
type shelfStatusView struct {
	store.ShelfStatus
	PickupDateDisplay string `json:"pickupDateDisplay,omitempty"`
}

// GetShelfStatus handles GET /api/shelves. The registry is reconciled
// against the canonical id list before every read.
func (h *Handler) GetShelfStatus(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.store.SyncShelves(ctx, h.cfg.Shelves.IDs); err != nil {
		storeError(c, err)
		return
	}

	statuses, err := h.store.ListShelfStatus(ctx)
	if err != nil {
		storeError(c, err)
		return
	}

	views := make([]shelfStatusView, 0, len(statuses))
	for _, status := range statuses {
		view := shelfStatusView{ShelfStatus: status}
		if status.PickupDate != nil {
			view.PickupDateDisplay = status.PickupDate.Format("02.01.2006 15:04")
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}
