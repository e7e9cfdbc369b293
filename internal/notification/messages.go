package notification

import (
	"fmt"
	"strings"

	"storage-reservation-backend/internal/model"
)

const dateFormat = "Mon 02.01.2006 15:04"

// ReservationCreatedMessage builds the notice sent to every storage
// handler when a new reservation comes in.
func ReservationCreatedMessage(r *model.Reservation, requesterEmail string, recipients []string) Message {
	var items strings.Builder
	for _, item := range r.Items {
		fmt.Fprintf(&items, "- %s / %s\n", item.ItemType, item.ItemName)
	}

	body := fmt.Sprintf(`Hello,

A new equipment reservation has been placed by %s %s.

Reservation details:

Project name: %s
Requested pickup date: %s
Additional information: %s

Requested items:
%s
Requester contact:
Name: %s %s
Email: %s

(reservation created: %s)
`,
		r.FirstName, r.LastName,
		r.ProjectName,
		r.PickupDate.Format(dateFormat),
		r.AdditionalInformation,
		items.String(),
		r.FirstName, r.LastName,
		requesterEmail,
		r.CreatedAt.Format(dateFormat),
	)

	return Message{
		To:      recipients,
		Subject: fmt.Sprintf("New reservation from %s %s", r.FirstName, r.LastName),
		Body:    body,
	}
}

// TemporaryPasswordMessage carries a freshly generated password to an
// account that requested a reset.
func TemporaryPasswordMessage(email, password string) Message {
	body := fmt.Sprintf(`Hello,

You requested a password reset.

Your username: %s
Temporary password: %s

Log in with these credentials and change the password in your account
settings.
`,
		email, password,
	)

	return Message{
		To:      []string{email},
		Subject: "Your password has been reset",
		Body:    body,
	}
}

// ReservationReadyMessage builds the pickup notice sent to the
// requester once a reservation has been fulfilled. originalItems is the
// abstract ask snapshotted before fulfillment replaced it.
func ReservationReadyMessage(r *model.Reservation, originalItems []model.ReservedItem, recipient string) Message {
	var original strings.Builder
	for _, item := range originalItems {
		fmt.Fprintf(&original, "- %s / %s\n", item.ItemType, item.ItemName)
	}

	var assigned strings.Builder
	for _, item := range r.Items {
		fmt.Fprintf(&assigned, "- %s / %s / SN: %s\n", item.ItemType, item.ItemName, item.SerialNumber)
	}

	var shelves strings.Builder
	for _, shelf := range r.Shelves {
		fmt.Fprintf(&shelves, "%s\n", shelf.ID)
	}

	readyDate := "not available"
	if r.ReadyDate != nil {
		readyDate = r.ReadyDate.Format(dateFormat)
	}

	body := fmt.Sprintf(`Hello %s %s,

Your reservation #%d / '%s' has been handled.

# Reservation details: #
Created: %s
Project name: %s
Requested pickup date: %s
Your additional information: %s

Items you requested:
%s
# Pickup details: #
Reservation id: #%d
Handled: %s
Pickup shelves:
%sHandler's note: '%s'
Handler contact: %s

Items to pick up:
%s
Best regards -

%s
Storage handler
`,
		r.FirstName, r.LastName,
		r.ID, r.ProjectName,
		r.CreatedAt.Format(dateFormat),
		r.ProjectName,
		r.PickupDate.Format(dateFormat),
		r.AdditionalInformation,
		original.String(),
		r.ID,
		readyDate,
		shelves.String(),
		r.HandlerNote,
		r.HandlerEmail,
		assigned.String(),
		r.HandlerName,
	)

	return Message{
		To:      []string{recipient},
		Subject: fmt.Sprintf("Your reservation #%d / '%s' has been handled", r.ID, r.ProjectName),
		Body:    body,
	}
}
