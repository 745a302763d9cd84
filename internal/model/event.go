package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventReservationCreated  = "reservation.created"
	EventReservationApproved = "reservation.approved"
	EventReservationRejected = "reservation.rejected"
)

type ReservationEvent struct {
	EventID       string    `json:"eventId"`
	Type          string    `json:"type"`
	ReservationID int       `json:"reservationId"`
	BookID        int       `json:"bookId"`
	UserID        int       `json:"userId"`
	Status        Status    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func NewReservationEvent(eventType string, rsv Reservation) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		ReservationID: rsv.ID,
		BookID:        rsv.BookID,
		UserID:        rsv.UserID,
		Status:        rsv.Status,
		OccurredAt:    time.Now().UTC(),
	}
}
