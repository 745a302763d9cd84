package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/errs"
	"github.com/openshelf/openshelf/internal/model"
	"github.com/openshelf/openshelf/internal/repository"
)

// Reservation drives the pending -> approved | rejected workflow.
// A copy is held at request time and released on rejection.
type Reservation struct {
	log  *zap.Logger
	repo repository.Reservations
}

func NewReservation(repo repository.Reservations, log *zap.Logger) *Reservation {
	return &Reservation{
		log:  log,
		repo: repo,
	}
}

func (s *Reservation) Create(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	if req.ReservationDate.IsZero() {
		return model.Reservation{}, errors.Wrap(errs.ErrInvalidInput, "reservationDate is required")
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.ReservationDate.Time.Before(today) {
		return model.Reservation{}, errors.Wrap(errs.ErrInvalidInput, "reservationDate is in the past")
	}

	return s.repo.CreateReservation(ctx, req.BookID, req.UserID, req.ReservationDate.Time)
}

func (s *Reservation) SetStatus(ctx context.Context, id int, status model.Status) (model.Reservation, error) {
	if status != model.StatusApproved && status != model.StatusRejected {
		return model.Reservation{}, errors.Wrapf(errs.ErrInvalidInput, "status %q", status)
	}
	res, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, errs.ErrInvariantViolation) {
			s.log.Error("copy count out of bounds on release", zap.Int("reservationId", id))
		}
		return model.Reservation{}, err
	}
	return res, nil
}

func (s *Reservation) ListForUser(ctx context.Context, userID int) ([]model.Reservation, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Reservation) ListAll(ctx context.Context) ([]model.Reservation, error) {
	return s.repo.ListAll(ctx)
}
