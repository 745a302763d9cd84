package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openshelf/openshelf/internal/model"
	"github.com/openshelf/openshelf/internal/repository"
)

type Admin struct {
	log          *zap.Logger
	catalog      repository.Catalog
	reservations repository.Reservations
	users        repository.Users
}

func NewAdmin(catalog repository.Catalog, reservations repository.Reservations, users repository.Users, log *zap.Logger) *Admin {
	return &Admin{
		log:          log,
		catalog:      catalog,
		reservations: reservations,
		users:        users,
	}
}

func (s *Admin) Stats(ctx context.Context) (model.Stats, error) {
	var st model.Stats

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		total, available, reserved, err := s.catalog.CountBooks(ctx)
		if err != nil {
			return err
		}
		st.TotalBooks, st.AvailableBooks, st.ReservedBooks = total, available, reserved
		return nil
	})
	gg.Go(func() error {
		counts, err := s.reservations.CountByStatus(ctx)
		if err != nil {
			return err
		}
		st.PendingReservations = counts[model.StatusPending]
		st.ApprovedReservations = counts[model.StatusApproved]
		st.RejectedReservations = counts[model.StatusRejected]
		return nil
	})
	gg.Go(func() error {
		users, err := s.users.CountUsers(ctx)
		if err != nil {
			return err
		}
		st.TotalUsers = users
		return nil
	})

	if err := gg.Wait(); err != nil {
		return model.Stats{}, err
	}
	return st, nil
}

func (s *Admin) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}
