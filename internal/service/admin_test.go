package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/model"
	"github.com/openshelf/openshelf/internal/repository"
	"github.com/openshelf/openshelf/internal/service"
)

func TestAdmin_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewMemory()
	log := zap.NewNop()
	catalog := service.NewCatalog(repo, log)
	reservations := service.NewReservation(repo, log)
	authSvc := service.NewAuth(repo, testJWTKey, time.Hour, log)
	admin := service.NewAdmin(repo, repo, repo, log)

	dune := addBook(t, catalog, 2)
	addBook(t, catalog, 1)

	for user := 1; user <= 2; user++ {
		_, err := authSvc.Register(ctx, model.RegisterRequest{
			Name:     "Reader",
			Email:    fmt.Sprintf("reader%d@example.com", user),
			Password: "correct-horse",
		})
		require.NoError(t, err)
	}

	first, err := reservations.Create(ctx, model.CreateReservationRequest{
		BookID: dune.ID, ReservationDate: futureDate(), UserID: 1,
	})
	require.NoError(t, err)
	_, err = reservations.Create(ctx, model.CreateReservationRequest{
		BookID: dune.ID, ReservationDate: futureDate(), UserID: 2,
	})
	require.NoError(t, err)
	_, err = reservations.SetStatus(ctx, first.ID, model.StatusApproved)
	require.NoError(t, err)

	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, model.Stats{
		TotalBooks:           2,
		AvailableBooks:       1,
		ReservedBooks:        1,
		TotalUsers:           2,
		PendingReservations:  1,
		ApprovedReservations: 1,
		RejectedReservations: 0,
	}, stats)
}

func TestAdmin_ListUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewMemory()
	log := zap.NewNop()
	authSvc := service.NewAuth(repo, testJWTKey, time.Hour, log)
	admin := service.NewAdmin(repo, repo, repo, log)

	_, err := authSvc.Register(ctx, model.RegisterRequest{
		Name: "Reader", Email: "reader@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	users, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "reader@example.com", users[0].Email)
}
