package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/errs"
	"github.com/openshelf/openshelf/internal/model"
	"github.com/openshelf/openshelf/internal/repository"
	"github.com/openshelf/openshelf/internal/service"
)

func newCatalogFixture(t *testing.T) (*repository.Memory, *service.Catalog, *service.Reservation) {
	t.Helper()
	repo := repository.NewMemory()
	log := zap.NewNop()
	return repo, service.NewCatalog(repo, log), service.NewReservation(repo, log)
}

func futureDate() model.Date {
	return model.Date{Time: time.Now().UTC().Add(48 * time.Hour)}
}

func addBook(t *testing.T, catalog *service.Catalog, copies int) model.Book {
	t.Helper()
	book, err := catalog.CreateBook(context.Background(), model.CreateBookRequest{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Genre:       "Science Fiction",
		TotalCopies: copies,
	})
	require.NoError(t, err)
	require.Equal(t, copies, book.AvailableCopies)
	return book
}

func TestReservation_CreateHoldsCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, catalog, svc := newCatalogFixture(t)
	book := addBook(t, catalog, 2)

	rsv, err := svc.Create(ctx, model.CreateReservationRequest{
		BookID:          book.ID,
		ReservationDate: futureDate(),
		UserID:          1,
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, rsv.Status)
	require.Equal(t, book.Title, rsv.BookTitle)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableCopies)
}

func TestReservation_CreateValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, catalog, svc := newCatalogFixture(t)
	book := addBook(t, catalog, 1)

	tests := []struct {
		name string
		req  model.CreateReservationRequest
		want error
	}{
		{
			name: "missing date",
			req:  model.CreateReservationRequest{BookID: book.ID, UserID: 1},
			want: errs.ErrInvalidInput,
		},
		{
			name: "past date",
			req: model.CreateReservationRequest{
				BookID:          book.ID,
				ReservationDate: model.Date{Time: time.Now().UTC().Add(-48 * time.Hour)},
				UserID:          1,
			},
			want: errs.ErrInvalidInput,
		},
		{
			name: "unknown book",
			req: model.CreateReservationRequest{
				BookID:          999,
				ReservationDate: futureDate(),
				UserID:          1,
			},
			want: errs.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReservation_TodayIsNotPast(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, catalog, svc := newCatalogFixture(t)
	book := addBook(t, catalog, 1)

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, model.CreateReservationRequest{
		BookID:          book.ID,
		ReservationDate: model.Date{Time: today},
		UserID:          1,
	})
	require.NoError(t, err)
}

func TestReservation_UnavailableLeavesNoTrace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, catalog, svc := newCatalogFixture(t)
	book := addBook(t, catalog, 1)

	_, err := svc.Create(ctx, model.CreateReservationRequest{
		BookID: book.ID, ReservationDate: futureDate(), UserID: 1,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.CreateReservationRequest{
		BookID: book.ID, ReservationDate: futureDate(), UserID: 2,
	})
	require.ErrorIs(t, err, errs.ErrUnavailable)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.AvailableCopies)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestReservation_DuplicatePending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, catalog, svc := newCatalogFixture(t)
	book := addBook(t, catalog, 3)

	_, err := svc.Create(ctx, model.CreateReservationRequest{
		BookID: book.ID, ReservationDate: futureDate(), UserID: 1,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.CreateReservationRequest{
		BookID: book.ID, ReservationDate: futureDate(), UserID: 1,
	})
	require.ErrorIs(t, err, errs.ErrDuplicateReservation)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.AvailableCopies)
}

func TestReservation_RejectReleasesCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, catalog, svc := newCatalogFixture(t)
	book := addBook(t, catalog, 1)

	rsv, err := svc.Create(ctx, model.CreateReservationRequest{
		BookID: book.ID, ReservationDate: futureDate(), UserID: 1,
	})
	require.NoError(t, err)

	rejected, err := svc.SetStatus(ctx, rsv.ID, model.StatusRejected)
	require.NoError(t, err)
	require.Equal(t, model.StatusRejected, rejected.Status)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableCopies)

	// the slot is free again
	_, err = svc.Create(ctx, model.CreateReservationRequest{
		BookID: book.ID, ReservationDate: futureDate(), UserID: 1,
	})
	require.NoError(t, err)
}

func TestReservation_ApproveKeepsCopyHeld(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, catalog, svc := newCatalogFixture(t)
	book := addBook(t, catalog, 2)

	rsv, err := svc.Create(ctx, model.CreateReservationRequest{
		BookID: book.ID, ReservationDate: futureDate(), UserID: 1,
	})
	require.NoError(t, err)

	approved, err := svc.SetStatus(ctx, rsv.ID, model.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, approved.Status)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableCopies)
}

func TestReservation_SetStatusTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, catalog, svc := newCatalogFixture(t)
	book := addBook(t, catalog, 2)

	rsv, err := svc.Create(ctx, model.CreateReservationRequest{
		BookID: book.ID, ReservationDate: futureDate(), UserID: 1,
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, rsv.ID, model.StatusApproved)
	require.NoError(t, err)

	// decided reservations are immutable, counts stay put
	_, err = svc.SetStatus(ctx, rsv.ID, model.StatusRejected)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	_, err = svc.SetStatus(ctx, rsv.ID, model.StatusApproved)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableCopies)

	_, err = svc.SetStatus(ctx, rsv.ID, model.StatusPending)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = svc.SetStatus(ctx, 999, model.StatusApproved)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestReservation_RejectAfterBookDeleted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, catalog, svc := newCatalogFixture(t)
	book := addBook(t, catalog, 1)

	rsv, err := svc.Create(ctx, model.CreateReservationRequest{
		BookID: book.ID, ReservationDate: futureDate(), UserID: 1,
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBook(ctx, book.ID))

	rejected, err := svc.SetStatus(ctx, rsv.ID, model.StatusRejected)
	require.NoError(t, err)
	require.Equal(t, model.StatusRejected, rejected.Status)
}

func TestReservation_ConcurrentCreates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, catalog, svc := newCatalogFixture(t)

	const (
		copies  = 3
		callers = 20
	)
	book := addBook(t, catalog, copies)

	var (
		wg          sync.WaitGroup
		succeeded   atomic.Int32
		unavailable atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, err := svc.Create(ctx, model.CreateReservationRequest{
				BookID:          book.ID,
				ReservationDate: futureDate(),
				UserID:          userID,
			})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, errs.ErrUnavailable):
				unavailable.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i + 1)
	}
	wg.Wait()

	require.EqualValues(t, copies, succeeded.Load())
	require.EqualValues(t, callers-copies, unavailable.Load())

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.AvailableCopies)
}

func TestReservation_FullWorkflow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, catalog, svc := newCatalogFixture(t)
	book := addBook(t, catalog, 3)

	var ids []int
	for user := 1; user <= 3; user++ {
		rsv, err := svc.Create(ctx, model.CreateReservationRequest{
			BookID: book.ID, ReservationDate: futureDate(), UserID: user,
		})
		require.NoError(t, err)
		ids = append(ids, rsv.ID)
	}

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.AvailableCopies)

	_, err = svc.SetStatus(ctx, ids[0], model.StatusApproved)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, ids[1], model.StatusRejected)
	require.NoError(t, err)

	got, err = repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableCopies)

	mine, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, model.StatusApproved, mine[0].Status)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
