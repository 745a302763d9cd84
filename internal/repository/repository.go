package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/openshelf/openshelf/internal/model"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Catalog interface {
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	UpdateBook(ctx context.Context, id int, upd model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error
	AdjustAvailability(ctx context.Context, id, delta int) (model.Book, error)
	CountBooks(ctx context.Context) (total, available, reserved int, err error)
}

type Reservations interface {
	CreateReservation(ctx context.Context, bookID, userID int, date time.Time) (model.Reservation, error)
	SetStatus(ctx context.Context, id int, status model.Status) (model.Reservation, error)
	ListForUser(ctx context.Context, userID int) ([]model.Reservation, error)
	ListAll(ctx context.Context) ([]model.Reservation, error)
	CountByStatus(ctx context.Context) (map[model.Status]int, error)
}

type Users interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id int) (model.User, error)
	UpdateUser(ctx context.Context, id int, upd model.UpdateProfileRequest) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	CountUsers(ctx context.Context) (int, error)
}
