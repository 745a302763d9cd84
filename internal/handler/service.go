package handler

import (
	"context"

	"github.com/openshelf/openshelf/internal/model"
	"github.com/openshelf/openshelf/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error
	AdjustAvailability(ctx context.Context, id, delta int) (model.Book, error)
}

type ReservationService interface {
	Create(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error)
	SetStatus(ctx context.Context, id int, status model.Status) (model.Reservation, error)
	ListForUser(ctx context.Context, userID int) ([]model.Reservation, error)
	ListAll(ctx context.Context) ([]model.Reservation, error)
}

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	Profile(ctx context.Context, userID int) (model.User, error)
	UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (model.User, error)
}

type AdminService interface {
	Stats(ctx context.Context) (model.Stats, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

var (
	_ CatalogService     = (*service.Catalog)(nil)
	_ ReservationService = (*service.Reservation)(nil)
	_ AuthService        = (*service.Auth)(nil)
	_ AdminService       = (*service.Admin)(nil)
)
