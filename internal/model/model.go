package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Book struct {
	ID              int    `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	Genre           string `json:"genre" db:"genre"`
	ISBN            string `json:"isbn" db:"isbn"`
	PublishedYear   int    `json:"publishedYear" db:"published_year"`
	Description     string `json:"description" db:"description"`
	CoverImageURL   string `json:"coverImageUrl" db:"cover_image_url"`
	TotalCopies     int    `json:"totalCopies" db:"total_copies"`
	AvailableCopies int    `json:"availableCopies" db:"available_copies"`
}

type BookFilter struct {
	Query  string
	Author string
	Genre  string
}

type CreateBookRequest struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	Genre         string `json:"genre" validate:"required"`
	ISBN          string `json:"isbn"`
	PublishedYear int    `json:"publishedYear"`
	Description   string `json:"description"`
	CoverImageURL string `json:"coverImageUrl"`
	TotalCopies   int    `json:"totalCopies" validate:"required,min=1"`
}

// UpdateBookRequest carries a partial update: nil fields are left as is.
type UpdateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Genre         *string `json:"genre"`
	ISBN          *string `json:"isbn"`
	PublishedYear *int    `json:"publishedYear"`
	Description   *string `json:"description"`
	CoverImageURL *string `json:"coverImageUrl"`
	TotalCopies   *int    `json:"totalCopies" validate:"omitempty,min=1"`
}

type AdjustAvailabilityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type Reservation struct {
	ID              int       `json:"id" db:"id"`
	BookID          int       `json:"bookId" db:"book_id"`
	UserID          int       `json:"userId" db:"user_id"`
	BookTitle       string    `json:"bookTitle" db:"book_title"`
	ReservationDate time.Time `json:"reservationDate" db:"reservation_date"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	Status          Status    `json:"status" db:"status"`
}

type CreateReservationRequest struct {
	BookID          int  `json:"bookId" validate:"required"`
	ReservationDate Date `json:"reservationDate" validate:"required"`
	UserID          int  `json:"-"`
}

type SetStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=approved rejected"`
}

// Date accepts the client's date-only form ("2006-01-02") as well as RFC3339.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

type User struct {
	ID             int       `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Phone          string    `json:"phone" db:"phone"`
	Role           Role      `json:"role" db:"role"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	MembershipDate time.Time `json:"membershipDate" db:"membership_date"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
}

type Stats struct {
	TotalBooks           int `json:"totalBooks"`
	AvailableBooks       int `json:"availableBooks"`
	ReservedBooks        int `json:"reservedBooks"`
	TotalUsers           int `json:"totalUsers"`
	PendingReservations  int `json:"pendingReservations"`
	ApprovedReservations int `json:"approvedReservations"`
	RejectedReservations int `json:"rejectedReservations"`
}
