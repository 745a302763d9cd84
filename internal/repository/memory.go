package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openshelf/openshelf/internal/errs"
	"github.com/openshelf/openshelf/internal/model"
)

// Memory is an in-process store implementing Catalog, Reservations and
// Users behind one mutex. It backs tests and DSN-less development runs.
type Memory struct {
	mu           sync.RWMutex
	books        map[int]model.Book
	reservations map[int]model.Reservation
	users        map[int]model.User
	nextBookID   int
	nextResID    int
	nextUserID   int
}

var (
	_ Catalog      = (*Memory)(nil)
	_ Reservations = (*Memory)(nil)
	_ Users        = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		books:        make(map[int]model.Book),
		reservations: make(map[int]model.Reservation),
		users:        make(map[int]model.User),
		nextBookID:   1,
		nextResID:    1,
		nextUserID:   1,
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (m *Memory) ListBooks(_ context.Context, filter model.BookFilter) ([]model.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	books := make([]model.Book, 0, len(m.books))
	for _, b := range m.books {
		if filter.Query != "" && !containsFold(b.Title, filter.Query) && !containsFold(b.Author, filter.Query) {
			continue
		}
		if filter.Author != "" && !containsFold(b.Author, filter.Author) {
			continue
		}
		if filter.Genre != "" && b.Genre != filter.Genre {
			continue
		}
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (m *Memory) GetBook(_ context.Context, id int) (model.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	book, ok := m.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return book, nil
}

func (m *Memory) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book.ID = m.nextBookID
	m.nextBookID++
	m.books[book.ID] = book
	return book, nil
}

func (m *Memory) UpdateBook(_ context.Context, id int, upd model.UpdateBookRequest) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	if upd.Title != nil {
		book.Title = *upd.Title
	}
	if upd.Author != nil {
		book.Author = *upd.Author
	}
	if upd.Genre != nil {
		book.Genre = *upd.Genre
	}
	if upd.ISBN != nil {
		book.ISBN = *upd.ISBN
	}
	if upd.PublishedYear != nil {
		book.PublishedYear = *upd.PublishedYear
	}
	if upd.Description != nil {
		book.Description = *upd.Description
	}
	if upd.CoverImageURL != nil {
		book.CoverImageURL = *upd.CoverImageURL
	}
	if upd.TotalCopies != nil {
		book.TotalCopies = *upd.TotalCopies
		if book.AvailableCopies > book.TotalCopies {
			book.AvailableCopies = book.TotalCopies
		}
	}
	m.books[id] = book
	return book, nil
}

func (m *Memory) DeleteBook(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *Memory) AdjustAvailability(_ context.Context, id, delta int) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	next := book.AvailableCopies + delta
	if next < 0 || next > book.TotalCopies {
		return model.Book{}, errs.ErrInvariantViolation
	}
	book.AvailableCopies = next
	m.books[id] = book
	return book, nil
}

func (m *Memory) CountBooks(_ context.Context) (total, available, reserved int, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.books {
		total++
		if b.AvailableCopies > 0 {
			available++
		}
		if b.AvailableCopies < b.TotalCopies {
			reserved++
		}
	}
	return total, available, reserved, nil
}

// CreateReservation checks preconditions in the contract's order: book exists,
// a copy is available, no pending reservation for the same (user, book).
func (m *Memory) CreateReservation(_ context.Context, bookID, userID int, date time.Time) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[bookID]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	if book.AvailableCopies <= 0 {
		return model.Reservation{}, errs.ErrUnavailable
	}
	for _, r := range m.reservations {
		if r.UserID == userID && r.BookID == bookID && r.Status == model.StatusPending {
			return model.Reservation{}, errs.ErrDuplicateReservation
		}
	}

	book.AvailableCopies--
	m.books[bookID] = book

	res := model.Reservation{
		ID:              m.nextResID,
		BookID:          bookID,
		UserID:          userID,
		BookTitle:       book.Title,
		ReservationDate: date,
		CreatedAt:       time.Now().UTC(),
		Status:          model.StatusPending,
	}
	m.nextResID++
	m.reservations[res.ID] = res
	return res, nil
}

func (m *Memory) SetStatus(_ context.Context, id int, status model.Status) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.reservations[id]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	if res.Status != model.StatusPending {
		return model.Reservation{}, errs.ErrInvalidTransition
	}

	if status == model.StatusRejected {
		if book, ok := m.books[res.BookID]; ok {
			if book.AvailableCopies >= book.TotalCopies {
				return model.Reservation{}, errs.ErrInvariantViolation
			}
			book.AvailableCopies++
			m.books[res.BookID] = book
		}
	}

	res.Status = status
	m.reservations[id] = res
	return res, nil
}

func (m *Memory) ListForUser(_ context.Context, userID int) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]model.Reservation, 0)
	for _, r := range m.reservations {
		if r.UserID == userID {
			items = append(items, r)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ReservationDate.Before(items[j].ReservationDate)
	})
	return items, nil
}

func (m *Memory) ListAll(_ context.Context) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]model.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		items = append(items, r)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *Memory) CountByStatus(_ context.Context) (map[model.Status]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[model.Status]int)
	for _, r := range m.reservations {
		counts[r.Status]++
	}
	return counts, nil
}

func (m *Memory) CreateUser(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.User{}, errs.ErrInvalidInput
		}
	}
	user.ID = m.nextUserID
	m.nextUserID++
	if user.MembershipDate.IsZero() {
		user.MembershipDate = time.Now().UTC()
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (m *Memory) GetUserByID(_ context.Context, id int) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return user, nil
}

func (m *Memory) UpdateUser(_ context.Context, id int, upd model.UpdateProfileRequest) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		for _, u := range m.users {
			if u.ID != id && strings.EqualFold(u.Email, *upd.Email) {
				return model.User{}, errs.ErrInvalidInput
			}
		}
		user.Email = *upd.Email
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	m.users[id] = user
	return user, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *Memory) CountUsers(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}
