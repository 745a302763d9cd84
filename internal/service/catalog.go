package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/errs"
	"github.com/openshelf/openshelf/internal/model"
	"github.com/openshelf/openshelf/internal/repository"
)

type Catalog struct {
	log  *zap.Logger
	repo repository.Catalog
}

func NewCatalog(repo repository.Catalog, log *zap.Logger) *Catalog {
	return &Catalog{
		log:  log,
		repo: repo,
	}
}

func (s *Catalog) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *Catalog) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Catalog) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	if req.TotalCopies < 1 {
		return model.Book{}, errors.Wrap(errs.ErrInvalidInput, "totalCopies must be at least 1")
	}
	return s.repo.CreateBook(ctx, model.Book{
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		ISBN:            req.ISBN,
		PublishedYear:   req.PublishedYear,
		Description:     req.Description,
		CoverImageURL:   req.CoverImageURL,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
	})
}

func (s *Catalog) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	if req.TotalCopies != nil && *req.TotalCopies < 1 {
		return model.Book{}, errors.Wrap(errs.ErrInvalidInput, "totalCopies must be at least 1")
	}
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Catalog) DeleteBook(ctx context.Context, id int) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Catalog) AdjustAvailability(ctx context.Context, id, delta int) (model.Book, error) {
	if delta == 0 {
		return model.Book{}, errors.Wrap(errs.ErrInvalidInput, "delta must be non-zero")
	}
	book, err := s.repo.AdjustAvailability(ctx, id, delta)
	if err != nil {
		if errors.Is(err, errs.ErrInvariantViolation) {
			s.log.Error("availability adjustment out of bounds",
				zap.Int("bookId", id), zap.Int("delta", delta))
		}
		return model.Book{}, err
	}
	return book, nil
}
