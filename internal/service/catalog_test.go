package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/errs"
	"github.com/openshelf/openshelf/internal/model"
)

func TestCatalog_CreateBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, catalog, _ := newCatalogFixture(t)

	book, err := catalog.CreateBook(ctx, model.CreateBookRequest{
		Title:       "The Left Hand of Darkness",
		Author:      "Ursula K. Le Guin",
		Genre:       "Science Fiction",
		TotalCopies: 4,
	})
	require.NoError(t, err)
	require.Equal(t, 4, book.TotalCopies)
	require.Equal(t, 4, book.AvailableCopies)

	_, err = catalog.CreateBook(ctx, model.CreateBookRequest{
		Title:       "No Copies",
		Author:      "Nobody",
		Genre:       "None",
		TotalCopies: 0,
	})
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestCatalog_ListBooksFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, catalog, _ := newCatalogFixture(t)

	for _, req := range []model.CreateBookRequest{
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", TotalCopies: 1},
		{Title: "Dune Messiah", Author: "Frank Herbert", Genre: "Science Fiction", TotalCopies: 1},
		{Title: "The Hobbit", Author: "J. R. R. Tolkien", Genre: "Fantasy", TotalCopies: 1},
	} {
		_, err := catalog.CreateBook(ctx, req)
		require.NoError(t, err)
	}

	books, err := catalog.ListBooks(ctx, model.BookFilter{Query: "dune"})
	require.NoError(t, err)
	require.Len(t, books, 2)

	books, err = catalog.ListBooks(ctx, model.BookFilter{Author: "tolkien"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "The Hobbit", books[0].Title)

	books, err = catalog.ListBooks(ctx, model.BookFilter{Genre: "Fantasy"})
	require.NoError(t, err)
	require.Len(t, books, 1)

	books, err = catalog.ListBooks(ctx, model.BookFilter{})
	require.NoError(t, err)
	require.Len(t, books, 3)
}

func TestCatalog_UpdateBookClampsAvailable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, catalog, _ := newCatalogFixture(t)
	book := addBook(t, catalog, 5)

	two := 2
	updated, err := catalog.UpdateBook(ctx, book.ID, model.UpdateBookRequest{TotalCopies: &two})
	require.NoError(t, err)
	require.Equal(t, 2, updated.TotalCopies)
	require.Equal(t, 2, updated.AvailableCopies)

	zero := 0
	_, err = catalog.UpdateBook(ctx, book.ID, model.UpdateBookRequest{TotalCopies: &zero})
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestCatalog_AdjustAvailability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, catalog, _ := newCatalogFixture(t)
	book := addBook(t, catalog, 3)

	got, err := catalog.AdjustAvailability(ctx, book.ID, -2)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableCopies)

	_, err = catalog.AdjustAvailability(ctx, book.ID, -2)
	require.ErrorIs(t, err, errs.ErrInvariantViolation)

	_, err = catalog.AdjustAvailability(ctx, book.ID, 3)
	require.ErrorIs(t, err, errs.ErrInvariantViolation)

	_, err = catalog.AdjustAvailability(ctx, book.ID, 0)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = catalog.AdjustAvailability(ctx, 999, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCatalog_DeleteBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, catalog, _ := newCatalogFixture(t)
	book := addBook(t, catalog, 1)

	require.NoError(t, catalog.DeleteBook(ctx, book.ID))
	_, err := catalog.GetBook(ctx, book.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.ErrorIs(t, catalog.DeleteBook(ctx, book.ID), errs.ErrNotFound)
}
