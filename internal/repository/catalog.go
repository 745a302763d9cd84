package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/errs"
	"github.com/openshelf/openshelf/internal/model"
)

const booksTableName = `books`

var bookColumns = []string{
	"id", "title", "author", "genre", "isbn", "published_year",
	"description", "cover_image_url", "total_copies", "available_copies",
}

type catalogRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewCatalog(db *sqlx.DB, log *zap.Logger) (*catalogRepo, error) {
	return &catalogRepo{
		db:  db,
		log: log.Named("catalog-repo"),
	}, nil
}

func (r *catalogRepo) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("id")

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"author": pattern},
		})
	}
	if filter.Author != "" {
		q = q.Where(sq.ILike{"author": "%" + filter.Author + "%"})
	}
	if filter.Genre != "" {
		q = q.Where(sq.Eq{"genre": filter.Genre})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *catalogRepo) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *catalogRepo) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "genre", "isbn", "published_year",
			"description", "cover_image_url", "total_copies", "available_copies").
		Values(book.Title, book.Author, book.Genre, book.ISBN, book.PublishedYear,
			book.Description, book.CoverImageURL, book.TotalCopies, book.AvailableCopies).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var created model.Book
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return created, nil
}

func (r *catalogRepo) UpdateBook(ctx context.Context, id int, upd model.UpdateBookRequest) (model.Book, error) {
	q := qb.Update(booksTableName).Where(sq.Eq{"id": id}).Suffix("returning *")

	set := map[string]interface{}{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Author != nil {
		set["author"] = *upd.Author
	}
	if upd.Genre != nil {
		set["genre"] = *upd.Genre
	}
	if upd.ISBN != nil {
		set["isbn"] = *upd.ISBN
	}
	if upd.PublishedYear != nil {
		set["published_year"] = *upd.PublishedYear
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.CoverImageURL != nil {
		set["cover_image_url"] = *upd.CoverImageURL
	}
	if upd.TotalCopies != nil {
		// shrinking total_copies below the current hold count would break
		// 0 <= available <= total, so clamp available down with it
		set["total_copies"] = *upd.TotalCopies
		set["available_copies"] = sq.Expr("least(available_copies, ?)", *upd.TotalCopies)
	}
	if len(set) == 0 {
		return r.GetBook(ctx, id)
	}
	q = q.SetMap(set)

	query, args, err := q.ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *catalogRepo) DeleteBook(ctx context.Context, id int) error {
	query, args, err := qb.Delete(booksTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *catalogRepo) AdjustAvailability(ctx context.Context, id, delta int) (model.Book, error) {
	q := `
update books
    set available_copies = available_copies + $2
where id = $1
  and available_copies + $2 between 0 and total_copies
returning *`

	var book model.Book
	err := r.db.GetContext(ctx, &book, q, id, delta)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Book{}, err
	}

	// no row updated: either the book is gone or the delta breaks the bounds
	if _, err := r.GetBook(ctx, id); err != nil {
		return model.Book{}, err
	}
	return model.Book{}, errs.ErrInvariantViolation
}

func (r *catalogRepo) CountBooks(ctx context.Context) (total, available, reserved int, err error) {
	q := `
select count(*),
       count(*) filter (where available_copies > 0),
       count(*) filter (where available_copies < total_copies)
from books`

	if err = r.db.QueryRowContext(ctx, q).Scan(&total, &available, &reserved); err != nil {
		return 0, 0, 0, err
	}
	return total, available, reserved, nil
}
