package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/errs"
	"github.com/openshelf/openshelf/internal/model"
)

const reservationTableName = `reservations`

var reservationColumns = []string{
	"id", "book_id", "user_id", "book_title", "reservation_date", "created_at", "status",
}

type reservationRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewReservations(db *sqlx.DB, log *zap.Logger) (*reservationRepo, error) {
	return &reservationRepo{
		db:  db,
		log: log.Named("reservation-repo"),
	}, nil
}

// CreateReservation takes the hold and inserts the reservation in one transaction.
// The conditional decrement serializes concurrent requests on the last copy;
// the partial unique index rejects a second pending reservation for the same
// (user, book) pair.
func (r *reservationRepo) CreateReservation(ctx context.Context, bookID, userID int, date time.Time) (model.Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	hold := `
update books
    set available_copies = available_copies - 1
where id = $1 and available_copies > 0
returning title`

	var title string
	if err := tx.GetContext(ctx, &title, hold, bookID); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, err
		}
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`select exists (select 1 from books where id = $1)`, bookID); err != nil {
			return model.Reservation{}, err
		}
		if !exists {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, errs.ErrUnavailable
	}

	query, args, err := qb.Insert(reservationTableName).
		Columns("book_id", "user_id", "book_title", "reservation_date", "status").
		Values(bookID, userID, title, date.Format(time.DateOnly), model.StatusPending).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}

	var res model.Reservation
	if err := tx.GetContext(ctx, &res, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Reservation{}, errs.ErrDuplicateReservation
		}
		r.log.Error("CreateReservation", zap.String("q", query), zap.Any("args", args))
		return model.Reservation{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

func (r *reservationRepo) SetStatus(ctx context.Context, id int, status model.Status) (model.Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	query, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"id": id}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}

	var res model.Reservation
	if err := tx.GetContext(ctx, &res, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}
	if res.Status != model.StatusPending {
		return model.Reservation{}, errs.ErrInvalidTransition
	}

	if err := tx.GetContext(ctx, &res,
		`update reservations set status = $2 where id = $1 returning *`, id, status); err != nil {
		return model.Reservation{}, err
	}

	if status == model.StatusRejected {
		release := `
update books
    set available_copies = available_copies + 1
where id = $1 and available_copies < total_copies`

		out, err := tx.ExecContext(ctx, release, res.BookID)
		if err != nil {
			return model.Reservation{}, err
		}
		n, err := out.RowsAffected()
		if err != nil {
			return model.Reservation{}, err
		}
		if n == 0 {
			// releasing a hold on a deleted book is a no-op; on a live book
			// at full availability it is a double release
			var exists bool
			if err := tx.GetContext(ctx, &exists,
				`select exists (select 1 from books where id = $1)`, res.BookID); err != nil {
				return model.Reservation{}, err
			}
			if exists {
				return model.Reservation{}, errs.ErrInvariantViolation
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

func (r *reservationRepo) ListForUser(ctx context.Context, userID int) ([]model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("reservation_date").
		ToSql()
	if err != nil {
		return nil, err
	}

	items := make([]model.Reservation, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *reservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	items := make([]model.Reservation, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *reservationRepo) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`select status, count(*) from reservations group by status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var (
			status model.Status
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
