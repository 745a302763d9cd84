package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/errs"
	"github.com/openshelf/openshelf/internal/model"
)

const usersTableName = `users`

var userColumns = []string{
	"id", "name", "email", "phone", "role", "password_hash", "membership_date",
}

type userRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewUsers(db *sqlx.DB, log *zap.Logger) (*userRepo, error) {
	return &userRepo{
		db:  db,
		log: log.Named("user-repo"),
	}, nil
}

func (r *userRepo) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("name", "email", "phone", "role", "password_hash").
		Values(user.Name, user.Email, user.Phone, user.Role, user.PasswordHash).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var created model.User
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errors.Wrap(errs.ErrInvalidInput, "email already registered")
		}
		return model.User{}, err
	}
	return created, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.get(ctx, sq.Eq{"email": email})
}

func (r *userRepo) GetUserByID(ctx context.Context, id int) (model.User, error) {
	return r.get(ctx, sq.Eq{"id": id})
}

func (r *userRepo) get(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *userRepo) UpdateUser(ctx context.Context, id int, upd model.UpdateProfileRequest) (model.User, error) {
	set := map[string]interface{}{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if len(set) == 0 {
		return r.GetUserByID(ctx, id)
	}

	query, args, err := qb.Update(usersTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errors.Wrap(errs.ErrInvalidInput, "email already registered")
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *userRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0)
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `select count(*) from users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
