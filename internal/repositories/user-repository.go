package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pharmacy-system/internal/entities"
	apperrors "pharmacy-system/pkg/errors"
)

const userTable = "users"

var userColumns = []string{"id", "username", "password", "name", "user_type", "status"}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Name, &u.Type, &u.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Eq) (*entities.User, error) {
	query, args, err := sq.Select(userColumns...).From(userTable).
		Where(where).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindByUsername(ctx context.Context, userType, username string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"user_type": userType, "username": username})
}

func (r *UserRepository) FindUser(ctx context.Context, userType, id string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"user_type": userType, "id": id})
}

func (r *UserRepository) CreateUser(ctx context.Context, u entities.User) (*entities.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	query, args, err := sq.Insert(userTable).Columns(userColumns...).
		Values(u.ID, u.Username, u.Password, u.Name, u.Type, u.Status).
		Suffix("RETURNING " + joinColumns(userColumns)).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	created, err := scanUser(r.storage.QueryRow(ctx, query, args...))
	if err != nil && isUniqueViolation(err) {
		return nil, fmt.Errorf("пользователь %s уже существует: %w", u.Username, apperrors.ErrConflict)
	}
	return created, err
}
