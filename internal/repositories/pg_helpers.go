package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "pharmacy-system/pkg/errors"
)

// pgUniqueViolation - код ошибки Postgres для нарушения уникального индекса.
const pgUniqueViolation = "23505"

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

func deleteByID(ctx context.Context, q querier, table, id string) error {
	query, args, err := sq.Delete(table).Where(sq.Eq{"id": id}).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка удаления из %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
