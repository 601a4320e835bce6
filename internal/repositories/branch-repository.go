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

const branchTable = "branches"

var branchColumns = []string{"id", "name", "address", "manager", "city", "phone", "workers", "status"}

type BranchRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewBranchRepository(storage *pgxpool.Pool, logger *zap.Logger) BranchRepositoryInterface {
	return &BranchRepository{storage: storage, logger: logger}
}

func scanBranch(row pgx.Row) (*entities.Branch, error) {
	var b entities.Branch
	var status string
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.Manager, &b.City, &b.Phone, &b.Workers, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования branch: %w", err)
	}
	b.Status = entities.NormalizeBranchStatus(status)
	return &b, nil
}

func (r *BranchRepository) GetBranches(ctx context.Context) ([]entities.Branch, error) {
	query, args, err := sq.Select(branchColumns...).From(branchTable).
		OrderBy("name ASC").PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения филиалов: %w", err)
	}
	defer rows.Close()

	branches := make([]entities.Branch, 0)
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, *b)
	}
	return branches, rows.Err()
}

func (r *BranchRepository) FindBranch(ctx context.Context, id string) (*entities.Branch, error) {
	query, args, err := sq.Select(branchColumns...).From(branchTable).
		Where(sq.Eq{"id": id}).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanBranch(r.storage.QueryRow(ctx, query, args...))
}

func (r *BranchRepository) CreateBranch(ctx context.Context, b entities.Branch) (*entities.Branch, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	query, args, err := sq.Insert(branchTable).Columns(branchColumns...).
		Values(b.ID, b.Name, b.Address, b.Manager, b.City, b.Phone, b.Workers, string(b.Status)).
		Suffix("RETURNING " + joinColumns(branchColumns)).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanBranch(r.storage.QueryRow(ctx, query, args...))
}

func (r *BranchRepository) UpdateBranch(ctx context.Context, b entities.Branch) (*entities.Branch, error) {
	query, args, err := sq.Update(branchTable).SetMap(map[string]interface{}{
		"name":    b.Name,
		"address": b.Address,
		"manager": b.Manager,
		"city":    b.City,
		"phone":   b.Phone,
		"workers": b.Workers,
		"status":  string(b.Status),
	}).Where(sq.Eq{"id": b.ID}).
		Suffix("RETURNING " + joinColumns(branchColumns)).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanBranch(r.storage.QueryRow(ctx, query, args...))
}

func (r *BranchRepository) DeleteBranch(ctx context.Context, id string) error {
	return deleteByID(ctx, r.storage, branchTable, id)
}
