package seeders

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/repositories"
	apperrors "pharmacy-system/pkg/errors"
	"pharmacy-system/pkg/utils"
)

// Seeder наполняет хранилище демо-данными. Повторный запуск не создаёт дублей.
type Seeder struct {
	products repositories.ProductRepositoryInterface
	branches repositories.BranchRepositoryInterface
	users    repositories.UserRepositoryInterface
	// hashPasswords=false оставляет пароль открытым текстом: так их хранит внешний API.
	hashPasswords bool
	logger        *zap.Logger
}

func New(
	products repositories.ProductRepositoryInterface,
	branches repositories.BranchRepositoryInterface,
	users repositories.UserRepositoryInterface,
	hashPasswords bool,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{products: products, branches: branches, users: users, hashPasswords: hashPasswords, logger: logger}
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	if err := s.SeedBranches(ctx); err != nil {
		return err
	}
	if err := s.SeedProducts(ctx); err != nil {
		return err
	}
	return s.SeedUsers(ctx)
}

func (s *Seeder) SeedBranches(ctx context.Context) error {
	existing, err := s.branches.GetBranches(ctx)
	if err != nil {
		return fmt.Errorf("не удалось прочитать филиалы: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, b := range existing {
		known[strings.ToLower(b.Name)] = true
	}

	created := 0
	for _, b := range branchesData {
		if known[strings.ToLower(b.Name)] {
			continue
		}
		if _, err := s.branches.CreateBranch(ctx, b); err != nil {
			return fmt.Errorf("филиал %q: %w", b.Name, err)
		}
		created++
	}
	s.logger.Info("Филиалы", zap.Int("created", created), zap.Int("skipped", len(branchesData)-created))
	return nil
}

func (s *Seeder) SeedProducts(ctx context.Context) error {
	existing, err := s.products.GetProducts(ctx)
	if err != nil {
		return fmt.Errorf("не удалось прочитать каталог: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[strings.ToLower(p.Name)] = true
	}

	created := 0
	for _, p := range productsData {
		if known[strings.ToLower(p.Name)] {
			continue
		}
		if _, err := s.products.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("товар %q: %w", p.Name, err)
		}
		created++
	}
	s.logger.Info("Товары", zap.Int("created", created), zap.Int("skipped", len(productsData)-created))
	return nil
}

// SeedUsers берёт пароли из окружения; если переменная не задана, пароль генерируется и выводится в лог.
func (s *Seeder) SeedUsers(ctx context.Context) error {
	for _, u := range usersData {
		_, err := s.users.FindByUsername(ctx, u.Type, u.Username)
		if err == nil {
			s.logger.Info("Пользователь уже существует, пропускаем", zap.String("username", u.Username))
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("пользователь %q: %w", u.Username, err)
		}

		password := os.Getenv(u.PasswordEnv)
		generated := password == ""
		if generated {
			password = strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		}
		stored := password
		if s.hashPasswords {
			if stored, err = utils.HashPassword(password); err != nil {
				return err
			}
		}

		if _, err := s.users.CreateUser(ctx, entities.User{
			Username: u.Username,
			Password: stored,
			Name:     u.Name,
			Type:     u.Type,
			Status:   "Activo",
		}); err != nil {
			return fmt.Errorf("пользователь %q: %w", u.Username, err)
		}

		fields := []zap.Field{zap.String("username", u.Username), zap.String("user_type", u.Type)}
		if generated {
			fields = append(fields, zap.String("password", password))
		}
		s.logger.Info("Пользователь создан", fields...)
	}
	return nil
}
