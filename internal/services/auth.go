package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/repositories"
	"pharmacy-system/pkg/clock"
	"pharmacy-system/pkg/config"
	apperrors "pharmacy-system/pkg/errors"
	"pharmacy-system/pkg/service"
	"pharmacy-system/pkg/utils"
)

const (
	loginAttemptsKeyPrefix = "auth:attempts:"
	revokedTokenKeyPrefix  = "auth:revoked:"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*dto.UserPublicDTO, error)
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	userRepository repositories.UserRepositoryInterface
	cache          repositories.CacheRepositoryInterface
	jwtService     service.JWTService
	cfg            config.AuthConfig
	clock          clock.Clock
	logger         *zap.Logger
}

func NewAuthService(
	userRepository repositories.UserRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	cfg config.AuthConfig,
	clk clock.Clock,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepository: userRepository,
		cache:          cache,
		jwtService:     jwtService,
		cfg:            cfg,
		clock:          clk,
		logger:         logger,
	}
}

func attemptsKey(userType, username string) string {
	return loginAttemptsKeyPrefix + userType + ":" + strings.ToLower(strings.TrimSpace(username))
}

func (s *AuthService) isLockedOut(ctx context.Context, key string) (bool, error) {
	if s.cfg.MaxLoginAttempts <= 0 {
		return false, nil
	}
	raw, err := s.cache.Get(ctx, key)
	if errors.Is(err, repositories.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	n, _ := strconv.Atoi(raw)
	return n >= s.cfg.MaxLoginAttempts, nil
}

// registerFailure считает неудачные попытки; окно блокировки отсчитывается от первой ошибки.
func (s *AuthService) registerFailure(ctx context.Context, key string) {
	if s.cfg.MaxLoginAttempts <= 0 {
		return
	}
	n, err := s.cache.Incr(ctx, key)
	if err != nil {
		s.logger.Error("Не удалось учесть неудачную попытку входа", zap.Error(err))
		return
	}
	if n == 1 {
		if _, err := s.cache.Expire(ctx, key, s.cfg.LockoutDuration); err != nil {
			s.logger.Error("Не удалось выставить срок блокировки входа", zap.Error(err))
		}
	}
}

// Login ищет точное совпадение логина в коллекции своего типа пользователя.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	key := attemptsKey(payload.UserType, payload.Username)

	locked, err := s.isLockedOut(ctx, key)
	if err != nil {
		return nil, err
	}
	if locked {
		s.logger.Warn("Вход заблокирован после неудачных попыток", zap.String("username", payload.Username))
		return nil, apperrors.ErrTooManyAttempts
	}

	user, err := s.userRepository.FindByUsername(ctx, payload.UserType, payload.Username)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.registerFailure(ctx, key)
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(user.Password, payload.Password) {
		s.registerFailure(ctx, key)
		s.logger.Info("Неверный пароль", zap.String("username", payload.Username), zap.String("user_type", payload.UserType))
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.cache.Del(ctx, key); err != nil {
		s.logger.Warn("Не удалось сбросить счётчик попыток входа", zap.Error(err))
	}

	token, claims, err := s.jwtService.GenerateToken(user.ID, user.Type, user.Name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Пользователь вошёл", zap.String("user_id", user.ID), zap.String("user_type", user.Type))
	return &dto.AuthResponseDTO{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		User: dto.UserPublicDTO{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
			Type:     user.Type,
		},
	}, nil
}

// Logout отзывает токен до конца срока его жизни.
func (s *AuthService) Logout(ctx context.Context) error {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return apperrors.ErrUnauthorized
	}
	ttl := session.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, revokedTokenKeyPrefix+session.TokenID, "1", ttl); err != nil {
		return err
	}
	s.logger.Info("Пользователь вышел", zap.String("user_id", session.UserID))
	return nil
}

func (s *AuthService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.cache.Exists(ctx, revokedTokenKeyPrefix+tokenID)
}

func (s *AuthService) Me(ctx context.Context) (*dto.UserPublicDTO, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.userRepository.FindUser(ctx, session.UserType, session.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return &dto.UserPublicDTO{ID: user.ID, Username: user.Username, Name: user.Name, Type: user.Type}, nil
}

