package middleware

import (
	"context"
	"strings"
	"time"

	apperrors "pharmacy-system/pkg/errors"
	"pharmacy-system/pkg/service"
	"pharmacy-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RevocationChecker сообщает, отозван ли токен (logout).
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	revocation RevocationChecker
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, revocation RevocationChecker, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		revocation: revocation,
		logger:     logger,
	}
}

// Auth проверяет Bearer-токен и кладёт сессию в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			m.logger.Debug("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := c.Request().Context()
		if m.revocation != nil {
			revoked, err := m.revocation.IsTokenRevoked(ctx, claims.ID)
			if err != nil {
				m.logger.Error("AuthMiddleware: не удалось проверить отзыв токена", zap.Error(err))
				return utils.ErrorResponse(c, err, m.logger)
			}
			if revoked {
				return utils.ErrorResponse(c, apperrors.ErrTokenRevoked, m.logger)
			}
		}

		session := &utils.Session{
			UserID:   claims.UserID,
			UserType: claims.UserType,
			Name:     claims.Name,
			TokenID:  claims.ID,
		}
		if claims.ExpiresAt != nil {
			session.ExpiresAt = claims.ExpiresAt.Time
		} else {
			session.ExpiresAt = time.Now().Add(m.jwtService.GetAccessTokenTTL())
		}
		c.SetRequest(c.Request().WithContext(utils.WithSession(ctx, session)))

		return next(c)
	}
}

// AdminOnly пропускает только сотрудников (user_type = admin).
func (m *AuthMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}
		if !session.IsAdmin() {
			m.logger.Warn("AuthMiddleware: доступ к админ-маршруту без прав",
				zap.String("userID", session.UserID),
				zap.String("path", c.Path()),
			)
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
		return next(c)
	}
}
