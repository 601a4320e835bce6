// pkg/utils/ctxutils.go

package utils

import (
	"context"
	"time"

	"pharmacy-system/pkg/contextkeys"
	apperrors "pharmacy-system/pkg/errors"
)

const (
	UserTypeAdmin  = "admin"
	UserTypeClient = "client"
)

// Session - данные вошедшего пользователя, которые раньше жили в sessionStorage браузера.
type Session struct {
	UserID    string
	UserType  string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.UserType == UserTypeAdmin
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextkeys.SessionKey, s)
}

func GetSessionFromCtx(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(contextkeys.SessionKey).(*Session)
	if !ok || s == nil {
		return nil, apperrors.ErrUserNotFoundInContext
	}
	return s, nil
}
