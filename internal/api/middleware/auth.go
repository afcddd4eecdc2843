package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/pkg/auth"
)

const (
	msgMissingToken = "требуется авторизация"
	msgInvalidToken = "недействительный токен"
	msgForbidden    = "недостаточно прав"
)

type contextKey string

const (
	accountIDKey contextKey = "accountID"
	roleKey      contextKey = "role"
)

// TokenParser проверяет access-токен
type TokenParser interface {
	Parse(tokenStr string) (*auth.Claims, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth проверяет заголовок Authorization: Bearer <JWT> и кладёт аккаунт и роль в контекст
func Auth(parser TokenParser, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				logger.Warn("%s %s - Missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims, err := parser.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			accountID, err := claims.AccountID()
			if err != nil {
				logger.Warn("%s %s - Invalid token subject: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			ctx := WithCaller(r.Context(), domain.Caller{AccountID: accountID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает только запросы с одной из ролей; ставится после Auth
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := GetRole(r.Context())
			if _, ok := allowed[role]; !ok {
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithCaller кладёт аккаунт и роль в контекст
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, caller.AccountID)
	return context.WithValue(ctx, roleKey, caller.Role)
}

// GetAccountID возвращает ID аккаунта, положенный Auth
func GetAccountID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountIDKey).(int64)
	return id, ok
}

// GetRole возвращает роль, положенную Auth
func GetRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}

// GetCaller собирает domain.Caller из контекста
func GetCaller(ctx context.Context) (domain.Caller, bool) {
	id, ok := GetAccountID(ctx)
	if !ok {
		return domain.Caller{}, false
	}
	role, _ := GetRole(ctx)
	return domain.Caller{AccountID: id, Role: role}, true
}
