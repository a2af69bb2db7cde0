package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoArmGo/AssetHub/internal/auth"
	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/GoArmGo/AssetHub/internal/usecase"
)

// SessionCookie это имя cookie, в которой провайдер идентификации хранит токен сессии.
const SessionCookie = "session_token"

// RequestLogger: middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Authenticate кладёт в контекст пользователя, если запрос несёт валидный токен.
// Запрос без токена или с невалидным токеном продолжается как анонимный,
// защищённые маршруты отклоняет RequireRole.
func Authenticate(secret []byte, users usecase.UserUseCase, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := auth.ParseToken(token, secret)
			if err != nil {
				logger.Debug("ignoring invalid session token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.ResolveSession(r.Context(), identity)
			if err != nil {
				respondWithDomainError(w, r, err, logger)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireRole пропускает только пользователей с одной из ролей. Без ролей достаточно сессии.
func RequireRole(logger *slog.Logger, roles ...domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := auth.Authorize(UserFromContext(r.Context()), roles...); err != nil {
				respondWithDomainError(w, r, err, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Region помечает запрос как пришедший из региона с ограничением контента.
// Код страны берётся из заголовка, который выставляет edge-прокси.
func Region(header string, restricted []string) func(next http.Handler) http.Handler {
	set := make(map[string]struct{}, len(restricted))
	for _, code := range restricted {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			set[code] = struct{}{}
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hit := set[strings.ToUpper(strings.TrimSpace(r.Header.Get(header)))]
			next.ServeHTTP(w, r.WithContext(withRegionRestricted(r.Context(), hit)))
		})
	}
}

// RateLimit ограничивает число запросов с одного IP в минуту.
// Ошибка счётчика не блокирует запрос. perMinute <= 0 отключает ограничение.
func RateLimit(limiter ports.RateLimiter, perMinute int, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if perMinute <= 0 || limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			count, err := limiter.Hit(r.Context(), key, time.Minute)
			if err != nil {
				logger.Warn("rate limiter unavailable", "ip", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count > perMinute {
				w.Header().Set("Retry-After", strconv.Itoa(60))
				respondWithError(w, http.StatusTooManyRequests, "too many requests", logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
