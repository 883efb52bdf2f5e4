package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
)

const bearerQueryParam = "bearer"

func ReqLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info("Входящий HTTP запрос",
				zap.String("method", r.Method),
				zap.String("url", r.URL.Path),
			)
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken достает токен DS из заголовка Authorization или параметра ?bearer=.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.URL.Query().Get(bearerQueryParam))
}

// BearerRequired отклоняет запросы к маршрутам демаршей без токена.
func BearerRequired() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresToken(r.URL.Path) && BearerToken(r) == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "unauthorized", "reason": "отсутствует токен"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requiresToken(path string) bool {
	prefixes := []string{"/archive/", "/download/", "/check/"}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func Recovery(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("Паника в обработчике запроса",
						zap.Any("error", err),
						zap.String("stack", string(debug.Stack())),
						zap.String("url", r.URL.Path),
						zap.String("method", r.Method),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error": "internal", "reason": "Внутренняя ошибка сервера"}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
