package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	csrfCookieName = "csrf_token"
	csrfFieldName  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
)

const csrfTokenKey contextKey = "csrf_token"

// CSRFMiddleware реализует схему double-submit cookie.
// На безопасных методах выдаёт токен (cookie НЕ HttpOnly, чтобы формы и JS
// могли его прочитать), на POST сверяет cookie со скрытым полем формы или
// заголовком X-CSRF-Token.
func CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			token := csrfTokenFromCookie(r)
			if token == "" {
				token = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), csrfTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodDelete {
			token := csrfTokenFromCookie(r)
			if token == "" {
				http.Error(w, "CSRF token missing in cookies", http.StatusForbidden)
				return
			}

			supplied := r.Header.Get(csrfHeaderName)
			if supplied == "" {
				supplied = r.FormValue(csrfFieldName)
			}
			if supplied == "" {
				http.Error(w, "CSRF token missing in request", http.StatusForbidden)
				return
			}

			if supplied != token {
				http.Error(w, "CSRF token mismatch", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), csrfTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func csrfTokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// CSRFToken возвращает токен текущего запроса для вставки в формы
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(csrfTokenKey).(string); ok {
		return token
	}
	return ""
}
