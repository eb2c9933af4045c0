package middleware

import (
	"context"
	"net/http"
)

// AdminSessionCookie содержит имя cookie сессии администратора. Cookie живёт до закрытия
// браузера, как sessionStorage в браузерной версии панели.
const AdminSessionCookie = "levenuts_admin_session"

// SessionChecker проверяет токен сессии администратора.
type SessionChecker interface {
	Authenticated(ctx context.Context, token string) bool
}

// AdminSession пропускает запрос дальше только при открытой сессии администратора,
// иначе передаёт его в denied.
func AdminSession(checker SessionChecker, denied http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.Authenticated(r.Context(), AdminSessionToken(r)) {
				denied(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminSessionToken возвращает токен сессии из cookie запроса.
func AdminSessionToken(r *http.Request) string {
	cookie, err := r.Cookie(AdminSessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetAdminSessionCookie выставляет сессионный cookie без срока действия.
func SetAdminSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminSessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearAdminSessionCookie удаляет cookie сессии.
func ClearAdminSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
