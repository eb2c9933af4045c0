// Package middleware содержит HTTP middleware витрины.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const profileIDKey contextKey = "profileID"

const (
	profileCookieName = "levenuts_profile"
	profileCookieTTL  = 365 * 24 * time.Hour
)

// ProfileMiddleware привязывает запрос к профилю посетителя по подписанному cookie.
// Профиль заменяет браузерный localStorage: корзина хранится в его пространстве имён.
type ProfileMiddleware struct {
	secretKey []byte
}

// NewProfileMiddleware создаёт middleware профиля с указанным секретом подписи.
// Пустой секрет заменяется случайным, тогда профили не переживают перезапуск.
func NewProfileMiddleware(secret string) *ProfileMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &ProfileMiddleware{
		secretKey: key,
	}
}

// Middleware читает профиль из cookie, а при его отсутствии или неверной подписи
// создаёт новый профиль и выставляет cookie.
func (p *ProfileMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			id string
			ok bool
		)
		if cookie, err := r.Cookie(profileCookieName); err == nil {
			id, ok = p.parse(cookie.Value)
		}

		if !ok {
			id = uuid.NewString()
			p.SetProfileCookie(w, id)
		}

		next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), id)))
	})
}

// SetProfileCookie выставляет подписанный cookie профиля.
func (p *ProfileMiddleware) SetProfileCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     profileCookieName,
		Value:    id + "." + p.sign(id),
		Path:     "/",
		Expires:  time.Now().Add(profileCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (p *ProfileMiddleware) sign(id string) string {
	mac := hmac.New(sha256.New, p.secretKey)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *ProfileMiddleware) parse(value string) (string, bool) {
	id, signature, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}

	if !hmac.Equal([]byte(signature), []byte(p.sign(id))) {
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}

	return id, true
}

// WithProfile кладёт идентификатор профиля в контекст.
func WithProfile(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, profileIDKey, id)
}

// GetProfileFromContext извлекает идентификатор профиля посетителя из контекста запроса.
func GetProfileFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(profileIDKey).(string)
	return id, ok && id != ""
}
