package admin

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Verifier вычисляет и проверяет дайджест пароля администратора.
type Verifier interface {
	Digest(password string) string
	Verify(password, digest string) bool
}

// SHA256Verifier хранит пароль как hex-строку SHA-256, совместимую с дайджестом
// браузерной версии панели.
type SHA256Verifier struct{}

// Digest возвращает hex SHA-256 пароля.
func (SHA256Verifier) Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Verify сравнивает дайджест пароля с сохранённым за постоянное время.
func (v SHA256Verifier) Verify(password, digest string) bool {
	got := v.Digest(password)
	return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(digest))) == 1
}
