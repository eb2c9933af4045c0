// Package validation содержит проверки формата данных формы оформления заказа.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalid обозначает любую ошибку валидации: все Error сопоставляются с ним через errors.Is.
var ErrInvalid = errors.New("invalid input")

// Error несёт одно понятное пользователю сообщение о неверных данных.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is позволяет сравнивать любую ошибку валидации с ErrInvalid.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Errorf создаёт ошибку валидации с отформатированным сообщением.
func Errorf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cardRe   = regexp.MustCompile(`^\d{12,19}$`)
	cvcRe    = regexp.MustCompile(`^\d{3,4}$`)
	expiryRe = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

// IsEmail проверяет, что строка имеет вид local@domain.tld.
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// NormalizeCardNumber удаляет пробелы из номера карты.
func NormalizeCardNumber(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// IsCardNumber проверяет, что номер карты состоит из 12–19 цифр.
// Контрольная сумма не проверяется.
func IsCardNumber(s string) bool {
	return cardRe.MatchString(NormalizeCardNumber(s))
}

// IsCVC проверяет, что код безопасности состоит из 3–4 цифр.
func IsCVC(s string) bool {
	return cvcRe.MatchString(strings.TrimSpace(s))
}

// IsExpiry проверяет формат срока действия MM/YY. Сам срок не проверяется.
func IsExpiry(s string) bool {
	return expiryRe.MatchString(strings.TrimSpace(s))
}
