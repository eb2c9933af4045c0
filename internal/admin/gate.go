// Package admin реализует вход в панель администратора: создание пароля,
// вход, выход, сброс пароля и просмотр заказов.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/levenuts/storefront/internal/model"
	"github.com/levenuts/storefront/internal/storage"
	"github.com/levenuts/storefront/internal/validation"
)

// MinPasswordLength задаёт минимальную длину пароля администратора.
const MinPasswordLength = 6

// Mode определяет режим формы входа.
type Mode string

const (
	ModeSetup Mode = "setup"
	ModeLogin Mode = "login"
)

var (
	// ErrAlreadyConfigured возвращается при попытке создать пароль, когда он уже задан.
	ErrAlreadyConfigured = errors.New("admin password already configured")
	// ErrNotConfigured возвращается при попытке входа, когда пароль ещё не задан.
	ErrNotConfigured = errors.New("admin password not configured")
	// ErrInvalidPassword возвращается при неверном пароле.
	ErrInvalidPassword = errors.New("invalid password")
)

// OrderLister отдаёт список заказов для панели.
type OrderLister interface {
	List(ctx context.Context) ([]model.Order, error)
}

// Gate хранит дайджест пароля в хранилище, а сессии держит только в памяти процесса.
// Сессия действительна, пока в хранилище лежит тот же дайджест, при котором она
// открыта: сброс пароля другим процессом закрывает её.
type Gate struct {
	store    storage.Store
	orders   OrderLister
	verifier Verifier

	mu       sync.Mutex
	sessions map[string]session
}

type session struct {
	digest   string
	openedAt time.Time
}

// NewGate создаёт шлюз администратора. Если verifier не задан, используется SHA256Verifier.
func NewGate(store storage.Store, orders OrderLister, verifier Verifier) *Gate {
	if verifier == nil {
		verifier = SHA256Verifier{}
	}
	return &Gate{
		store:    store,
		orders:   orders,
		verifier: verifier,
		sessions: make(map[string]session),
	}
}

func (g *Gate) digest(ctx context.Context) (string, error) {
	data, err := g.store.Get(ctx, storage.AdminHashKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read admin digest: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Mode возвращает ModeSetup, пока пароль не задан, иначе ModeLogin.
func (g *Gate) Mode(ctx context.Context) (Mode, error) {
	d, err := g.digest(ctx)
	if err != nil {
		return "", err
	}
	if d == "" {
		return ModeSetup, nil
	}
	return ModeLogin, nil
}

// Setup задаёт пароль администратора и открывает сессию.
func (g *Gate) Setup(ctx context.Context, password, confirm string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	d, err := g.digest(ctx)
	if err != nil {
		return "", err
	}
	if d != "" {
		return "", ErrAlreadyConfigured
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", validation.Errorf("Senha mínima %d caracteres.", MinPasswordLength)
	}
	if password != confirm {
		return "", validation.Errorf("Senhas não coincidem.")
	}

	digest := g.verifier.Digest(password)
	if err := g.store.Set(ctx, storage.AdminHashKey, []byte(digest)); err != nil {
		return "", fmt.Errorf("save admin digest: %w", err)
	}

	return g.openSession(strings.TrimSpace(digest)), nil
}

// Login проверяет пароль и открывает сессию. При неверном пароле сессия не создаётся.
func (g *Gate) Login(ctx context.Context, password string) (string, error) {
	d, err := g.digest(ctx)
	if err != nil {
		return "", err
	}
	if d == "" {
		return "", ErrNotConfigured
	}
	if password == "" {
		return "", validation.Errorf("Informe a senha.")
	}

	if !g.verifier.Verify(password, d) {
		return "", ErrInvalidPassword
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.openSession(d), nil
}

func (g *Gate) openSession(digest string) string {
	token := uuid.NewString()
	g.sessions[token] = session{digest: digest, openedAt: time.Now()}
	return token
}

// Authenticated сообщает, открыта ли сессия с таким токеном при текущем пароле.
// Сессии, открытые до сброса или смены пароля, закрываются.
func (g *Gate) Authenticated(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	d, err := g.digest(ctx)
	if err != nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	sess, ok := g.sessions[token]
	if !ok {
		return false
	}
	if d == "" || sess.digest != d {
		delete(g.sessions, token)
		return false
	}
	return true
}

// Logout закрывает сессию.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	delete(g.sessions, token)
	g.mu.Unlock()
}

// Reset удаляет пароль и все сессии, после чего шлюз снова в режиме создания пароля.
func (g *Gate) Reset(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.store.Delete(ctx, storage.AdminHashKey); err != nil {
		return fmt.Errorf("delete admin digest: %w", err)
	}

	clear(g.sessions)
	return nil
}

// Orders возвращает заказы для панели.
func (g *Gate) Orders(ctx context.Context) ([]model.Order, error) {
	return g.orders.List(ctx)
}
