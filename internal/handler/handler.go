// Package handler содержит HTTP-обработчики API витрины Levenuts.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/levenuts/storefront/internal/admin"
	"github.com/levenuts/storefront/internal/catalog"
	"github.com/levenuts/storefront/internal/checkout"
	"github.com/levenuts/storefront/internal/middleware"
	"github.com/levenuts/storefront/internal/model"
	"github.com/levenuts/storefront/internal/order"
	"github.com/levenuts/storefront/internal/pix"
	"github.com/levenuts/storefront/internal/validation"
)

// CartService определяет операции с корзиной посетителя.
type CartService interface {
	Items(ctx context.Context, profile string) (model.Cart, error)
	Add(ctx context.Context, profile string, p model.Product) (model.Cart, error)
	SetQuantity(ctx context.Context, profile, id string, qty float64) (model.Cart, error)
	Increment(ctx context.Context, profile, id string) (model.Cart, error)
	Decrement(ctx context.Context, profile, id string) (model.Cart, error)
	Remove(ctx context.Context, profile, id string) (model.Cart, error)
}

// CheckoutService определяет оформление и подтверждение заказов.
type CheckoutService interface {
	Checkout(ctx context.Context, profile string, req checkout.Request) (model.Order, error)
	ConfirmPayment(ctx context.Context, id string) (model.Order, error)
	Order(ctx context.Context, id string) (model.Order, error)
}

// AdminService определяет контракт административной панели.
type AdminService interface {
	Mode(ctx context.Context) (admin.Mode, error)
	Setup(ctx context.Context, password, confirm string) (string, error)
	Login(ctx context.Context, password string) (string, error)
	Authenticated(ctx context.Context, token string) bool
	Logout(token string)
	Reset(ctx context.Context) error
	Orders(ctx context.Context) ([]model.Order, error)
}

// Catalog отдаёт товары витрины.
type Catalog interface {
	Lookup(id string) (model.Product, error)
	Products() []model.Product
}

// PixService формирует инструкции оплаты и изображение QR-кода.
type PixService interface {
	Instructions(orderID string, amount float64) pix.Instructions
	FetchQRCode(ctx context.Context, payload string) ([]byte, string, error)
}

// Services объединяет зависимости обработчиков. Catalog может быть nil:
// тогда корзина принимает товары из тела запроса.
type Services struct {
	Carts    CartService
	Checkout CheckoutService
	Admin    AdminService
	Catalog  Catalog
	Pix      PixService
}

// Handler реализует HTTP-обработчики API витрины.
type Handler struct {
	carts    CartService
	checkout CheckoutService
	admin    AdminService
	catalog  Catalog
	pix      PixService
	logger   *zap.Logger
	profiles *middleware.ProfileMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Services, logger *zap.Logger, profiles *middleware.ProfileMiddleware) *Handler {
	return &Handler{
		carts:    s.Carts,
		checkout: s.Checkout,
		admin:    s.Admin,
		catalog:  s.Catalog,
		pix:      s.Pix,
		logger:   logger,
		profiles: profiles,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// fail переводит ошибку сервиса в HTTP-ответ. Непредвиденные ошибки логируются
// и отдаются клиенту без подробностей.
func (h *Handler) fail(w http.ResponseWriter, err error, msg string, fields ...zap.Field) {
	switch {
	case errors.Is(err, validation.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, order.ErrNotFound), errors.Is(err, catalog.ErrProductNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, admin.ErrAlreadyConfigured),
		errors.Is(err, admin.ErrNotConfigured):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, admin.ErrInvalidPassword):
		writeError(w, http.StatusUnauthorized, "Senha incorreta.")
	case errors.Is(err, context.Canceled):
		h.logger.Info(msg+": request cancelled", fields...)
	default:
		h.logger.Error(msg, append(fields, zap.Error(err))...)
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func profileFrom(r *http.Request) string {
	id, _ := middleware.GetProfileFromContext(r.Context())
	return id
}
