// Package checkout реализует оформление заказа: проверку формы, имитацию оплаты,
// создание заказа и очистку корзины.
package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/levenuts/storefront/internal/model"
	"github.com/levenuts/storefront/internal/validation"
)

// CartStore описывает доступ к корзине посетителя, нужный при оформлении.
type CartStore interface {
	Items(ctx context.Context, profile string) (model.Cart, error)
	Take(ctx context.Context, profile string) (model.Cart, error)
	Restore(ctx context.Context, profile string, items model.Cart) (model.Cart, error)
}

// OrderStore описывает доступ к списку заказов.
type OrderStore interface {
	Append(ctx context.Context, o model.Order) error
	Get(ctx context.Context, id string) (model.Order, error)
	MarkPaid(ctx context.Context, id string) (model.Order, error)
}

// Card содержит реквизиты карты из формы. Проверяется только их формат.
type Card struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
}

// Request содержит данные формы оформления заказа.
type Request struct {
	Buyer         model.Buyer         `json:"buyer"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	Card          *Card               `json:"card,omitempty"`
}

// Options задаёт задержки имитации оплаты.
type Options struct {
	CardDelay time.Duration
	PixDelay  time.Duration
}

// DefaultOptions возвращает задержки браузерной версии витрины.
func DefaultOptions() Options {
	return Options{
		CardDelay: 1 * time.Second,
		PixDelay:  400 * time.Millisecond,
	}
}

// Service оформляет заказы.
type Service struct {
	carts  CartStore
	orders OrderStore
	opts   Options
	now    func() time.Time
}

// NewService создаёт сервис оформления заказов.
func NewService(carts CartStore, orders OrderStore, opts Options) *Service {
	return &Service{
		carts:  carts,
		orders: orders,
		opts:   opts,
		now:    time.Now,
	}
}

// Checkout проверяет форму, имитирует оплату и создаёт заказ из корзины посетителя.
// Заказ по карте создаётся оплаченным, заказ Pix ждёт подтверждения.
// Корзина забирается целиком после задержки оплаты: в заказ попадает то, что
// лежало в ней к этому моменту, а повторное оформление той же корзины получает
// ошибку пустой корзины. При ошибке валидации ничего не сохраняется.
func (s *Service) Checkout(ctx context.Context, profile string, req Request) (model.Order, error) {
	items, err := s.carts.Items(ctx, profile)
	if err != nil {
		return model.Order{}, fmt.Errorf("load cart: %w", err)
	}

	req = normalize(req)
	if err := validate(req, items); err != nil {
		return model.Order{}, err
	}

	status := model.OrderStatusPending
	delay := s.opts.PixDelay
	if req.PaymentMethod == model.PaymentMethodCard {
		status = model.OrderStatusPaid
		delay = s.opts.CardDelay
	}

	if err := wait(ctx, delay); err != nil {
		return model.Order{}, err
	}

	items, err = s.carts.Take(ctx, profile)
	if err != nil {
		return model.Order{}, fmt.Errorf("take cart: %w", err)
	}
	if len(items) == 0 {
		return model.Order{}, errEmptyCart()
	}

	now := s.now().UTC()
	order := model.Order{
		ID:            newOrderID(now),
		CreatedAt:     now,
		Buyer:         req.Buyer,
		Cart:          items.Clone(),
		Total:         items.Totals().Subtotal,
		PaymentMethod: req.PaymentMethod,
		Status:        status,
	}

	// корзина уже забрана, поэтому заказ сохраняется и при отмене запроса
	saveCtx := context.WithoutCancel(ctx)
	if err := s.orders.Append(saveCtx, order); err != nil {
		if _, rerr := s.carts.Restore(saveCtx, profile, items); rerr != nil {
			return model.Order{}, fmt.Errorf("save order: %w (restore cart: %v)", err, rerr)
		}
		return model.Order{}, fmt.Errorf("save order: %w", err)
	}

	return order, nil
}

// ConfirmPayment вручную помечает заказ Pix оплаченным.
func (s *Service) ConfirmPayment(ctx context.Context, id string) (model.Order, error) {
	return s.orders.MarkPaid(ctx, id)
}

// Order возвращает заказ по идентификатору.
func (s *Service) Order(ctx context.Context, id string) (model.Order, error) {
	return s.orders.Get(ctx, id)
}

func normalize(req Request) Request {
	req.Buyer.Name = strings.TrimSpace(req.Buyer.Name)
	req.Buyer.Email = strings.TrimSpace(req.Buyer.Email)
	req.Buyer.Phone = strings.TrimSpace(req.Buyer.Phone)
	req.Buyer.Address = strings.TrimSpace(req.Buyer.Address)

	if req.PaymentMethod == "" {
		req.PaymentMethod = model.PaymentMethodPix
	}

	return req
}

func errEmptyCart() error {
	return validation.Errorf("Carrinho vazio.")
}

func validate(req Request, items model.Cart) error {
	if len(items) == 0 {
		return errEmptyCart()
	}
	if req.Buyer.Name == "" {
		return validation.Errorf("Informe o nome completo.")
	}
	if !validation.IsEmail(req.Buyer.Email) {
		return validation.Errorf("Informe um email válido.")
	}

	switch req.PaymentMethod {
	case model.PaymentMethodPix:
		return nil
	case model.PaymentMethodCard:
		return validateCard(req.Card)
	default:
		return validation.Errorf("Forma de pagamento inválida.")
	}
}

func validateCard(c *Card) error {
	if c == nil {
		c = &Card{}
	}
	if !validation.IsCardNumber(c.Number) {
		return validation.Errorf("Número de cartão inválido (use apenas dígitos).")
	}
	if !validation.IsCVC(c.CVC) {
		return validation.Errorf("CVC inválido.")
	}
	if !validation.IsExpiry(c.Expiry) {
		return validation.Errorf("Data inválida (MM/AA).")
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// newOrderID строит идентификатор из времени создания и случайного суффикса.
func newOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "o" + strconv.FormatInt(now.UnixMilli(), 36) + suffix
}
