package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/levenuts/storefront/internal/checkout"
	"github.com/levenuts/storefront/internal/model"
)

type cartResponse struct {
	Items  model.Cart   `json:"items"`
	Totals model.Totals `json:"totals"`
}

func newCartResponse(c model.Cart) cartResponse {
	if c == nil {
		c = model.Cart{}
	}
	return cartResponse{Items: c, Totals: c.Totals()}
}

// GetProducts возвращает каталог товаров.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	products := h.catalog.Products()
	if len(products) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetCart возвращает позиции и итоги корзины текущего посетителя.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Items(r.Context(), profileFrom(r))
	if err != nil {
		h.fail(w, err, "get cart error")
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c))
}

type addItemRequest struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// AddItem добавляет товар в корзину. При заданном каталоге название, цена и
// изображение берутся из него, а неизвестный товар отклоняется. Запрос без
// идентификатора ничего не меняет.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	p := model.Product{ID: req.ID, Name: req.Name, Price: req.Price, Image: req.Image}
	if h.catalog != nil && req.ID != "" {
		var err error
		if p, err = h.catalog.Lookup(req.ID); err != nil {
			h.fail(w, err, "lookup product error", zap.String("product", req.ID))
			return
		}
	}

	c, err := h.carts.Add(r.Context(), profileFrom(r), p)
	if err != nil {
		h.fail(w, err, "add item error", zap.String("product", req.ID))
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c))
}

type quantityRequest struct {
	Quantity *float64 `json:"quantity"`
}

// SetQuantity задаёт количество позиции. Ноль удаляет позицию.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	id := chi.URLParam(r, "id")
	c, err := h.carts.SetQuantity(r.Context(), profileFrom(r), id, *req.Quantity)
	if err != nil {
		h.fail(w, err, "set quantity error", zap.String("product", id))
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c))
}

// IncrementItem увеличивает количество позиции на единицу.
func (h *Handler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.carts.Increment(r.Context(), profileFrom(r), id)
	if err != nil {
		h.fail(w, err, "increment item error", zap.String("product", id))
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c))
}

// DecrementItem уменьшает количество позиции на единицу.
func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.carts.Decrement(r.Context(), profileFrom(r), id)
	if err != nil {
		h.fail(w, err, "decrement item error", zap.String("product", id))
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c))
}

// RemoveItem удаляет позицию из корзины.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.carts.Remove(r.Context(), profileFrom(r), id)
	if err != nil {
		h.fail(w, err, "remove item error", zap.String("product", id))
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c))
}

// Checkout оформляет заказ из корзины текущего посетителя.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	o, err := h.checkout.Checkout(r.Context(), profileFrom(r), req)
	if err != nil {
		h.fail(w, err, "checkout error")
		return
	}

	h.logger.Info("order created",
		zap.String("order", o.ID),
		zap.String("method", string(o.PaymentMethod)),
		zap.String("status", string(o.Status)),
	)
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) pendingOrder(w http.ResponseWriter, r *http.Request) (model.Order, bool) {
	id := chi.URLParam(r, "id")
	o, err := h.checkout.Order(r.Context(), id)
	if err != nil {
		h.fail(w, err, "get order error", zap.String("order", id))
		return model.Order{}, false
	}
	if o.PaymentMethod != model.PaymentMethodPix || o.Status != model.OrderStatusPending {
		writeError(w, http.StatusConflict, "order is not awaiting Pix payment")
		return model.Order{}, false
	}
	return o, true
}

// GetPixInstructions возвращает инструкции оплаты ожидающего заказа Pix.
func (h *Handler) GetPixInstructions(w http.ResponseWriter, r *http.Request) {
	o, ok := h.pendingOrder(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, h.pix.Instructions(o.ID, o.Total))
}

// GetPixQRCode проксирует изображение QR-кода от внешнего генератора.
func (h *Handler) GetPixQRCode(w http.ResponseWriter, r *http.Request) {
	o, ok := h.pendingOrder(w, r)
	if !ok {
		return
	}

	in := h.pix.Instructions(o.ID, o.Total)
	img, contentType, err := h.pix.FetchQRCode(r.Context(), in.Payload)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		h.logger.Warn("fetch qr code error", zap.String("order", o.ID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "QR code unavailable")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// ConfirmPayment имитирует подтверждение оплаты заказа Pix.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := h.checkout.ConfirmPayment(r.Context(), id)
	if err != nil {
		h.fail(w, err, "confirm payment error", zap.String("order", id))
		return
	}

	h.logger.Info("order paid", zap.String("order", o.ID))
	writeJSON(w, http.StatusOK, o)
}
