// Package model содержит доменные сущности витрины Levenuts.
package model

import (
	"encoding/json"
	"time"
)

// PaymentMethod описывает способ оплаты заказа.
type PaymentMethod string

const (
	PaymentMethodPix  PaymentMethod = "pix"
	PaymentMethodCard PaymentMethod = "card"
)

// OrderStatus описывает статус оплаты заказа.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// Product описывает товар каталога, из которого строится позиция корзины.
type Product struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
	Image string  `json:"image" yaml:"image"`
}

// LineItem описывает одну позицию корзины.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"img"`
}

// UnmarshalJSON принимает изображение как под ключом img, так и под ключом image.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
		Img      string  `json:"img"`
		Image    string  `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	li.ID = raw.ID
	li.Name = raw.Name
	li.Price = raw.Price
	li.Quantity = raw.Quantity
	li.Image = raw.Img
	if li.Image == "" {
		li.Image = raw.Image
	}
	return nil
}

// Buyer содержит данные покупателя из формы оформления заказа.
type Buyer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order описывает оформленный заказ. После создания меняется только Status.
type Order struct {
	ID            string        `json:"id"`
	CreatedAt     time.Time     `json:"createdAt"`
	Buyer         Buyer         `json:"buyer"`
	Cart          []LineItem    `json:"cart"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        OrderStatus   `json:"status"`
}
