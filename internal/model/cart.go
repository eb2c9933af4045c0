package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// Cart представляет упорядоченный список позиций с уникальными идентификаторами.
type Cart []LineItem

// Totals содержит производные значения корзины.
type Totals struct {
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// Normalize отбрасывает позиции без идентификатора или с количеством меньше единицы
// и сливает повторяющиеся идентификаторы в первое вхождение.
func (c Cart) Normalize() Cart {
	res := make(Cart, 0, len(c))
	index := make(map[string]int, len(c))

	for _, it := range c {
		if it.ID == "" || it.Quantity < 1 {
			continue
		}
		if it.Price < 0 {
			it.Price = 0
		}
		if i, ok := index[it.ID]; ok {
			res[i].Quantity += it.Quantity
			continue
		}
		index[it.ID] = len(res)
		res = append(res, it)
	}

	return res
}

func (c Cart) indexOf(id string) int {
	for i, it := range c {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Add увеличивает количество существующей позиции на единицу либо добавляет новую.
// Товар без идентификатора игнорируется, в этом случае возвращается false.
func (c *Cart) Add(p Product) bool {
	if p.ID == "" {
		return false
	}

	if i := c.indexOf(p.ID); i >= 0 {
		(*c)[i].Quantity++
		return true
	}

	price := p.Price
	if price < 0 || math.IsNaN(price) {
		price = 0
	}

	*c = append(*c, LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    price,
		Quantity: 1,
		Image:    p.Image,
	})
	return true
}

// SetQuantity устанавливает количество позиции. Дробное значение округляется вниз,
// отрицательное приводится к нулю, нулевое удаляет позицию.
func (c *Cart) SetQuantity(id string, qty float64) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}

	n := 0
	if qty > 0 && !math.IsNaN(qty) {
		n = int(math.Min(math.Floor(qty), math.MaxInt32))
	}

	if n == 0 {
		*c = append((*c)[:i], (*c)[i+1:]...)
		return true
	}

	(*c)[i].Quantity = n
	return true
}

// Remove удаляет позицию, если она есть.
func (c *Cart) Remove(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	*c = append((*c)[:i], (*c)[i+1:]...)
	return true
}

// Find возвращает позицию по идентификатору.
func (c Cart) Find(id string) (LineItem, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c[i], true
	}
	return LineItem{}, false
}

// Totals пересчитывает количество и сумму по текущему списку позиций.
func (c Cart) Totals() Totals {
	var qty int
	sub := decimal.Zero

	for _, it := range c {
		qty += it.Quantity
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sub = sub.Add(line)
	}

	return Totals{
		Quantity: qty,
		Subtotal: sub.Round(2).InexactFloat64(),
	}
}

// Clone возвращает независимую копию корзины.
func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	res := make(Cart, len(c))
	copy(res, c)
	return res
}
