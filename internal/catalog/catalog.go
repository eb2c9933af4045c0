// Package catalog загружает каталог товаров витрины из YAML-файла.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/levenuts/storefront/internal/model"
)

// ErrProductNotFound возвращается, если товара нет в каталоге.
var ErrProductNotFound = errors.New("product not found")

// Catalog хранит неизменяемый список товаров с поиском по идентификатору.
type Catalog struct {
	products []model.Product
	byID     map[string]model.Product
}

type file struct {
	Products []model.Product `yaml:"products"`
}

// Load читает каталог из файла.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse разбирает каталог. Товары без идентификатора, с отрицательной ценой или
// с повторяющимся идентификатором считаются ошибкой.
func Parse(r io.Reader) (*Catalog, error) {
	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		products: make([]model.Product, 0, len(doc.Products)),
		byID:     make(map[string]model.Product, len(doc.Products)),
	}

	for i, p := range doc.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product #%d: empty id", i+1)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %s: negative price", p.ID)
		}
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("product %s: duplicate id", p.ID)
		}
		c.byID[p.ID] = p
		c.products = append(c.products, p)
	}

	return c, nil
}

// Lookup возвращает товар по идентификатору.
func (c *Catalog) Lookup(id string) (model.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return model.Product{}, ErrProductNotFound
	}
	return p, nil
}

// Products возвращает товары в порядке файла.
func (c *Catalog) Products() []model.Product {
	res := make([]model.Product, len(c.products))
	copy(res, c.products)
	return res
}
