package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as served by the catalog API. ID is assigned by
// the server.
type Product struct {
	ID          string          `json:"_id"         yaml:"id"`
	Name        string          `json:"name"        yaml:"name"`
	Price       decimal.Decimal `json:"price"       yaml:"price"`
	Description string          `json:"description" yaml:"description"`
	Image       string          `json:"image"       yaml:"image"`
}

// UnmarshalJSON accepts both "_id" and "id" for the identifier.
func (p *Product) UnmarshalJSON(data []byte) error {
	type wire struct {
		MongoID     string          `json:"_id"`
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Price       decimal.Decimal `json:"price"`
		Description string          `json:"description"`
		Image       string          `json:"image"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.ID = w.MongoID
	if p.ID == "" {
		p.ID = w.ID
	}
	p.Name = w.Name
	p.Price = w.Price
	p.Description = w.Description
	p.Image = w.Image
	return nil
}

// MarshalJSON writes the price as a JSON number, the way the catalog API
// serves it.
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string          `json:"_id"`
		Name        string          `json:"name"`
		Price       json.RawMessage `json:"price"`
		Description string          `json:"description"`
		Image       string          `json:"image"`
	}{p.ID, p.Name, json.RawMessage(p.Price.String()), p.Description, p.Image})
}

// MarshalYAML renders the price as a plain number string.
func (p Product) MarshalYAML() (interface{}, error) {
	return struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Price       string `yaml:"price"`
		Description string `yaml:"description"`
		Image       string `yaml:"image"`
	}{p.ID, p.Name, p.Price.String(), p.Description, p.Image}, nil
}

// FindProduct returns the product with the given id from a list.
func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
