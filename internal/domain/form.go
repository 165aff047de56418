package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// BlankFieldsMessage is the alert shown when a form is submitted incomplete.
const BlankFieldsMessage = "Nhập đủ thông tin!"

// InvalidPriceMessage is the alert shown when the price is not a number.
const InvalidPriceMessage = "Giá phải là số!"

// ProductForm is the raw, unsubmitted draft behind the create/edit form.
// Price stays text until it is sent.
type ProductForm struct {
	Name        string `form:"name"        json:"name"        binding:"required"`
	Price       string `form:"price"       json:"price"       binding:"required,price"`
	Description string `form:"description" json:"description" binding:"required"`
	Image       string `form:"image"       json:"image"       binding:"required"`
}

// CreatePayload is the POST /product body.
type CreatePayload struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	PriceGoc    string `json:"priceGoc"`
	Quantity    int    `json:"quantity"`
}

// UpdatePayload is the PUT /update/products/:id body.
type UpdatePayload struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// FormFromProduct prefills a draft for edit mode.
func FormFromProduct(p Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		Price:       p.Price.String(),
		Description: p.Description,
		Image:       p.Image,
	}
}

// IsZero reports whether every field of the draft is empty.
func (f ProductForm) IsZero() bool {
	return f == ProductForm{}
}

// Validate checks that all four fields are non-empty and that the price is a
// number. Fields are reported in form order.
func (f ProductForm) Validate() error {
	var missing []string
	if f.Name == "" {
		missing = append(missing, "name")
	}
	if f.Price == "" {
		missing = append(missing, "price")
	}
	if f.Description == "" {
		missing = append(missing, "description")
	}
	if f.Image == "" {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: BlankFieldsMessage}
	}
	if _, err := ParsePrice(f.Price); err != nil {
		return &ValidationError{Fields: []string{"price"}, Message: InvalidPriceMessage}
	}
	return nil
}

var errExponent = errors.New("exponent notation is not accepted")

// ParsePrice is the one price rule every front end applies: plain decimal
// notation such as "120000" or "99.5". Exponent forms are refused because the
// typed text is sent upstream as is.
func ParsePrice(s string) (decimal.Decimal, error) {
	if strings.ContainsAny(s, "eE") {
		return decimal.Decimal{}, errExponent
	}
	return decimal.NewFromString(s)
}

// CreatePayload builds the create body. The list price is sent as the
// original price and new products start with one unit in stock.
func (f ProductForm) CreatePayload() CreatePayload {
	return CreatePayload{
		Name:        f.Name,
		Price:       f.Price,
		Description: f.Description,
		Image:       f.Image,
		PriceGoc:    f.Price,
		Quantity:    1,
	}
}

func (f ProductForm) UpdatePayload() UpdatePayload {
	return UpdatePayload{
		Name:        f.Name,
		Price:       f.Price,
		Description: f.Description,
		Image:       f.Image,
	}
}
