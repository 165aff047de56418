package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"product_manager/internal/domain"
	"product_manager/pkg/money"

	"gopkg.in/yaml.v3"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

const maxDescriptionWidth = 48

// UnknownFormatError is returned for an --output value that is not supported.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown output format %q (want table, json or yaml)", e.Format)
}

// WriteProducts prints products in the requested format.
func WriteProducts(w io.Writer, products []domain.Product, format string) error {
	switch format {
	case "", FormatTable:
		writeProductTable(w, products)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(products); err != nil {
			return err
		}
		return enc.Close()
	default:
		return &UnknownFormatError{Format: format}
	}
}

func writeProductTable(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "Không có sản phẩm")
		return
	}
	table := NewTable()
	table.SetMaxWidth(3, maxDescriptionWidth)
	table.AddRow(Bold("ID"), Bold("Tên"), Bold("Giá"), Bold("Mô tả"), Bold("Ảnh"))
	for _, p := range products {
		table.AddRow(Gray(p.ID), p.Name, Green(money.VND(p.Price)), p.Description, p.Image)
	}
	table.Render(w)
}
