package dto

import (
	"tokopos/internal/core/types"
	"tokopos/internal/domain/catalog"
)

// ProductRequest creates or replaces a product. Harga is a decimal
// string to keep precision across the wire.
type ProductRequest struct {
	Barcode string `json:"barcode" binding:"required"`
	Nama    string `json:"nama" binding:"required"`
	Harga   string `json:"harga" binding:"required"`
	Stok    int    `json:"stok"`
}

// ToProduct converts the request into a domain product.
func (r *ProductRequest) ToProduct() (*catalog.Product, error) {
	harga, err := types.MoneyFromString(r.Harga)
	if err != nil {
		return nil, err
	}
	return &catalog.Product{
		Barcode: r.Barcode,
		Nama:    r.Nama,
		Harga:   harga,
		Stok:    r.Stok,
	}, nil
}

// AdjustStockRequest applies a stock delta.
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// SetStockRequest overwrites the stock with an absolute value.
type SetStockRequest struct {
	Stok int `json:"stok"`
}

// ProductResponse is the wire view of a product.
type ProductResponse struct {
	ID      int64  `json:"id"`
	Barcode string `json:"barcode"`
	Nama    string `json:"nama"`
	Harga   string `json:"harga"`
	Stok    int    `json:"stok"`
}

// FromProduct maps a product to its wire view.
func FromProduct(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:      p.ID,
		Barcode: p.Barcode,
		Nama:    p.Nama,
		Harga:   p.Harga.StringFixed(2),
		Stok:    p.Stok,
	}
}

// FromProducts maps a product slice to wire views.
func FromProducts(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, FromProduct(&products[i]))
	}
	return out
}
