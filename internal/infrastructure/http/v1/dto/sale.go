package dto

import (
	"time"

	"tokopos/internal/domain/cart"
	"tokopos/internal/domain/pending"
	"tokopos/internal/domain/sale"
)

// AddItemRequest adds product units to the cart. Qty defaults to 1.
type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`

	// Barcode may be given instead of ProductID, matching scanner
	// input.
	Barcode string `json:"barcode"`
}

// SetQuantityRequest replaces a line quantity; zero removes the line.
type SetQuantityRequest struct {
	Qty int `json:"qty"`
}

// SetDiscountRequest sets the per-unit discount of a line.
type SetDiscountRequest struct {
	Diskon string `json:"diskon" binding:"required"`
}

// CartLineResponse is the wire view of one cart line.
type CartLineResponse struct {
	ProductID int64  `json:"product_id"`
	Nama      string `json:"nama"`
	Harga     string `json:"harga"`
	Jumlah    int    `json:"jumlah"`
	Diskon    string `json:"diskon"`
	Subtotal  string `json:"subtotal"`
}

// CartResponse is the wire view of the working cart.
type CartResponse struct {
	State string             `json:"state"`
	Lines []CartLineResponse `json:"lines"`
	Total string             `json:"total"`
	Items int                `json:"items"`
}

// FromCart maps the cart to its wire view.
func FromCart(c *cart.Cart) CartResponse {
	lines := c.Lines()
	out := CartResponse{
		State: c.State().String(),
		Lines: make([]CartLineResponse, 0, len(lines)),
		Total: c.Total().StringFixed(2),
		Items: c.ItemCount(),
	}
	for i := range lines {
		l := &lines[i]
		out.Lines = append(out.Lines, CartLineResponse{
			ProductID: l.ProductID,
			Nama:      l.Nama,
			Harga:     l.Harga.StringFixed(2),
			Jumlah:    l.Jumlah,
			Diskon:    l.Diskon.StringFixed(2),
			Subtotal:  l.Subtotal().StringFixed(2),
		})
	}
	return out
}

// PayRequest settles the ready-to-pay cart.
type PayRequest struct {
	Tender string `json:"tender" binding:"required"`
}

// PayResponse reports the committed sale.
type PayResponse struct {
	TransaksiID int64  `json:"transaksi_id"`
	Faktur      string `json:"no_faktur"`
	Tanggal     string `json:"tanggal"`
	Total       string `json:"total"`
	Change      string `json:"change"`
	ReceiptPath string `json:"receipt_path"`

	// ReceiptError is set when the sale committed but the receipt
	// could not be produced.
	ReceiptError string `json:"receipt_error,omitempty"`
}

// FromSaleResult maps a commit result to the wire view.
func FromSaleResult(res *sale.Result) PayResponse {
	out := PayResponse{
		TransaksiID: res.Transaction.ID,
		Faktur:      res.Transaction.Faktur,
		Tanggal:     res.Transaction.Tanggal,
		Total:       res.Transaction.Total.StringFixed(2),
		Change:      res.Change.StringFixed(2),
		ReceiptPath: res.ReceiptPath,
	}
	if res.ReceiptErr != nil {
		out.ReceiptError = res.ReceiptErr.Error()
	}
	return out
}

// ParkRequest parks the working cart.
type ParkRequest struct {
	Note string `json:"note"`
}

// PendingResponse is the wire view of a parked cart.
type PendingResponse struct {
	ID       int64     `json:"id"`
	Total    string    `json:"total"`
	Items    int       `json:"items"`
	Kasir    string    `json:"kasir"`
	Note     string    `json:"note"`
	ParkedAt time.Time `json:"parked_at"`
}

// FromSnapshot maps a parked cart to its wire view.
func FromSnapshot(s *pending.Snapshot) PendingResponse {
	items := 0
	for i := range s.Lines {
		items += s.Lines[i].Jumlah
	}
	return PendingResponse{
		ID:       s.ID,
		Total:    s.Total.StringFixed(2),
		Items:    items,
		Kasir:    s.Kasir,
		Note:     s.Note,
		ParkedAt: s.ParkedAt,
	}
}
