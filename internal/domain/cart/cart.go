// Package cart holds the in-memory working sale. A cart is not
// persisted; it becomes durable only when the sale processor commits
// it.
package cart

import (
	"context"
	"fmt"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/catalog"
)

// State of the working cart.
type State int

const (
	StateEmpty State = iota
	StateFilling
	StateReadyToPay
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFilling:
		return "filling"
	case StateReadyToPay:
		return "ready-to-pay"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Line is one cart entry. Harga and Diskon are per-unit snapshots
// taken when the product was added; later catalog edits do not reach
// an open cart.
type Line struct {
	ProductID int64       `json:"product_id"`
	Nama      string      `json:"nama"`
	Harga     types.Money `json:"harga"`
	Jumlah    int         `json:"jumlah"`
	Diskon    types.Money `json:"diskon"`
}

// Subtotal returns jumlah * (harga - diskon), rounded.
func (l *Line) Subtotal() types.Money {
	unit := l.Harga.Sub(l.Diskon)
	return types.RoundMoney(unit.Mul(types.NewMoneyFromInt(int64(l.Jumlah))))
}

// ProductLookup is the catalog slice the cart needs. Satisfied by
// catalog.Service and catalog.Repository.
type ProductLookup interface {
	GetByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// Cart is the single working sale of the terminal. Lines keep
// insertion order; adding an already-present product increments its
// existing line instead of appending.
type Cart struct {
	lines    []Line
	state    State
	Kasir    string
	products ProductLookup
}

// New creates an empty cart backed by the given product lookup.
func New(products ProductLookup) *Cart {
	return &Cart{products: products, state: StateEmpty}
}

// State returns the current lifecycle state.
func (c *Cart) State() State {
	return c.state
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total returns the sum of line subtotals, recomputed from the lines
// on every call.
func (c *Cart) Total() types.Money {
	total := types.ZeroMoney()
	for i := range c.lines {
		total = total.Add(c.lines[i].Subtotal())
	}
	return types.RoundMoney(total)
}

// ItemCount returns the total unit count across lines.
func (c *Cart) ItemCount() int {
	n := 0
	for i := range c.lines {
		n += c.lines[i].Jumlah
	}
	return n
}

func (c *Cart) settle() {
	if len(c.lines) == 0 {
		c.state = StateEmpty
		return
	}
	if c.state != StateReadyToPay {
		c.state = StateFilling
	}
}

// AddProduct adds qty units of a product to the cart, incrementing the
// existing line when the product is already present. The prospective
// line quantity is checked against current stock; nothing is reserved.
func (c *Cart) AddProduct(ctx context.Context, productID int64, qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("jumlah harus lebih dari nol")
	}
	if c.state == StateReadyToPay {
		return apperror.NewConflict("keranjang sudah siap dibayar")
	}

	p, err := c.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	idx := c.findLine(productID)
	want := qty
	if idx >= 0 {
		want += c.lines[idx].Jumlah
	}
	if want > p.Stok {
		return apperror.NewInsufficientStock(p.Nama, want, p.Stok)
	}

	if idx >= 0 {
		c.lines[idx].Jumlah = want
	} else {
		c.lines = append(c.lines, Line{
			ProductID: p.ID,
			Nama:      p.Nama,
			Harga:     p.Harga,
			Jumlah:    qty,
			Diskon:    types.ZeroMoney(),
		})
	}
	c.settle()
	return nil
}

// SetLineQuantity replaces a line's quantity. Zero removes the line.
func (c *Cart) SetLineQuantity(ctx context.Context, productID int64, qty int) error {
	if qty < 0 {
		return apperror.NewValidation("jumlah tidak boleh negatif")
	}
	if c.state == StateReadyToPay {
		return apperror.NewConflict("keranjang sudah siap dibayar")
	}

	idx := c.findLine(productID)
	if idx < 0 {
		return apperror.NewNotFound("baris keranjang", productID)
	}

	if qty == 0 {
		return c.RemoveLine(productID)
	}

	p, err := c.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if qty > p.Stok {
		return apperror.NewInsufficientStock(p.Nama, qty, p.Stok)
	}

	c.lines[idx].Jumlah = qty
	c.settle()
	return nil
}

// SetLineDiscount sets the per-unit discount of a line. The discount
// may not be negative or exceed the unit price.
func (c *Cart) SetLineDiscount(productID int64, diskon types.Money) error {
	if c.state == StateReadyToPay {
		return apperror.NewConflict("keranjang sudah siap dibayar")
	}

	idx := c.findLine(productID)
	if idx < 0 {
		return apperror.NewNotFound("baris keranjang", productID)
	}
	if diskon.IsNegative() {
		return apperror.NewValidation("diskon tidak boleh negatif")
	}
	if diskon.GreaterThan(c.lines[idx].Harga) {
		return apperror.NewValidation("diskon melebihi harga satuan")
	}

	c.lines[idx].Diskon = types.RoundMoney(diskon)
	return nil
}

// RemoveLine deletes a line; remaining lines keep their order. An
// empty cart falls back to the empty state.
func (c *Cart) RemoveLine(productID int64) error {
	idx := c.findLine(productID)
	if idx < 0 {
		return apperror.NewNotFound("baris keranjang", productID)
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	if c.state == StateReadyToPay && len(c.lines) == 0 {
		c.state = StateEmpty
	} else {
		c.settle()
	}
	return nil
}

// Checkout moves a non-empty cart to the ready-to-pay state. Lines are
// frozen until payment completes or the checkout is reopened.
func (c *Cart) Checkout() error {
	if len(c.lines) == 0 {
		return apperror.NewValidation("keranjang masih kosong")
	}
	if !c.Total().IsPositive() {
		return apperror.NewValidation("total transaksi harus lebih dari nol")
	}
	c.state = StateReadyToPay
	return nil
}

// Reopen returns a ready-to-pay cart to the filling state so lines can
// change again.
func (c *Cart) Reopen() {
	c.settleReopen()
}

func (c *Cart) settleReopen() {
	if len(c.lines) == 0 {
		c.state = StateEmpty
	} else {
		c.state = StateFilling
	}
}

// Reset empties the cart and returns it to the empty state.
func (c *Cart) Reset() {
	c.lines = nil
	c.state = StateEmpty
}

// Restore replaces the cart content with previously parked lines and
// moves to the filling state. The current content is discarded.
func (c *Cart) Restore(lines []Line, kasir string) {
	c.lines = make([]Line, len(lines))
	copy(c.lines, lines)
	c.Kasir = kasir
	c.settleReopen()
}

func (c *Cart) findLine(productID int64) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
