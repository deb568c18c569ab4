// Package receipt builds the printable record of a committed sale.
// Rendering to an actual printer or PDF library sits behind Renderer;
// the receipt itself is a plain value.
package receipt

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"tokopos/internal/core/types"
	"tokopos/pkg/logger"
)

// DisplayTimeLayout is the timestamp form printed on the receipt.
const DisplayTimeLayout = "02/01/2006 15:04"

// Shop is the letterhead snapshot taken from settings at commit time.
type Shop struct {
	Name    string
	Address string
	Phone   string
	Footer  []string
}

// Line is one printed item row.
type Line struct {
	Nama     string
	Jumlah   int
	Harga    types.Money
	Diskon   types.Money
	Subtotal types.Money
}

// Receipt is the complete printable record of one sale.
type Receipt struct {
	Shop        Shop
	Faktur      string
	Time        time.Time
	Kasir       string
	Lines       []Line
	Subtotal    types.Money
	DiskonTotal types.Money
	Total       types.Money
	Tender      types.Money
	Change      types.Money
}

// FormattedTime renders the sale timestamp for printing.
func (r *Receipt) FormattedTime() string {
	return r.Time.Format(DisplayTimeLayout)
}

// Path returns the receipt file target under baseDir. The path depends
// only on the sale day and faktur, so re-rendering the same sale
// overwrites rather than duplicates.
func (r *Receipt) Path(baseDir string) string {
	day := r.Time.Format(types.DateLayout)
	return filepath.Join(baseDir, day, fmt.Sprintf("struk_%s.pdf", r.Faktur))
}

// Renderer produces the physical receipt. Implementations must be
// safe to fail: the sale is already committed when Render runs.
type Renderer interface {
	Render(ctx context.Context, r *Receipt, path string) error
}

// NullRenderer logs the receipt instead of producing a file. It stands
// in wherever no printing backend is wired.
type NullRenderer struct{}

func (NullRenderer) Render(ctx context.Context, r *Receipt, path string) error {
	logger.Info(ctx, "receipt rendered (no-op)",
		"faktur", r.Faktur, "total", r.Total.String(), "path", path)
	return nil
}
