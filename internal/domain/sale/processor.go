package sale

import (
	"context"
	"fmt"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/session"
	"tokopos/internal/core/tx"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/audit"
	"tokopos/internal/domain/cart"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/receipt"
	"tokopos/internal/settings"
	"tokopos/pkg/logger"
)

// SettingsSource supplies the shop snapshot printed on receipts.
// Satisfied by settings.Store.
type SettingsSource interface {
	Get() settings.Settings
}

// Result is the outcome of a committed sale.
type Result struct {
	Transaction *Transaction
	Details     []Detail
	Change      types.Money
	Receipt     *receipt.Receipt
	ReceiptPath string

	// ReceiptErr carries a rendering failure. The sale itself is
	// committed regardless.
	ReceiptErr error
}

// Processor turns a ready-to-pay cart into a durable transaction. The
// entire write set is one unit of work: header, details, stock
// decrements and the audit entry commit or roll back together. Receipt
// rendering happens after commit and never revokes the sale.
type Processor struct {
	txm        tx.Manager
	sales      Repository
	products   catalog.Repository
	aud        *audit.Service
	shop       SettingsSource
	renderer   receipt.Renderer
	receiptDir string
	now        func() time.Time
}

// NewProcessor wires the sale processor.
func NewProcessor(
	txm tx.Manager,
	sales Repository,
	products catalog.Repository,
	aud *audit.Service,
	shop SettingsSource,
	renderer receipt.Renderer,
	receiptDir string,
) *Processor {
	return &Processor{
		txm:        txm,
		sales:      sales,
		products:   products,
		aud:        aud,
		shop:       shop,
		renderer:   renderer,
		receiptDir: receiptDir,
		now:        time.Now,
	}
}

// Commit finalizes the cart against the tendered amount. On success
// the cart is reset and the result carries the change due and the
// receipt. On any failure the store is untouched and the cart keeps
// its lines.
func (p *Processor) Commit(ctx context.Context, c *cart.Cart, tender types.Money) (*Result, error) {
	if c.State() != cart.StateReadyToPay {
		return nil, apperror.NewConflict("keranjang belum siap dibayar")
	}

	lines := c.Lines()
	total := c.Total()

	if tender.LessThan(total) {
		return nil, apperror.NewPaymentRequired(total.String(), tender.String())
	}

	now := p.now()
	txn := &Transaction{
		Tanggal: types.FormatDateTime(now),
		Total:   total,
	}
	details := make([]Detail, 0, len(lines))

	err := p.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := p.sales.CountOnDay(ctx, now.Format(types.DateLayout))
		if err != nil {
			return err
		}
		txn.Faktur = FakturNumber(now, n+1)

		if err := p.sales.Insert(ctx, txn); err != nil {
			return err
		}

		for i := range lines {
			l := &lines[i]
			d := Detail{
				TransactionID: txn.ID,
				ProdukNama:    l.Nama,
				Jumlah:        l.Jumlah,
				Harga:         l.Harga,
				Diskon:        l.Diskon,
				Subtotal:      l.Subtotal(),
			}
			if err := p.sales.InsertDetail(ctx, &d); err != nil {
				return err
			}
			if err := p.products.DecrementStock(ctx, l.ProductID, l.Jumlah); err != nil {
				return err
			}
			details = append(details, d)
		}

		return p.aud.Append(ctx, audit.ActivitySale,
			fmt.Sprintf("transaksi_id=%d faktur=%s total=%s items=%d",
				txn.ID, txn.Faktur, txn.Total.String(), len(details)))
	})
	if err != nil {
		return nil, err
	}

	change := types.RoundMoney(tender.Sub(total))
	logger.Info(ctx, "sale committed",
		"faktur", txn.Faktur, "total", total.String(), "change", change.String())

	res := &Result{
		Transaction: txn,
		Details:     details,
		Change:      change,
	}

	res.Receipt = p.buildReceipt(ctx, txn, lines, now, tender, change)
	res.ReceiptPath = res.Receipt.Path(p.receiptDir)
	if err := p.renderer.Render(ctx, res.Receipt, res.ReceiptPath); err != nil {
		res.ReceiptErr = err
		logger.Warn(ctx, "receipt rendering failed", "faktur", txn.Faktur, "error", err)
		p.aud.RecordError(ctx, fmt.Sprintf("cetak struk gagal faktur=%s: %v", txn.Faktur, err))
	}

	c.Reset()
	return res, nil
}

func (p *Processor) buildReceipt(ctx context.Context, txn *Transaction, lines []cart.Line, at time.Time, tender, change types.Money) *receipt.Receipt {
	cfg := p.shop.Get()

	r := &receipt.Receipt{
		Shop: receipt.Shop{
			Name:    cfg.ShopName,
			Address: cfg.Address,
			Phone:   cfg.Phone,
			Footer:  cfg.Footer,
		},
		Faktur: txn.Faktur,
		Time:   at,
		Kasir:  session.Username(ctx),
		Total:  txn.Total,
		Tender: tender,
		Change: change,
	}

	subtotal := types.ZeroMoney()
	diskon := types.ZeroMoney()
	for i := range lines {
		l := &lines[i]
		gross := types.RoundMoney(l.Harga.Mul(types.NewMoneyFromInt(int64(l.Jumlah))))
		lineDiskon := types.RoundMoney(l.Diskon.Mul(types.NewMoneyFromInt(int64(l.Jumlah))))
		subtotal = subtotal.Add(gross)
		diskon = diskon.Add(lineDiskon)
		r.Lines = append(r.Lines, receipt.Line{
			Nama:     l.Nama,
			Jumlah:   l.Jumlah,
			Harga:    l.Harga,
			Diskon:   l.Diskon,
			Subtotal: l.Subtotal(),
		})
	}
	r.Subtotal = subtotal
	r.DiskonTotal = diskon
	return r
}

// ResetHistory wipes all committed sales and records the wipe in the
// activity log inside the same unit of work.
func (p *Processor) ResetHistory(ctx context.Context) error {
	err := p.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := p.sales.DeleteAll(ctx); err != nil {
			return err
		}
		return p.aud.Append(ctx, audit.ActivityReset, "seluruh riwayat transaksi dihapus")
	})
	if err != nil {
		return err
	}
	logger.Warn(ctx, "sales history reset", "by", session.Username(ctx))
	return nil
}
