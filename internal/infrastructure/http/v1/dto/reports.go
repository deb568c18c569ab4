package dto

import (
	"tokopos/internal/domain/reports"
	"tokopos/internal/domain/sale"
)

// SaleRowResponse is one joined history row.
type SaleRowResponse struct {
	TransaksiID int64  `json:"transaksi_id"`
	Faktur      string `json:"no_faktur"`
	Tanggal     string `json:"tanggal"`
	Total       string `json:"total"`
	ProdukNama  string `json:"produk_nama"`
	Jumlah      int    `json:"jumlah"`
	Harga       string `json:"harga"`
	Diskon      string `json:"diskon"`
	Subtotal    string `json:"subtotal"`
}

// SalesReportResponse carries rows plus the period summary.
type SalesReportResponse struct {
	Rows    []SaleRowResponse `json:"rows"`
	Summary SummaryResponse   `json:"summary"`
}

// SummaryResponse aggregates a reporting period.
type SummaryResponse struct {
	Transactions int    `json:"transactions"`
	Gross        string `json:"gross"`
}

// FromSalesReport maps rows and summary to the wire view.
func FromSalesReport(rows []reports.SaleRow, sum reports.Summary) SalesReportResponse {
	out := SalesReportResponse{
		Rows: make([]SaleRowResponse, 0, len(rows)),
		Summary: SummaryResponse{
			Transactions: sum.Transactions,
			Gross:        sum.Gross.StringFixed(2),
		},
	}
	for i := range rows {
		r := &rows[i]
		out.Rows = append(out.Rows, SaleRowResponse{
			TransaksiID: r.TransaksiID,
			Faktur:      r.Faktur,
			Tanggal:     r.Tanggal,
			Total:       r.Total.StringFixed(2),
			ProdukNama:  r.ProdukNama,
			Jumlah:      r.Jumlah,
			Harga:       r.Harga.StringFixed(2),
			Diskon:      r.Diskon.StringFixed(2),
			Subtotal:    r.Subtotal.StringFixed(2),
		})
	}
	return out
}

// DetailResponse is one line of a committed sale.
type DetailResponse struct {
	ID         int64  `json:"id"`
	ProdukNama string `json:"produk_nama"`
	Jumlah     int    `json:"jumlah"`
	Harga      string `json:"harga"`
	Diskon     string `json:"diskon"`
	Subtotal   string `json:"subtotal"`
}

// TransactionDetailResponse is a transaction with all its lines.
type TransactionDetailResponse struct {
	TransaksiID int64            `json:"transaksi_id"`
	Faktur      string           `json:"no_faktur"`
	Tanggal     string           `json:"tanggal"`
	Total       string           `json:"total"`
	Details     []DetailResponse `json:"details"`
}

// FromTransactionDetail maps the drill-down view to the wire form.
func FromTransactionDetail(d *reports.SaleDetail) TransactionDetailResponse {
	out := TransactionDetailResponse{
		TransaksiID: d.Transaction.ID,
		Faktur:      d.Transaction.Faktur,
		Tanggal:     d.Transaction.Tanggal,
		Total:       d.Transaction.Total.StringFixed(2),
		Details:     make([]DetailResponse, 0, len(d.Details)),
	}
	for i := range d.Details {
		out.Details = append(out.Details, fromDetail(&d.Details[i]))
	}
	return out
}

func fromDetail(d *sale.Detail) DetailResponse {
	return DetailResponse{
		ID:         d.ID,
		ProdukNama: d.ProdukNama,
		Jumlah:     d.Jumlah,
		Harga:      d.Harga.StringFixed(2),
		Diskon:     d.Diskon.StringFixed(2),
		Subtotal:   d.Subtotal.StringFixed(2),
	}
}
