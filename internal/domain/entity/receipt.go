package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the school details printed at the top of a receipt.
type ReceiptHeader struct {
	SchoolName string `json:"school_name"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
	EIIN       string `json:"eiin,omitempty"`
}

// ReceiptLine is one fee on a receipt.
type ReceiptLine struct {
	FeesType string          `json:"fees_type"`
	Amount   decimal.Decimal `json:"amount"`
}

// Receipt is a printable money receipt. It is not stored; it is composed
// from a collection, its student and the school info at print time.
type Receipt struct {
	Header        ReceiptHeader   `json:"header"`
	ReceiptNo     string          `json:"receipt_no"`
	CollectionSL  int64           `json:"collection_sl"`
	Date          string          `json:"date"`
	StudentID     string          `json:"student_id"`
	StudentName   string          `json:"student_name,omitempty"`
	Scope         string          `json:"scope"`
	PaymentMethod string          `json:"payment_method"`
	Currency      string          `json:"currency"`
	Lines         []ReceiptLine   `json:"lines"`
	TotalPayable  decimal.Decimal `json:"total_payable"`
	Paid          decimal.Decimal `json:"paid"`
	PayableDue    decimal.Decimal `json:"payable_due"`
	TotalDue      decimal.Decimal `json:"total_due"`
}
