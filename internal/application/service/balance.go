package service

import "github.com/shopspring/decimal"

// BalanceInput holds everything the balances depend on.
type BalanceInput struct {
	TotalPayable       decimal.Decimal `json:"total_payable"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	StudentExistingDue decimal.Decimal `json:"student_existing_due"`
	OverdueAmount      decimal.Decimal `json:"overdue_amount"`
}

// Balances are derived from a BalanceInput and never stored on their own.
type Balances struct {
	PayableDue decimal.Decimal `json:"payable_due"`
	GrandDue   decimal.Decimal `json:"grand_due"`
	TotalDue   decimal.Decimal `json:"total_due"`
	InTotal    decimal.Decimal `json:"in_total"`
}

// ComputeBalances derives the balances of a collection.
//
//	payable_due = max(0, total_payable - paid)
//	grand_due   = total_payable + existing_due + overdue
//	total_due   = 0 if paid >= grand_due, else grand_due - paid
//	in_total    = paid
func ComputeBalances(in BalanceInput) Balances {
	grand := in.TotalPayable.Add(in.StudentExistingDue).Add(in.OverdueAmount)

	totalDue := decimal.Zero
	if in.PaidAmount.LessThan(grand) {
		totalDue = decimal.Max(decimal.Zero, grand.Sub(in.PaidAmount))
	}

	return Balances{
		PayableDue: decimal.Max(decimal.Zero, in.TotalPayable.Sub(in.PaidAmount)),
		GrandDue:   grand,
		TotalDue:   totalDue,
		InTotal:    in.PaidAmount,
	}
}
