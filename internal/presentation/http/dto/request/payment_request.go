package request

// ConfirmPaymentRequest settles an attempt by hand, e.g. after checking a
// bank statement.
type ConfirmPaymentRequest struct {
	Status    string `json:"status" binding:"required,oneof=succeeded failed"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

type PaymentListQuery struct {
	Status string `form:"status"`
}
