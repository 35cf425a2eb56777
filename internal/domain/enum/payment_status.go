package enum

import (
	"encoding/json"
	"fmt"
)

// PaymentStatus is the lifecycle state of a payment attempt.
type PaymentStatus int

const (
	PaymentStatusIdle PaymentStatus = iota
	PaymentStatusInitiated
	PaymentStatusProcessing
	PaymentStatusSucceeded
	PaymentStatusFailed
)

var paymentStatusNames = [...]string{"idle", "initiated", "processing", "succeeded", "failed"}

func (s PaymentStatus) String() string {
	if s < 0 || int(s) >= len(paymentStatusNames) {
		return fmt.Sprintf("PaymentStatus(%d)", int(s))
	}
	return paymentStatusNames[s]
}

// IsTerminal reports whether no further transition is allowed.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSucceeded || s == PaymentStatusFailed
}

// CanTransition reports whether s may move to next.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	switch s {
	case PaymentStatusIdle:
		return next == PaymentStatusInitiated
	case PaymentStatusInitiated:
		return next == PaymentStatusProcessing || next == PaymentStatusSucceeded || next == PaymentStatusFailed
	case PaymentStatusProcessing:
		return next == PaymentStatusSucceeded || next == PaymentStatusFailed
	}
	return false
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for i, name := range paymentStatusNames {
		if name == s {
			return PaymentStatus(i), nil
		}
	}
	return PaymentStatusIdle, fmt.Errorf("unknown payment status %q", s)
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	parsed, err := ParsePaymentStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
