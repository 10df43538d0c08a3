package load

import (
	"fmt"

	"loadboard/internal/pkg/errs"
)

// PaymentStatus is the settlement state of a load. Processing and Failed are
// kept for a real payment integration; nothing produces them today.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	Unpaid
	Paid
	Processing
	Failed
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown: "unknown",
		Unpaid:         "unpaid",
		Paid:           "paid",
		Processing:     "processing",
		Failed:         "failed",
	}
}

func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, name := range getPaymentStatusStrings() {
		if status != PaymentUnknown && name == s {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause("payment status is invalid",
		fmt.Errorf("%q is not a valid payment status", s))
}

func (p PaymentStatus) Validate() error {
	if p <= PaymentUnknown || p > Failed {
		return errs.NewValueIsInvalidErrorWithCause("payment status is invalid",
			fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// MarkPaid is the only driven settlement transition, unpaid -> paid.
func (p PaymentStatus) MarkPaid() (PaymentStatus, error) {
	switch p {
	case Unpaid:
		return Paid, nil
	case Paid:
		return PaymentUnknown, ErrAlreadyPaid
	default:
		return PaymentUnknown, errs.NewStateConflictError(ErrPaymentWrongState.Code,
			fmt.Sprintf("payment is %s, only unpaid loads can be marked paid", p))
	}
}
