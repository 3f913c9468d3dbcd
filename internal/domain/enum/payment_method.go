package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents how a sale is paid for. Credit means deferred
// payment posted to the customer's outstanding balance.
type PaymentMethod int

const (
	PaymentMethodCash   PaymentMethod = 0
	PaymentMethodCard   PaymentMethod = 1
	PaymentMethodUPI    PaymentMethod = 2
	PaymentMethodCredit PaymentMethod = 3
)

func (m PaymentMethod) String() string {
	names := [...]string{"Cash", "Card", "UPI", "Credit"}
	if int(m) < 0 || int(m) >= len(names) {
		return "Cash"
	}
	return names[m]
}

// IsDeferred reports whether the method defers collection to the credit ledger
func (m PaymentMethod) IsDeferred() bool {
	return m == PaymentMethodCredit
}

// ParsePaymentMethod converts a wire string into a PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch s {
	case "Cash":
		return PaymentMethodCash, true
	case "Card":
		return PaymentMethodCard, true
	case "UPI":
		return PaymentMethodUPI, true
	case "Credit":
		return PaymentMethodCredit, true
	}
	return PaymentMethodCash, false
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	if parsed, ok := ParsePaymentMethod(str); ok {
		*m = parsed
	}
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}
