package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TransactionType classifies a credit ledger entry
type TransactionType int

const (
	TransactionTypeSale    TransactionType = 0
	TransactionTypeReturn  TransactionType = 1
	TransactionTypePayment TransactionType = 2
)

func (t TransactionType) String() string {
	names := [...]string{"Sale", "Return", "Payment"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Sale"
	}
	return names[t]
}

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = TransactionType(i)
		return nil
	}
	switch str {
	case "Sale":
		*t = TransactionTypeSale
	case "Return":
		*t = TransactionTypeReturn
	case "Payment":
		*t = TransactionTypePayment
	}
	return nil
}

func (t TransactionType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TransactionType) Scan(value interface{}) error {
	if value == nil {
		*t = TransactionTypeSale
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = TransactionType(v)
	case int:
		*t = TransactionType(v)
	}
	return nil
}
