package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentMethodPix      PaymentMethod = "PIX"
	PaymentMethodCredito  PaymentMethod = "CREDITO"
	PaymentMethodDebito   PaymentMethod = "DEBITO"
	PaymentMethodDinheiro PaymentMethod = "DINHEIRO"
)

func (p PaymentMethod) String() string {
	return string(p)
}

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodPix, PaymentMethodCredito, PaymentMethodDebito, PaymentMethodDinheiro:
		return true
	}
	return false
}

// Label is the human-readable name printed on receipts.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentMethodPix:
		return "PIX"
	case PaymentMethodCredito:
		return "Cartão de Crédito"
	case PaymentMethodDebito:
		return "Cartão de Débito"
	case PaymentMethodDinheiro:
		return "Dinheiro"
	}
	return string(p)
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	method := PaymentMethod(str)
	if !method.IsValid() {
		return fmt.Errorf("invalid payment method %q", str)
	}
	*p = method
	return nil
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return string(p), nil
}

func (p *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentMethodPix
		return nil
	}
	switch v := value.(type) {
	case string:
		*p = PaymentMethod(v)
	case []byte:
		*p = PaymentMethod(string(v))
	}
	return nil
}
