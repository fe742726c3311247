package entity

// ReceiptHeader holds the workshop header printed at the top of a receipt.
type ReceiptHeader struct {
	WorkshopName string `json:"workshop_name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CNPJ         string `json:"cnpj,omitempty"`
}

// ReceiptLine is one printed line. Amounts are in cents.
type ReceiptLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price_cents"`
	Total     int64  `json:"total_cents"`
}

// Receipt is a value object composed from a Sale or a settled WorkOrder at
// print time; it is never persisted.
type Receipt struct {
	Header       ReceiptHeader `json:"header"`
	Title        string        `json:"title"`
	Number       string        `json:"number"`
	Date         string        `json:"date"`
	Operator     string        `json:"operator,omitempty"`
	Customer     string        `json:"customer,omitempty"`
	Vehicle      string        `json:"vehicle,omitempty"`
	PaymentType  string        `json:"payment_type,omitempty"`
	Installments int           `json:"installments,omitempty"`
	Lines        []ReceiptLine `json:"lines"`
	Subtotal     int64         `json:"subtotal_cents"`
	Discount     int64         `json:"discount_cents"`
	Interest     int64         `json:"interest_cents"`
	Total        int64         `json:"total_cents"`
	// VerificationCode is encoded as a QR code on printed receipts.
	VerificationCode string `json:"verification_code,omitempty"`
}
