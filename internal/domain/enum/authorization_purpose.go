package enum

import (
	"encoding/json"
	"fmt"
)

// AuthorizationPurpose names the privileged action a manager PIN unlocks.
// A grant issued for one purpose cannot be spent on another.
type AuthorizationPurpose string

const (
	PurposeDiscount        AuthorizationPurpose = "DESCONTO"
	PurposePriceEdit       AuthorizationPurpose = "PRECO"
	PurposeReportExport    AuthorizationPurpose = "RELATORIO"
	PurposeOperationalMode AuthorizationPurpose = "MODO_OPERACIONAL"
)

func (p AuthorizationPurpose) String() string {
	return string(p)
}

func (p AuthorizationPurpose) IsValid() bool {
	switch p {
	case PurposeDiscount, PurposePriceEdit, PurposeReportExport, PurposeOperationalMode:
		return true
	}
	return false
}

// Title is the prompt shown on the PIN pad for this purpose.
func (p AuthorizationPurpose) Title() string {
	switch p {
	case PurposeDiscount:
		return "Desconto Elevado"
	case PurposePriceEdit:
		return "Alteração de Preço"
	case PurposeReportExport:
		return "Exportar Relatório"
	case PurposeOperationalMode:
		return "Modo Operacional"
	}
	return "Autorização do Gestor"
}

func (p *AuthorizationPurpose) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	purpose := AuthorizationPurpose(str)
	if !purpose.IsValid() {
		return fmt.Errorf("invalid authorization purpose %q", str)
	}
	*p = purpose
	return nil
}
