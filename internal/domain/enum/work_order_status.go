package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// WorkOrderStatus is the lifecycle state of an OS (ordem de serviço).
type WorkOrderStatus string

const (
	WorkOrderStatusAberta         WorkOrderStatus = "ABERTA"
	WorkOrderStatusEmAndamento    WorkOrderStatus = "EM_ANDAMENTO"
	WorkOrderStatusAguardandoPeca WorkOrderStatus = "AGUARDANDO_PECA"
	WorkOrderStatusFinalizada     WorkOrderStatus = "FINALIZADA"
	WorkOrderStatusCancelada      WorkOrderStatus = "CANCELADA"
)

// TerminalWorkOrderStatuses lists the states an order never leaves.
var TerminalWorkOrderStatuses = []WorkOrderStatus{WorkOrderStatusFinalizada, WorkOrderStatusCancelada}

func (s WorkOrderStatus) String() string {
	return string(s)
}

func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusAberta, WorkOrderStatusEmAndamento, WorkOrderStatusAguardandoPeca,
		WorkOrderStatusFinalizada, WorkOrderStatusCancelada:
		return true
	}
	return false
}

func (s WorkOrderStatus) IsTerminal() bool {
	return s == WorkOrderStatusFinalizada || s == WorkOrderStatusCancelada
}

func (s WorkOrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *WorkOrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status := WorkOrderStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid work order status %q", str)
	}
	*s = status
	return nil
}

func (s WorkOrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *WorkOrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = WorkOrderStatusAberta
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = WorkOrderStatus(v)
	case []byte:
		*s = WorkOrderStatus(string(v))
	}
	return nil
}
