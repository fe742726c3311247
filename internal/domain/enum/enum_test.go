package enum

import (
	"encoding/json"
	"testing"
)

func TestWorkOrderStatusTerminal(t *testing.T) {
	tests := []struct {
		status   WorkOrderStatus
		terminal bool
	}{
		{WorkOrderStatusAberta, false},
		{WorkOrderStatusEmAndamento, false},
		{WorkOrderStatusAguardandoPeca, false},
		{WorkOrderStatusFinalizada, true},
		{WorkOrderStatusCancelada, true},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestUnmarshalRejectsUnknownLabels(t *testing.T) {
	var status WorkOrderStatus
	if err := json.Unmarshal([]byte(`"PAGA"`), &status); err == nil {
		t.Error("expected error for unknown work order status")
	}

	var method PaymentMethod
	if err := json.Unmarshal([]byte(`"BOLETO"`), &method); err == nil {
		t.Error("expected error for unknown payment method")
	}
	if err := json.Unmarshal([]byte(`"CREDITO"`), &method); err != nil || method != PaymentMethodCredito {
		t.Errorf("CREDITO: got %q, err %v", method, err)
	}

	var ct CommissionType
	if err := json.Unmarshal([]byte(`"FIXED"`), &ct); err != nil || ct != CommissionTypeFixed {
		t.Errorf("FIXED: got %q, err %v", ct, err)
	}
}

func TestScanFromBytes(t *testing.T) {
	var mode AccessMode
	if err := mode.Scan([]byte("GESTOR")); err != nil {
		t.Fatal(err)
	}
	if !mode.IsManager() {
		t.Errorf("mode = %q, want GESTOR", mode)
	}
}
