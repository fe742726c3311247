package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CommissionType says how a service's commission_value is read:
// PERCENT of the line price, or a FIXED amount in reais.
type CommissionType string

const (
	CommissionTypePercent CommissionType = "PERCENT"
	CommissionTypeFixed   CommissionType = "FIXED"
)

func (t CommissionType) String() string {
	return string(t)
}

func (t CommissionType) IsValid() bool {
	return t == CommissionTypePercent || t == CommissionTypeFixed
}

func (t CommissionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *CommissionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	ct := CommissionType(str)
	if !ct.IsValid() {
		return fmt.Errorf("invalid commission type %q", str)
	}
	*t = ct
	return nil
}

func (t CommissionType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *CommissionType) Scan(value interface{}) error {
	if value == nil {
		*t = CommissionTypePercent
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = CommissionType(v)
	case []byte:
		*t = CommissionType(string(v))
	}
	return nil
}
