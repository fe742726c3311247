package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AccessMode is the role a terminal session is operating under.
type AccessMode string

const (
	AccessModeGestor       AccessMode = "GESTOR"
	AccessModeOperacional  AccessMode = "OPERACIONAL"
	AccessModeUnauthorized AccessMode = "UNAUTHORIZED"
)

func (m AccessMode) String() string {
	return string(m)
}

func (m AccessMode) IsValid() bool {
	switch m {
	case AccessModeGestor, AccessModeOperacional, AccessModeUnauthorized:
		return true
	}
	return false
}

// IsManager reports whether the mode carries full administrative rights.
func (m AccessMode) IsManager() bool {
	return m == AccessModeGestor
}

func (m AccessMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *AccessMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	mode := AccessMode(str)
	if !mode.IsValid() {
		return fmt.Errorf("invalid access mode %q", str)
	}
	*m = mode
	return nil
}

func (m AccessMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *AccessMode) Scan(value interface{}) error {
	if value == nil {
		*m = AccessModeUnauthorized
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = AccessMode(v)
	case []byte:
		*m = AccessMode(string(v))
	}
	return nil
}
