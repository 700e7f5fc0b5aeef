package trigger

import (
	"encoding/json"
	"fmt"
)

// Type represents a trigger type used in C# reference node: https://github.com/neo-project/neo/blob/master/src/Neo/SmartContract/TriggerType.cs
type Type byte

// Viable list of supported trigger type constants.
const (
	// OnPersist is a trigger type that indicates that the script is being invoked
	// internally by the system during block persistence (before transaction
	// processing).
	OnPersist Type = 0x01

	// PostPersist is a trigger type that indicates that the script is being invoked
	// by the system after block persistence (transaction processing) has
	// finished.
	PostPersist Type = 0x02

	// System is a combination of OnPersist and PostPersist.
	System Type = OnPersist | PostPersist

	// Verification is a trigger type that indicates that the contract is being invoked as a verification function.
	Verification Type = 0x20

	// Application is a trigger type that indicates that the contract is being invoked as an application function.
	Application Type = 0x40

	// All represents any trigger type.
	All Type = System | Verification | Application
)

var names = map[Type]string{
	OnPersist:    "OnPersist",
	PostPersist:  "PostPersist",
	System:       "System",
	Verification: "Verification",
	Application:  "Application",
	All:          "All",
}

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", byte(t))
}

// FromString converts a string to the trigger Type.
func FromString(str string) (Type, error) {
	for t, s := range names {
		if s == str {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown trigger type: %s", str)
}

// MarshalJSON implements the json.Marshaler interface.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := FromString(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
