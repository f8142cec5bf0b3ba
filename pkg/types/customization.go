package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AttributeChoice is one named option picked inside a customization category.
// Clients send richer objects (price deltas, ids); only the name survives
// ingestion.
type AttributeChoice struct {
	Name string `json:"name"`
}

// CustomizationSelection is the typed shape of a cart line's customization
// payload. Known categories are size, crust, and toppings; unknown keys in the
// client payload are dropped during decoding. Duplicate toppings pass through
// untouched.
type CustomizationSelection struct {
	Size     *AttributeChoice  `json:"size,omitempty"`
	Crust    *AttributeChoice  `json:"crust,omitempty"`
	Toppings []AttributeChoice `json:"toppings,omitempty"`
}

// IsEmpty reports whether no category carries a selection.
func (c CustomizationSelection) IsEmpty() bool {
	return c.Size == nil && c.Crust == nil && len(c.Toppings) == 0
}

// Value serializes the selection to JSON for JSONB storage.
func (c *CustomizationSelection) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan decodes JSONB into the selection.
func (c *CustomizationSelection) Scan(value interface{}) error {
	if value == nil {
		*c = CustomizationSelection{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, c)
}

// DecodeCustomizations converts the untyped client payload into a
// CustomizationSelection. Categories whose choice has no name are treated as
// absent rather than rejected.
func DecodeCustomizations(raw json.RawMessage) (CustomizationSelection, error) {
	var selection CustomizationSelection
	if len(raw) == 0 {
		return selection, nil
	}
	if err := json.Unmarshal(raw, &selection); err != nil {
		return CustomizationSelection{}, fmt.Errorf("decoding customizations: %w", err)
	}
	if selection.Size != nil && selection.Size.Name == "" {
		selection.Size = nil
	}
	if selection.Crust != nil && selection.Crust.Name == "" {
		selection.Crust = nil
	}
	return selection, nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
