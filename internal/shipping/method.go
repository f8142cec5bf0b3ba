package shipping

import (
	"fmt"
	"strconv"
	"strings"
)

const localPickupFamily = "local_pickup"

// MethodID is the structured form of a shipping method identifier such as
// "flat_rate:2" or "local_pickup". Instance is nil when the raw id carries no
// instance suffix.
type MethodID struct {
	Name     string
	Instance *int
}

// ParseMethodID converts a raw identifier into its structured form. All
// internal matching operates on MethodID, never on raw strings.
func ParseMethodID(raw string) (MethodID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return MethodID{}, fmt.Errorf("shipping method id is empty")
	}

	name, suffix, found := strings.Cut(trimmed, ":")
	if name == "" {
		return MethodID{}, fmt.Errorf("shipping method id %q has no method name", raw)
	}
	if !found {
		return MethodID{Name: name}, nil
	}

	instance, err := strconv.Atoi(suffix)
	if err != nil {
		return MethodID{}, fmt.Errorf("shipping method id %q has invalid instance: %w", raw, err)
	}
	return MethodID{Name: name, Instance: &instance}, nil
}

// String renders the canonical raw form.
func (m MethodID) String() string {
	if m.Instance == nil {
		return m.Name
	}
	return fmt.Sprintf("%s:%d", m.Name, *m.Instance)
}

// IsLocalPickup reports whether the method belongs to the local pickup family
// (including extension variants such as local_pickup_plus).
func (m MethodID) IsLocalPickup() bool {
	return strings.Contains(m.Name, localPickupFamily)
}
