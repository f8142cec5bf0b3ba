package orders

import (
	"html"
	"strings"

	"github.com/slicehaven/storefront-backend/pkg/types"
)

// Display labels for projected customization metadata. These are the keys
// back-office tooling reads, so they stay stable across releases.
const (
	MetaKeySize     = "Size"
	MetaKeyCrust    = "Crust"
	MetaKeyToppings = "Toppings"
)

// MetaEntry is one labeled key/value pair derived from a line's customization
// selection.
type MetaEntry struct {
	Key   string
	Value string
}

// ProjectLineMetadata flattens a customization selection into display-labeled
// metadata entries. Single-choice categories produce one entry each, toppings
// collapse to a comma-joined list, and absent categories produce nothing. All
// values are HTML-escaped on the way out so client-supplied names render
// inert in admin surfaces.
func ProjectLineMetadata(selection *types.CustomizationSelection) []MetaEntry {
	if selection == nil {
		return nil
	}

	var entries []MetaEntry
	if selection.Size != nil && selection.Size.Name != "" {
		entries = append(entries, MetaEntry{Key: MetaKeySize, Value: sanitize(selection.Size.Name)})
	}
	if selection.Crust != nil && selection.Crust.Name != "" {
		entries = append(entries, MetaEntry{Key: MetaKeyCrust, Value: sanitize(selection.Crust.Name)})
	}
	if len(selection.Toppings) > 0 {
		names := make([]string, 0, len(selection.Toppings))
		for _, topping := range selection.Toppings {
			if topping.Name == "" {
				continue
			}
			names = append(names, sanitize(topping.Name))
		}
		if len(names) > 0 {
			entries = append(entries, MetaEntry{Key: MetaKeyToppings, Value: strings.Join(names, ", ")})
		}
	}
	return entries
}

func sanitize(value string) string {
	return html.EscapeString(strings.TrimSpace(value))
}
