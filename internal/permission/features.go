package permission

import "strings"

// FromFeatures extracts the permission overrides hidden in a tenant's feature list.
//
// The features column is also used for plain feature flags ("dark_mode", "beta"), so only
// dotted entries are promoted. When a catalogue is given an entry must also be catalogued;
// a dotted flag such as "ui.darkmode" therefore never turns into a grant. A nil catalogue
// keeps the dot rule alone.
func FromFeatures(features []string, catalogue *Catalogue) Set {
	out := make(Set)

	for _, feature := range features {
		if !strings.Contains(feature, ".") {
			continue
		}

		p := Permission(feature)
		if catalogue != nil && !catalogue.Contains(p) {
			continue
		}

		out.Add(p)
	}

	return out
}
