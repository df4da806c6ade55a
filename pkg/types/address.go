package types

import "strings"

// AddressSnapshot is the free-text address content frozen onto orders and
// carried through checkout. It is stored as jsonb via the GORM serializer.
type AddressSnapshot struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// RequiredFieldsMissing lists the required fields that are empty or
// whitespace-only. Country defaults server-side and is not required.
func (a AddressSnapshot) RequiredFieldsMissing() []string {
	required := []struct {
		name  string
		value string
	}{
		{"name", a.Name},
		{"phone", a.Phone},
		{"line1", a.Line1},
		{"city", a.City},
		{"state", a.State},
		{"postal_code", a.PostalCode},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Complete reports whether every required field has content.
func (a AddressSnapshot) Complete() bool {
	return len(a.RequiredFieldsMissing()) == 0
}
