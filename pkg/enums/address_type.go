package enums

import "fmt"

// AddressType scopes an address to shipping, billing, or both.
type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
	AddressTypeBoth     AddressType = "both"
)

var validAddressTypes = []AddressType{
	AddressTypeShipping,
	AddressTypeBilling,
	AddressTypeBoth,
}

// String implements fmt.Stringer.
func (a AddressType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AddressType.
func (a AddressType) IsValid() bool {
	for _, candidate := range validAddressTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// Covers reports whether an address of this type can serve the other type.
// "both" covers shipping and billing.
func (a AddressType) Covers(other AddressType) bool {
	if a == AddressTypeBoth {
		return other == AddressTypeShipping || other == AddressTypeBilling || other == AddressTypeBoth
	}
	return a == other
}

// ParseAddressType converts raw input into an AddressType.
func ParseAddressType(value string) (AddressType, error) {
	for _, candidate := range validAddressTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid address type %q", value)
}
