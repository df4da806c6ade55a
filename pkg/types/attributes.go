package types

// ItemAttributes carries free-form selection attributes (size, color) chosen
// at add-to-cart time. Stored as jsonb via the GORM serializer.
type ItemAttributes map[string]string
