package domain

// Icon is a selectable day icon. Keys are the lowercase product types.
type Icon struct {
	Key   string
	Label string
	Glyph string
}

// Icons is the fixed icon set in selector order.
var Icons = []Icon{
	{Key: ProductTypeCruise.IconKey(), Label: string(ProductTypeCruise), Glyph: "🛳"},
	{Key: ProductTypeTour.IconKey(), Label: string(ProductTypeTour), Glyph: "🚌"},
	{Key: ProductTypeAccommodation.IconKey(), Label: string(ProductTypeAccommodation), Glyph: "🏨"},
	{Key: ProductTypeFlight.IconKey(), Label: string(ProductTypeFlight), Glyph: "✈"},
	{Key: ProductTypeHolidayPackage.IconKey(), Label: string(ProductTypeHolidayPackage), Glyph: "🏖"},
}

// IconGlyph returns the glyph for key, or "" for unknown keys.
func IconGlyph(key string) string {
	for _, icon := range Icons {
		if icon.Key == key {
			return icon.Glyph
		}
	}
	return ""
}
