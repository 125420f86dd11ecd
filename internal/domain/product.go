package domain

import "strings"

// ProductType is the closed set of product kinds offered by the type selector.
type ProductType string

const (
	ProductTypeCruise         ProductType = "Cruise"
	ProductTypeTour           ProductType = "Tour"
	ProductTypeAccommodation  ProductType = "Accommodation"
	ProductTypeFlight         ProductType = "Flight"
	ProductTypeHolidayPackage ProductType = "Holiday Package"
)

// ProductTypes lists the selectable types in display order.
var ProductTypes = []ProductType{
	ProductTypeCruise,
	ProductTypeTour,
	ProductTypeAccommodation,
	ProductTypeFlight,
	ProductTypeHolidayPackage,
}

// IconKey returns the day icon key that echoes this product type.
func (t ProductType) IconKey() string {
	return strings.ToLower(string(t))
}

// ProductRecord is the single record edited by the form.
// Field order is the JSON key order of the serialized view.
type ProductRecord struct {
	ProductName       string      `json:"productName"`
	ProductType       ProductType `json:"productType"`
	ProductPrice      string      `json:"productPrice"`
	ProductItinerary  *Itinerary  `json:"productItinerary"`
	ProductInclusions []string    `json:"productInclusions"`
	ProductExclusions []string    `json:"productExclusions"`
}

// Itinerary holds the overall summary and the ordered day entries.
type Itinerary struct {
	Summary     string     `json:"summary"`
	Image       string     `json:"image"`
	Itineraries []DayEntry `json:"itineraries"`
}

// DayEntry is one itinerary day, numbered contiguously from 1.
type DayEntry struct {
	Day     int    `json:"day"`
	Icon    string `json:"icon"`
	Image   string `json:"image"`
	Content string `json:"content"`
}

// NewProductRecord returns the canonical empty record.
func NewProductRecord() ProductRecord {
	return ProductRecord{
		ProductItinerary: &Itinerary{
			Itineraries: []DayEntry{},
		},
		ProductInclusions: []string{},
		ProductExclusions: []string{},
	}
}

// DemoProductRecord returns the fixed record used by the "Fill form" action.
func DemoProductRecord() ProductRecord {
	return ProductRecord{
		ProductName:  "Product XYZ",
		ProductType:  ProductTypeCruise,
		ProductPrice: "1000",
		ProductItinerary: &Itinerary{
			Summary: "This is a summary of the product's itinerary",
			Image:   "https://picsum.photos/id/49/1280/792",
			Itineraries: []DayEntry{
				{
					Day:     1,
					Icon:    ProductTypeCruise.IconKey(),
					Image:   "https://picsum.photos/id/11/2500/1667",
					Content: "Day 1 content",
				},
				{
					Day:     2,
					Icon:    ProductTypeAccommodation.IconKey(),
					Image:   "https://picsum.photos/200",
					Content: "Day 2 content",
				},
			},
		},
		ProductInclusions: []string{},
		ProductExclusions: []string{},
	}
}

// Clone returns a deep copy. Nil slices come back as empty slices so the
// serialized view always shows [] rather than null.
func (r ProductRecord) Clone() ProductRecord {
	out := r
	out.ProductInclusions = cloneStrings(r.ProductInclusions)
	out.ProductExclusions = cloneStrings(r.ProductExclusions)
	if r.ProductItinerary != nil {
		it := *r.ProductItinerary
		it.Itineraries = make([]DayEntry, len(r.ProductItinerary.Itineraries))
		copy(it.Itineraries, r.ProductItinerary.Itineraries)
		out.ProductItinerary = &it
	}
	return out
}

// DayCount returns the number of day entries, zero when there is no itinerary.
func (r ProductRecord) DayCount() int {
	if r.ProductItinerary == nil {
		return 0
	}
	return len(r.ProductItinerary.Itineraries)
}

func cloneStrings(src []string) []string {
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
