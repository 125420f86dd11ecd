package form

import (
	"strconv"
	"strings"
)

// ParseDayKey decodes an HTML control name of the form "<field>-<day>",
// e.g. "content-2". ok is false for unknown fields or a non-integer day.
func ParseDayKey(name string) (day int, field DayField, ok bool) {
	prefix, token, found := strings.Cut(name, "-")
	if !found {
		return 0, "", false
	}
	switch f := DayField(prefix); f {
	case DayIcon, DayImage, DayContent:
		field = f
	default:
		return 0, "", false
	}
	day, err := strconv.Atoi(token)
	if err != nil {
		return 0, "", false
	}
	return day, field, true
}

// DayKey is the inverse of ParseDayKey.
func DayKey(day int, field DayField) string {
	return string(field) + "-" + strconv.Itoa(day)
}

// ParseItineraryKey decodes "productItinerary-<field>" control names.
func ParseItineraryKey(name string) (ItineraryField, bool) {
	prefix, token, found := strings.Cut(name, "-")
	if !found || prefix != "productItinerary" {
		return "", false
	}
	switch f := ItineraryField(token); f {
	case ItinerarySummary, ItineraryImage:
		return f, true
	}
	return "", false
}
