package form

import "github.com/talkincode/productform/internal/domain"

// DayField identifies an editable field of a day entry.
type DayField string

const (
	DayIcon    DayField = "icon"
	DayImage   DayField = "image"
	DayContent DayField = "content"
)

// ItineraryField identifies an editable field of the itinerary itself.
type ItineraryField string

const (
	ItinerarySummary ItineraryField = "summary"
	ItineraryImage   ItineraryField = "image"
)

// AddDay appends an empty day numbered count+1.
// It is a no-op when the record has no itinerary.
func (s *State) AddDay() {
	if s.record.ProductItinerary == nil {
		return
	}
	next := s.record.Clone()
	days := next.ProductItinerary.Itineraries
	next.ProductItinerary.Itineraries = append(days, domain.DayEntry{Day: len(days) + 1})
	s.replace(next)
}

// RemoveDay drops the entry numbered day and renumbers the rest from 1
// keeping their order. An unmatched day leaves the list unchanged.
func (s *State) RemoveDay(day int) {
	if s.record.ProductItinerary == nil {
		return
	}
	next := s.record.Clone()
	kept := make([]domain.DayEntry, 0, len(next.ProductItinerary.Itineraries))
	for _, d := range next.ProductItinerary.Itineraries {
		if d.Day == day {
			continue
		}
		d.Day = len(kept) + 1
		kept = append(kept, d)
	}
	next.ProductItinerary.Itineraries = kept
	s.replace(next)
}

// PatchDayField replaces one field of the entry numbered day.
// Unmatched days and unknown fields are ignored.
func (s *State) PatchDayField(day int, field DayField, value string) {
	if s.record.ProductItinerary == nil {
		return
	}
	next := s.record.Clone()
	days := next.ProductItinerary.Itineraries
	idx := -1
	for i := range days {
		if days[i].Day == day {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	switch field {
	case DayIcon:
		days[idx].Icon = value
	case DayImage:
		days[idx].Image = value
	case DayContent:
		days[idx].Content = value
	default:
		return
	}
	s.replace(next)
}

// PatchItineraryField replaces the itinerary summary or image.
func (s *State) PatchItineraryField(field ItineraryField, value string) {
	if s.record.ProductItinerary == nil {
		return
	}
	next := s.record.Clone()
	switch field {
	case ItinerarySummary:
		next.ProductItinerary.Summary = value
	case ItineraryImage:
		next.ProductItinerary.Image = value
	default:
		return
	}
	s.replace(next)
}
