package form

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/productform/internal/domain"
)

func TestNewStateIsEmptyDefault(t *testing.T) {
	s := NewState()
	if diff := cmp.Diff(domain.NewProductRecord(), s.Record()); diff != "" {
		t.Fatalf("unexpected initial record (-want +got):\n%s", diff)
	}
	assert.NotEmpty(t, s.Output())
}

func TestPatchFieldLastWriteWins(t *testing.T) {
	s := NewState()
	s.PatchField(FieldName, "first")
	s.PatchField(FieldPrice, "12")
	s.PatchField(FieldName, "second")
	s.PatchField(FieldPrice, "not a number")
	s.PatchField(FieldType, string(domain.ProductTypeTour))

	r := s.Record()
	assert.Equal(t, "second", r.ProductName)
	assert.Equal(t, "not a number", r.ProductPrice)
	assert.Equal(t, domain.ProductTypeTour, r.ProductType)
}

func TestPatchFieldUnknownIsNoop(t *testing.T) {
	s := NewState()
	before := s.Output()
	s.PatchField(Field("productColour"), "red")
	assert.Equal(t, before, s.Output())
}

func TestRecordIsACopy(t *testing.T) {
	s := NewState()
	s.AddDay()
	r := s.Record()
	r.ProductName = "mutated"
	r.ProductItinerary.Itineraries[0].Content = "mutated"

	fresh := s.Record()
	assert.Empty(t, fresh.ProductName)
	assert.Empty(t, fresh.ProductItinerary.Itineraries[0].Content)
}

func TestResetAfterAnyState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*State)
	}{
		{name: "fresh", setup: func(*State) {}},
		{name: "filled", setup: func(s *State) { s.Fill() }},
		{name: "edited", setup: func(s *State) {
			s.PatchField(FieldName, "x")
			s.AddDay()
			s.PatchDayField(1, DayContent, "c")
			s.PatchItineraryField(ItinerarySummary, "sum")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			tt.setup(s)
			s.Reset()
			if diff := cmp.Diff(domain.NewProductRecord(), s.Record()); diff != "" {
				t.Errorf("reset record mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, NewState().Output(), s.Output())
		})
	}
}

func TestFillThenReset(t *testing.T) {
	s := NewState()
	s.Fill()
	r := s.Record()
	assert.Equal(t, "Product XYZ", r.ProductName)
	assert.Equal(t, domain.ProductTypeCruise, r.ProductType)
	assert.Equal(t, "1000", r.ProductPrice)
	require.Equal(t, 2, r.DayCount())

	s.Reset()
	if diff := cmp.Diff(domain.NewProductRecord(), s.Record()); diff != "" {
		t.Errorf("record after reset (-want +got):\n%s", diff)
	}
}

func TestRegenerateOutputIdempotent(t *testing.T) {
	s := NewState()
	s.Fill()
	first := s.Output()
	s.RegenerateOutput()
	s.RegenerateOutput()
	assert.Equal(t, first, s.Output())
}

func TestAcmeCruiseScenario(t *testing.T) {
	s := NewState()
	s.PatchField(FieldName, "Acme Cruise")
	s.PatchField(FieldType, "Cruise")
	s.AddDay()
	s.AddDay()
	s.PatchDayField(1, DayContent, "Embark")

	out := s.Output()
	assert.Contains(t, out, `"productName": "Acme Cruise"`)
	assert.Contains(t, out, `"productType": "Cruise"`)
	assert.Contains(t, out, `"day": 1`)
	assert.Contains(t, out, `"day": 2`)
	assert.Contains(t, out, `"content": "Embark"`)

	days := s.Record().ProductItinerary.Itineraries
	require.Len(t, days, 2)
	assert.Equal(t, "Embark", days[0].Content)
	assert.Empty(t, days[1].Content)

	s.PatchDayField(2, DayIcon, "tour")
	s.PatchDayField(2, DayImage, "https://picsum.photos/200")
	s.PatchDayField(2, DayContent, "Sail")
	s.RemoveDay(1)

	days = s.Record().ProductItinerary.Itineraries
	require.Len(t, days, 1)
	assert.Equal(t, domain.DayEntry{
		Day:     1,
		Icon:    "tour",
		Image:   "https://picsum.photos/200",
		Content: "Sail",
	}, days[0])
	assert.False(t, strings.Contains(s.Output(), `"day": 2`))
}
