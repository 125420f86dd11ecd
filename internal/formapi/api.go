package formapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talkincode/productform/internal/form"
	formsession "github.com/talkincode/productform/internal/session"
	"github.com/talkincode/productform/internal/webserver"
)

type fieldPayload struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *handler) registerApiRoutes() {
	webserver.ApiGET("/form", h.getForm, h.formSession)
	webserver.ApiPATCH("/form/fields", h.patchField, h.formSession)
	webserver.ApiPATCH("/form/itinerary", h.patchItinerary, h.formSession)
	webserver.ApiPOST("/form/days", h.addDay, h.formSession)
	webserver.ApiDELETE("/form/days/:day", h.removeDay, h.formSession)
	webserver.ApiPATCH("/form/days/:day", h.patchDay, h.formSession)
	webserver.ApiPOST("/form/generate", h.generate, h.formSession)
	webserver.ApiPOST("/form/fill", h.fill, h.formSession)
	webserver.ApiPOST("/form/reset", h.reset, h.formSession)
}

func (h *handler) getForm(c echo.Context) error {
	return h.respond(c, nil)
}

func (h *handler) patchField(c echo.Context) error {
	var payload fieldPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse field patch", err.Error())
	}
	field, ok := form.ParseField(payload.Field)
	if !ok {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_FIELD", "Unknown product field", payload.Field)
	}
	return h.respond(c, h.update(c, "patch_field", func(st *form.State) {
		st.PatchField(field, payload.Value)
	}))
}

func (h *handler) patchItinerary(c echo.Context) error {
	var payload fieldPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse itinerary patch", err.Error())
	}
	field := form.ItineraryField(payload.Field)
	if field != form.ItinerarySummary && field != form.ItineraryImage {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_FIELD", "Unknown itinerary field", payload.Field)
	}
	return h.respond(c, h.update(c, "patch_itinerary", func(st *form.State) {
		st.PatchItineraryField(field, payload.Value)
	}))
}

func (h *handler) addDay(c echo.Context) error {
	return h.respond(c, h.update(c, "add_day", (*form.State).AddDay))
}

// removeDay ignores day tokens that are not integers, like an unmatched day.
func (h *handler) removeDay(c echo.Context) error {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		return h.respond(c, nil)
	}
	return h.respond(c, h.update(c, "remove_day", func(st *form.State) {
		st.RemoveDay(day)
	}))
}

func (h *handler) patchDay(c echo.Context) error {
	var payload fieldPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse day patch", err.Error())
	}
	field := form.DayField(payload.Field)
	switch field {
	case form.DayIcon, form.DayImage, form.DayContent:
	default:
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_FIELD", "Unknown day field", payload.Field)
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		return h.respond(c, nil)
	}
	return h.respond(c, h.update(c, "patch_day", func(st *form.State) {
		st.PatchDayField(day, field, payload.Value)
	}))
}

func (h *handler) generate(c echo.Context) error {
	return h.respond(c, h.update(c, "generate", (*form.State).RegenerateOutput))
}

func (h *handler) fill(c echo.Context) error {
	return h.respond(c, h.update(c, "fill", (*form.State).Fill))
}

func (h *handler) reset(c echo.Context) error {
	return h.respond(c, h.update(c, "reset", (*form.State).Reset))
}

// respond writes the current snapshot, or maps err to an error envelope.
func (h *handler) respond(c echo.Context, err error) error {
	if err == nil {
		var snap formSnapshot
		snap, err = h.snapshot(c)
		if err == nil {
			return webserver.Ok(c, snap)
		}
	}
	if errors.Is(err, formsession.ErrNotFound) {
		return webserver.Fail(c, http.StatusGone, "SESSION_EXPIRED", "Form session expired", nil)
	}
	return webserver.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update form", err.Error())
}
