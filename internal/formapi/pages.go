package formapi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talkincode/productform/internal/domain"
	"github.com/talkincode/productform/internal/form"
	formsession "github.com/talkincode/productform/internal/session"
	"github.com/talkincode/productform/internal/webserver"
)

type pageView struct {
	Record        domain.ProductRecord
	Itinerary     domain.Itinerary
	Output        string
	ProductTypes  []domain.ProductType
	Icons         []domain.Icon
	ShowItinerary bool
	ImageWidth    int
	ImageHeight   int
}

func (h *handler) registerPageRoutes() {
	webserver.GET("/", h.showPage, h.formSession)
	webserver.POST("/form", h.savePage, h.formSession)
	webserver.POST("/form/days", h.addDayPage, h.formSession)
	webserver.POST("/form/days/:day/delete", h.removeDayPage, h.formSession)
	webserver.POST("/form/generate", h.generatePage, h.formSession)
	webserver.POST("/form/fill", h.fillPage, h.formSession)
	webserver.POST("/form/reset", h.resetPage, h.formSession)
}

func (h *handler) showPage(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return h.backHome(c, err)
	}
	view := pageView{
		Record:       snap.Record,
		Output:       snap.Output,
		ProductTypes: domain.ProductTypes,
		Icons:        domain.Icons,
		ImageWidth:   h.cfg.Images.Width,
		ImageHeight:  h.cfg.Images.Height,
	}
	if it := snap.Record.ProductItinerary; it != nil {
		view.Itinerary = *it
		view.ShowItinerary = it.Summary != "" || len(it.Itineraries) > 0
	}
	return c.Render(http.StatusOK, "index.html", view)
}

func (h *handler) savePage(c echo.Context) error {
	values, err := formValues(c)
	if err != nil {
		return err
	}
	err = h.update(c, "save", func(st *form.State) {
		applyFormValues(st, values)
	})
	return h.backHome(c, err)
}

func (h *handler) addDayPage(c echo.Context) error {
	values, err := formValues(c)
	if err != nil {
		return err
	}
	err = h.update(c, "add_day", func(st *form.State) {
		applyFormValues(st, values)
		st.AddDay()
	})
	return h.backHome(c, err)
}

func (h *handler) removeDayPage(c echo.Context) error {
	values, err := formValues(c)
	if err != nil {
		return err
	}
	day, convErr := strconv.Atoi(c.Param("day"))
	err = h.update(c, "remove_day", func(st *form.State) {
		applyFormValues(st, values)
		if convErr == nil {
			st.RemoveDay(day)
		}
	})
	return h.backHome(c, err)
}

func (h *handler) generatePage(c echo.Context) error {
	values, err := formValues(c)
	if err != nil {
		return err
	}
	err = h.update(c, "generate", func(st *form.State) {
		applyFormValues(st, values)
		st.RegenerateOutput()
	})
	return h.backHome(c, err)
}

func (h *handler) fillPage(c echo.Context) error {
	return h.backHome(c, h.update(c, "fill", (*form.State).Fill))
}

func (h *handler) resetPage(c echo.Context) error {
	return h.backHome(c, h.update(c, "reset", (*form.State).Reset))
}

func formValues(c echo.Context) (url.Values, error) {
	values, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unable to parse form")
	}
	return values, nil
}

// backHome redirects to the page after a form post. A session that expired
// mid-request also lands on the page, which starts a fresh one.
func (h *handler) backHome(c echo.Context, err error) error {
	if err != nil && !errors.Is(err, formsession.ErrNotFound) {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// applyFormValues patches the state from posted control names. Names are
// "productName"-style top-level fields, "productItinerary-<field>" and
// "<field>-<day>"; anything else is ignored.
func applyFormValues(st *form.State, values url.Values) {
	for name, vs := range values {
		if len(vs) == 0 {
			continue
		}
		v := vs[len(vs)-1]
		if f, ok := form.ParseField(name); ok {
			st.PatchField(f, v)
			continue
		}
		if f, ok := form.ParseItineraryKey(name); ok {
			st.PatchItineraryField(f, v)
			continue
		}
		if day, f, ok := form.ParseDayKey(name); ok {
			st.PatchDayField(day, f, v)
		}
	}
}
