// Package formapi serves the product form page and its JSON API.
package formapi

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/talkincode/productform/config"
	"github.com/talkincode/productform/internal/app"
	"github.com/talkincode/productform/internal/domain"
	"github.com/talkincode/productform/internal/form"
	"github.com/talkincode/productform/internal/imagehost"
	formsession "github.com/talkincode/productform/internal/session"
	"github.com/talkincode/productform/internal/webserver"
)

const sessionIDKey = "form_sid"

type handler struct {
	cfg       *config.AppConfig
	store     *formsession.Store
	allowlist *imagehost.Allowlist
}

// Init registers the page and API routes on the web server.
func Init(appCtx app.AppContext) error {
	h := &handler{cfg: appCtx.Config(), store: appCtx.Store(), allowlist: appCtx.Allowlist()}
	renderer, err := newRenderer(h.allowlist)
	if err != nil {
		return err
	}
	webserver.SetRenderer(renderer)
	h.registerPageRoutes()
	h.registerApiRoutes()
	return nil
}

// formSession binds the request to a form session, creating one when the
// cookie is missing or names an expired session. The cookie is written on
// every request so its Max-Age slides along with the store's idle TTL.
func (h *handler) formSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(h.cfg.Session.CookieName, c)
		if sess == nil {
			return err
		}
		if err != nil {
			// undecodable cookie, e.g. after a secret rotation; start over
			zap.L().Debug("discarding form session cookie", zap.Error(err))
		}
		sid, _ := sess.Values[sessionIDKey].(string)
		if sid == "" || !h.store.Exists(sid) {
			sid = h.store.Create()
			sess.Values[sessionIDKey] = sid
		}
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return err
		}
		c.Set(sessionIDKey, sid)
		return next(c)
	}
}

func sessionID(c echo.Context) string {
	sid, _ := c.Get(sessionIDKey).(string)
	return sid
}

// update applies fn to the request's form state.
func (h *handler) update(c echo.Context, action string, fn func(*form.State)) error {
	return h.store.Update(sessionID(c), action, fn)
}

type formSnapshot struct {
	Record domain.ProductRecord `json:"record"`
	Output string               `json:"output"`
}

func (h *handler) snapshot(c echo.Context) (formSnapshot, error) {
	var snap formSnapshot
	err := h.store.View(sessionID(c), func(st *form.State) {
		snap = formSnapshot{Record: st.Record(), Output: st.Output()}
	})
	return snap, err
}
