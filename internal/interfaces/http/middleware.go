package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/gestrack/gestrack-web/internal/application/nav"
	"github.com/gestrack/gestrack-web/internal/application/session"
	"github.com/gestrack/gestrack-web/internal/domain"
	"github.com/gestrack/gestrack-web/internal/domain/entity"
)

// Locals keys del gateway.
const (
	LocalSession = "session"
	LocalUser    = "current_user"
)

// MsgLoginRequired es el aviso que acompaña la redirección al login.
const MsgLoginRequired = "Debes iniciar sesión para acceder a esta página"

// SessionMiddleware resuelve la cookie de sesión (creándola si no existe) y
// deja en locals la vista de sesión y, si la hay, el usuario actual.
func SessionMiddleware(mgr *session.Manager, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(cookieName)
		if sid == "" {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    sid,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		sess := mgr.Session(sid)
		c.Locals(LocalSession, sess)
		if u := sess.CurrentUser(c.Context()); u != nil {
			c.Locals(LocalUser, u)
		}
		return c.Next()
	}
}

// GuardMiddleware aplica la política de rutas en cada navegación, sin caché
// de decisiones:
//
//   - sin sesión → 302 a /login con el path original y un aviso, para que
//     el login pueda devolver al usuario a donde iba;
//   - rol fuera del conjunto permitido → 302 a /forbidden (denegación dura);
//   - en otro caso → continúa.
func GuardMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if nav.IsPublic(path) {
			return c.Next()
		}

		sess := GetSession(c)
		user := GetUser(c)
		authenticated := sess != nil && sess.IsAuthenticated(c.Context())

		role := domain.RoleDesconocido
		if user != nil {
			role = domain.ParseRole(user.Role)
		}

		switch nav.Evaluate(path, authenticated, role) {
		case nav.DenyUnauthenticated:
			q := url.Values{}
			q.Set("from", path)
			q.Set("message", MsgLoginRequired)
			return c.Redirect("/login?"+q.Encode(), fiber.StatusFound)
		case nav.DenyForbidden:
			return c.Redirect("/forbidden", fiber.StatusFound)
		default:
			return c.Next()
		}
	}
}

// GetSession devuelve la vista de sesión del contexto.
func GetSession(c *fiber.Ctx) *session.Session {
	v := c.Locals(LocalSession)
	if v == nil {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

// GetUser devuelve el usuario actual del contexto o nil.
func GetUser(c *fiber.Ctx) *entity.User {
	v := c.Locals(LocalUser)
	if v == nil {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// GetRole devuelve el rol tipado del usuario actual.
func GetRole(c *fiber.Ctx) domain.Role {
	u := GetUser(c)
	if u == nil {
		return domain.RoleDesconocido
	}
	return domain.ParseRole(u.Role)
}
