package models

// Role names used across the app. Teachers are class-restricted
// everywhere: reports, reminders and student search only ever show
// their own class.
const (
	RoleAdmin   = "admin"
	RoleAccount = "account"
	RoleTeacher = "teacher"
)

// Session is the explicit application context carried through a login:
// who is acting and which class, if any, their view is restricted to.
// It is created at login, serialized into the JWT, and injected into
// handlers - never read from ambient storage.
type Session struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Class string `json:"class"`
}

// RestrictedClass returns the class the viewer is scoped to, or ""
// when the viewer may see everything.
func (s Session) RestrictedClass() string {
	if s.Role == RoleTeacher {
		return s.Class
	}
	return ""
}
