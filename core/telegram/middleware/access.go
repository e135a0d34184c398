package middleware

import tele "gopkg.in/telebot.v4"

// AdminChecker reports whether an actor id belongs to the admin roster.
type AdminChecker interface {
	IsAdmin(id int64) bool
}

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	Roster   AdminChecker
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only roster members can invoke downstream handlers.
// Non-admins are rejected via OnReject, or silently ignored when it is nil.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.Roster != nil && !opts.Roster.IsAdmin(c.Sender().ID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
