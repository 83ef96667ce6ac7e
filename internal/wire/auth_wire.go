package wire

import (
	"local-market/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, acc access) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)

		r.With(acc.require()...).Post("/logout", authHandler.Logout)
		r.With(acc.refresh()).Post("/refresh", authHandler.Refresh)
	})
}
