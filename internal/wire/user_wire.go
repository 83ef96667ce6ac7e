package wire

import (
	"local-market/internal/adaptor"
	"local-market/internal/data/entity"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, acc access) {
	r.Route("/user", func(r chi.Router) {
		// any authenticated user
		r.With(acc.require()...).Get("/profile", userHandler.GetProfile)
		r.With(acc.require()...).Patch("/profile", userHandler.UpdateProfile)

		r.With(acc.require(entity.RoleAdmin)...).Get("/", userHandler.GetAllUsers)
		r.With(acc.require(entity.RoleAdmin)...).Delete("/{id}", userHandler.DeleteUser)
	})
}

func wireParty(r chi.Router, partyHandler *adaptor.PartyHandler, acc access) {
	admin := acc.require(entity.RoleAdmin)

	r.With(admin...).Get("/admin", partyHandler.ListAdmins)
	r.With(admin...).Get("/seller", partyHandler.ListSellers)
	r.With(admin...).Get("/client", partyHandler.ListClients)
}
