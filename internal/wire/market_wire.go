package wire

import (
	"local-market/internal/adaptor"
	"local-market/internal/data/entity"

	"github.com/go-chi/chi/v5"
)

func wireFair(r chi.Router, fairHandler *adaptor.FairHandler, acc access) {
	r.Route("/fair", func(r chi.Router) {
		r.Get("/", fairHandler.ListFairs)
		r.Get("/{id}", fairHandler.GetFair)

		r.Group(func(r chi.Router) {
			r.Use(acc.require(entity.RoleAdmin)...)
			r.Post("/", fairHandler.CreateFair)
			r.Patch("/{id}", fairHandler.UpdateFair)
			r.Delete("/{id}", fairHandler.DeleteFair)
		})
	})
}

// Ownership of a shop or product is checked in the service; the route only
// narrows the caller to sellers and admins.
func wireShop(r chi.Router, shopHandler *adaptor.ShopHandler, acc access) {
	r.Route("/shop", func(r chi.Router) {
		r.Get("/", shopHandler.ListShops)
		r.Get("/{id}", shopHandler.GetShop)

		r.Group(func(r chi.Router) {
			r.Use(acc.require(entity.RoleSeller, entity.RoleAdmin)...)
			r.Post("/", shopHandler.CreateShop)
			r.Patch("/{id}", shopHandler.UpdateShop)
			r.Delete("/{id}", shopHandler.DeleteShop)
		})
	})
}

func wireProduct(r chi.Router, productHandler *adaptor.ProductHandler, acc access) {
	r.Route("/product", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(acc.require(entity.RoleSeller, entity.RoleAdmin)...)
			r.Post("/", productHandler.CreateProduct)
			r.Patch("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})
	})
}

func wireGeocode(r chi.Router, geocodeHandler *adaptor.GeocodeHandler) {
	r.Route("/geocode", func(r chi.Router) {
		r.Get("/geocode", geocodeHandler.Geocode)
		r.Get("/directions", geocodeHandler.Directions)
	})
}
