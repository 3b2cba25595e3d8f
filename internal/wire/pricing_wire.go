package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePricing(
	r chi.Router,
	pricingHandler *adaptor.PricingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// Rule management is admin only
	r.Route("/api/admin/pricing-rules", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/", pricingHandler.CreateRule)
		r.Get("/", pricingHandler.ListRules)
		r.Get("/{id}", pricingHandler.GetRuleByID)
		r.Put("/{id}", pricingHandler.UpdateRule)
		r.Delete("/{id}", pricingHandler.DeleteRule)
	})
}
