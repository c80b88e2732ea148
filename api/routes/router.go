package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minsukang/storelink-backend/api/controllers"
	"github.com/minsukang/storelink-backend/api/middleware"
	"github.com/minsukang/storelink-backend/internal/catalog"
	"github.com/minsukang/storelink-backend/internal/inventory"
	"github.com/minsukang/storelink-backend/pkg/config"
	"github.com/minsukang/storelink-backend/pkg/db"
	"github.com/minsukang/storelink-backend/pkg/logger"
	"github.com/minsukang/storelink-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	inventoryService inventory.Service,
	catalogService catalog.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Actor(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/inventories", func(r chi.Router) {
		r.Post("/", controllers.CreateInventory(inventoryService, logg))
		r.Route("/{inventoryId}", func(r chi.Router) {
			r.Get("/", controllers.GetInventory(inventoryService, logg))
			r.Get("/availability", controllers.GetAvailability(inventoryService, logg))
			r.Get("/transactions", controllers.ListInventoryTransactions(inventoryService, logg))

			r.Post("/receive", controllers.ReceiveStock(inventoryService, logg))
			r.Post("/ship", controllers.ShipStock(inventoryService, logg))
			r.Post("/adjust", controllers.AdjustStock(inventoryService, logg))

			r.Post("/reserve", controllers.Reserve(inventoryService, logg))
			r.Post("/release", controllers.ReleaseReservation(inventoryService, logg))
			r.Post("/confirm", controllers.ConfirmReservation(inventoryService, logg))
		})
	})

	r.Get("/api/v1/inventory-transactions", controllers.ListTransactionsByReference(inventoryService, logg))

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Post("/", controllers.CreateProduct(catalogService, logg))
		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", controllers.GetProduct(catalogService, logg))
			r.Patch("/active", controllers.SetProductActive(catalogService, logg))
			r.Post("/option-groups", controllers.AddOptionGroup(catalogService, logg))
			r.Post("/inventories", controllers.EnableStockTracking(catalogService, logg))
		})
	})

	r.Post("/api/v1/option-groups/{optionGroupId}/options", controllers.AddOption(catalogService, logg))
	r.Get("/api/v1/stores/{storeId}/products", controllers.ListStoreProducts(catalogService, logg))

	return r
}
