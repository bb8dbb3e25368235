package store

import (
	"fmt"

	"artdash/internal/shared/logger"
	storehttp "artdash/internal/store/adapter/http"
	"artdash/internal/store/adapter/imagehost"
	"artdash/internal/store/adapter/persistence/mongodb"
	"artdash/internal/store/config"
	"artdash/internal/store/usecase"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// StoreModule bundles the storefront: catalog, orders, contact inbox,
// reviews and the admin analytics dashboard.
type StoreModule struct {
	catalog    *usecase.CatalogUsecase
	orders     *usecase.OrderUsecase
	engagement *usecase.EngagementUsecase
	dashboard  *usecase.DashboardUsecase

	catalogHandler    *storehttp.CatalogHTTPHandler
	orderHandler      *storehttp.OrderHTTPHandler
	engagementHandler *storehttp.EngagementHTTPHandler
	dashboardHandler  *storehttp.DashboardHTTPHandler

	config *config.Config
}

// NewStoreModule creates a new store module instance.
func NewStoreModule(db *mongo.Database, cfg *config.Config, log logger.Logger) (*StoreModule, error) {
	productRepo, err := mongodb.NewMongoProductRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create product repository: %w", err)
	}
	orderRepo, err := mongodb.NewMongoOrderRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create order repository: %w", err)
	}
	trafficRepo, err := mongodb.NewMongoTrafficRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create traffic repository: %w", err)
	}
	contactRepo := mongodb.NewMongoContactRepository(db)
	reviewRepo := mongodb.NewMongoReviewRepository(db)
	activityRepo := mongodb.NewMongoActivityRepository(db)

	imageHost := imagehost.NewCloudinaryHost(cfg)

	catalog := usecase.NewCatalogUsecase(productRepo, imageHost, cfg, log)
	orders := usecase.NewOrderUsecase(orderRepo, log)
	engagement := usecase.NewEngagementUsecase(contactRepo, reviewRepo, activityRepo, orderRepo, log)
	dashboard := usecase.NewDashboardUsecase(trafficRepo, orderRepo, contactRepo, cfg, log)

	return &StoreModule{
		catalog:    catalog,
		orders:     orders,
		engagement: engagement,
		dashboard:  dashboard,

		catalogHandler:    storehttp.NewCatalogHTTPHandler(catalog, log),
		orderHandler:      storehttp.NewOrderHTTPHandler(orders, log),
		engagementHandler: storehttp.NewEngagementHTTPHandler(engagement, log),
		dashboardHandler:  storehttp.NewDashboardHTTPHandler(dashboard, log),

		config: cfg,
	}, nil
}

// RegisterRoutes registers every store endpoint on router. The guards come
// from the auth module: protect authenticates, requireAdmin restricts.
func (sm *StoreModule) RegisterRoutes(router fiber.Router, protect, requireAdmin fiber.Handler) {
	sm.catalogHandler.SetupCatalogRoutes(router, protect, requireAdmin)
	sm.orderHandler.SetupOrderRoutes(router, protect, requireAdmin)
	sm.engagementHandler.SetupEngagementRoutes(router, protect, requireAdmin)
	sm.dashboardHandler.SetupDashboardRoutes(router, protect, requireAdmin)
}

// Engagement returns the engagement usecase. It satisfies the auth module's
// purge, activity and insights hooks.
func (sm *StoreModule) Engagement() *usecase.EngagementUsecase {
	return sm.engagement
}

// Stop performs cleanup when the module is shut down
func (sm *StoreModule) Stop() error {
	return nil
}
