package postgres

import (
	"orderhub/internal/adapters/out/postgres/catalogrepo"
	"orderhub/internal/adapters/out/postgres/driverrepo"
	"orderhub/internal/adapters/out/postgres/notificationrepo"
	"orderhub/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Models lists every table owned or read by the service, parents first.
func Models() []any {
	return []any{
		&catalogrepo.StoreDTO{},
		&catalogrepo.ProductDTO{},
		&driverrepo.DriverDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&notificationrepo.NotificationDTO{},
		&notificationrepo.PushSubscriptionDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// TruncateAll empties every table. Used by integration tests between cases.
func TruncateAll(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE order_items, orders, drivers, products, stores, notifications, push_subscriptions").Error
}
