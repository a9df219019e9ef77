// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/board"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/item"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&item.Item{},
		&item.ItemOption{},
		&item.ItemTag{},
		&wishlist.WishItem{},
		&board.Board{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations(ctx context.Context) error {
	m.logger.Info("Running database auto-migrations")

	db := m.db.WithContext(ctx)
	for _, model := range Models() {
		m.logger.Debugf("Migrating model: %T", model)
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates indexes the struct tags cannot express
func (m *Migration) CreateIndexes(ctx context.Context) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		"CREATE INDEX IF NOT EXISTS idx_items_reg_date ON items(reg_date DESC) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_items_name_lower ON items(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_item_options_iid_live ON item_options(iid) WHERE deleted_at IS NULL",

		"CREATE INDEX IF NOT EXISTS idx_wish_items_iid_value ON wish_items(iid) WHERE value = 1",

		"CREATE INDEX IF NOT EXISTS idx_boards_item_type_date ON boards(iid, type, reg_date DESC) WHERE deleted_at IS NULL",

		"CREATE INDEX IF NOT EXISTS idx_cart_items_email_cid ON cart_items(email, cid)",

		"CREATE INDEX IF NOT EXISTS idx_orders_email_date ON orders(email, reg_date DESC) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
	}

	db := m.db.WithContext(ctx)
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	m.logger.WithField("count", len(indexes)).Info("Database indexes created")
	return nil
}

// SeedInitialData creates the development accounts and a small catalogue.
// It is idempotent.
func (m *Migration) SeedInitialData(ctx context.Context) error {
	db := m.db.WithContext(ctx)

	if err := m.seedUser(db, "admin@example.com", "admin1234", "Admin", true); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedUser(db, "user@example.com", "user12345", "Test User", false); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}
	if err := m.seedItems(db); err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}

	m.logger.Info("Initial data seeded")
	return nil
}

func (m *Migration) seedUser(db *gorm.DB, email, password, name string, isAdmin bool) error {
	var existing user.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		m.logger.WithField("email", email).Debug("Seed user already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.User{
		Email:    email,
		Password: string(hashed),
		Name:     name,
		IsActive: true,
		IsAdmin:  isAdmin,
	}
	if err := db.Create(&u).Error; err != nil {
		return err
	}

	m.logger.WithFields(logrus.Fields{"email": email, "admin": isAdmin}).Info("Seed user created")
	return nil
}

func (m *Migration) seedItems(db *gorm.DB) error {
	var count int64
	if err := db.Model(&item.Item{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	saleEnds := time.Now().AddDate(0, 1, 0)
	items := []item.Item{
		{
			Name:     "Jeju green tea",
			Category: "tea",
			Img1:     "/images/green-tea.jpg",
			Content:  "First flush leaves from Jeju island.",
			Price:    12000,
			Options:  []item.ItemOption{{Option: "50g", Count: 30}, {Option: "100g", Count: 12}},
			Tags:     []item.ItemTag{{Tag: "tea"}, {Tag: "jeju"}},
		},
		{
			Name:      "Celadon mug",
			Category:  "tableware",
			Img1:      "/images/celadon-mug.jpg",
			Content:   "Hand thrown stoneware mug.",
			Price:     28000,
			SalePrice: 22000,
			SaleDate:  &saleEnds,
			Options:   []item.ItemOption{{Option: "white", Count: 5}, {Option: "jade", Count: 2}},
			Tags:      []item.ItemTag{{Tag: "mug"}, {Tag: "gift"}},
		},
		{
			Name:     "Brass tea scoop",
			Category: "tools",
			Img1:     "/images/tea-scoop.jpg",
			Price:    9000,
			Options:  []item.ItemOption{{Option: "default", Count: 40}},
		},
	}

	if err := db.Create(&items).Error; err != nil {
		return err
	}

	m.logger.WithField("count", len(items)).Info("Seed items created")
	return nil
}

// DropAllTables drops every table in reverse dependency order
func (m *Migration) DropAllTables(ctx context.Context) error {
	m.logger.Warn("Dropping all database tables")

	models := Models()
	migrator := m.db.WithContext(ctx).Migrator()
	for i := len(models) - 1; i >= 0; i-- {
		if err := migrator.DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
		}
	}
	return nil
}
