package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		// SQLite has no gen_random_uuid(); let gorm derive the schema.
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		return &Database{DB: db}, nil
	}

	// PostgreSQL for production
	db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create tables manually with raw SQL
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS distributor_configs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		merchant_id TEXT UNIQUE NOT NULL,
		api_key TEXT NOT NULL,
		api_secret TEXT NOT NULL,
		environment TEXT DEFAULT 'production',
		selected_brands TEXT,
		is_active BOOLEAN DEFAULT true,
		last_validated TIMESTAMPTZ,
		validation_ok BOOLEAN DEFAULT false,
		validation_err TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS tracked_products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		merchant_id TEXT NOT NULL,
		sku TEXT NOT NULL,
		title TEXT,
		brand TEXT,
		category TEXT,
		shopify_product_id TEXT,
		shopify_variant_id TEXT,
		original_price DECIMAL(10,2) DEFAULT 0,
		current_price DECIMAL(10,2) DEFAULT 0,
		markup_percent DECIMAL DEFAULT 0,
		inventory_qty INTEGER DEFAULT 0,
		sync_status TEXT DEFAULT 'active',
		last_synced_at TIMESTAMPTZ,
		sync_errors TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE (merchant_id, sku)
	);
	CREATE INDEX IF NOT EXISTS idx_tracked_products_status ON tracked_products (sync_status);
	CREATE INDEX IF NOT EXISTS idx_tracked_products_brand ON tracked_products (brand);

	CREATE TABLE IF NOT EXISTS vehicle_records (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		turn14_vehicle_id TEXT,
		year INTEGER NOT NULL,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		submodel TEXT DEFAULT '',
		engine TEXT,
		transmission TEXT,
		drive_type TEXT,
		body_style TEXT,
		is_active BOOLEAN DEFAULT true,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE (year, make, model, submodel)
	);
	CREATE INDEX IF NOT EXISTS idx_vehicle_records_turn14 ON vehicle_records (turn14_vehicle_id);

	CREATE TABLE IF NOT EXISTS compatibility_edges (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		merchant_id TEXT NOT NULL,
		product_id UUID NOT NULL,
		year INTEGER DEFAULT 0,
		make TEXT DEFAULT '',
		model TEXT DEFAULT '',
		submodel TEXT DEFAULT '',
		engine_notes TEXT,
		is_universal BOOLEAN DEFAULT false,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE (merchant_id, product_id, year, make, model, submodel)
	);
	CREATE INDEX IF NOT EXISTS idx_compatibility_edges_product ON compatibility_edges (product_id);
	CREATE INDEX IF NOT EXISTS idx_compatibility_edges_ymm ON compatibility_edges (year, make, model);

	CREATE TABLE IF NOT EXISTS sync_schedules (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		merchant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		sync_type TEXT NOT NULL,
		frequency TEXT NOT NULL,
		is_active BOOLEAN DEFAULT true,
		last_run_at TIMESTAMPTZ,
		next_run_at TIMESTAMPTZ,
		settings TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_sync_schedules_next_run ON sync_schedules (next_run_at);

	CREATE TABLE IF NOT EXISTS sync_jobs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		merchant_id TEXT NOT NULL,
		schedule_id UUID,
		sync_type TEXT NOT NULL,
		status TEXT DEFAULT 'pending',
		started_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		total_items INTEGER DEFAULT 0,
		processed_items INTEGER DEFAULT 0,
		success_items INTEGER DEFAULT 0,
		failed_items INTEGER DEFAULT 0,
		error_message TEXT,
		results TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_sync_jobs_merchant ON sync_jobs (merchant_id, created_at);

	CREATE TABLE IF NOT EXISTS customer_garages (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		merchant_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		max_vehicles INTEGER DEFAULT 5,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE (merchant_id, customer_id)
	);

	CREATE TABLE IF NOT EXISTS garage_vehicles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		garage_id UUID NOT NULL,
		year INTEGER NOT NULL,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		submodel TEXT DEFAULT '',
		nickname TEXT,
		color TEXT,
		mileage INTEGER DEFAULT 0,
		vin TEXT,
		is_primary BOOLEAN DEFAULT false,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_garage_vehicles_garage ON garage_vehicles (garage_id);

	CREATE TABLE IF NOT EXISTS maintenance_reminders (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		vehicle_id UUID NOT NULL,
		kind TEXT NOT NULL,
		interval_type TEXT NOT NULL,
		interval_months INTEGER DEFAULT 0,
		interval_miles INTEGER DEFAULT 0,
		next_due_at TIMESTAMPTZ,
		next_mileage INTEGER,
		last_mileage INTEGER,
		last_done_at TIMESTAMPTZ,
		is_active BOOLEAN DEFAULT true,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_maintenance_reminders_vehicle ON maintenance_reminders (vehicle_id);

	CREATE TABLE IF NOT EXISTS price_alerts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		vehicle_id UUID NOT NULL,
		product_id UUID NOT NULL,
		alert_type TEXT NOT NULL,
		target_price DECIMAL(10,2) DEFAULT 0,
		triggered BOOLEAN DEFAULT false,
		triggered_at TIMESTAMPTZ,
		is_active BOOLEAN DEFAULT true,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_price_alerts_vehicle ON price_alerts (vehicle_id);

	CREATE TABLE IF NOT EXISTS purchase_histories (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		vehicle_id UUID NOT NULL,
		product_id UUID NOT NULL,
		sku TEXT,
		order_id TEXT,
		price DECIMAL(10,2) DEFAULT 0,
		quantity INTEGER DEFAULT 1,
		purchased_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_purchase_histories_vehicle ON purchase_histories (vehicle_id);
	`

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

// AutoMigrate derives the schema from the models. Used for SQLite and tests.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.DistributorConfig{},
		&models.TrackedProduct{},
		&models.VehicleRecord{},
		&models.CompatibilityEdge{},
		&models.SyncSchedule{},
		&models.SyncJob{},
		&models.CustomerGarage{},
		&models.GarageVehicle{},
		&models.MaintenanceReminder{},
		&models.PriceAlert{},
		&models.PurchaseHistory{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
