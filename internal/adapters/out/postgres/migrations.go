package postgres

import (
	"context"
	"fmt"

	"loadboard/internal/adapters/out/postgres/loadrepo"
	"loadboard/internal/adapters/out/postgres/requestrepo"
	"loadboard/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

// schemaStatements hold what AutoMigrate cannot express: partial unique
// indexes guarding request arbitration, status checks and foreign keys.
// Every statement is idempotent.
var schemaStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_load_requests_pending_driver
		ON load_requests (load_id, driver_id) WHERE status = 'pending'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_load_requests_confirmed_load
		ON load_requests (load_id) WHERE status = 'confirmed'`,
	`DO $$ BEGIN
		ALTER TABLE loads ADD CONSTRAINT ck_loads_status
			CHECK (status IN ('pending', 'requested', 'assigned', 'intransit', 'delivered', 'canceled'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE loads ADD CONSTRAINT ck_loads_payment_status
			CHECK (payment_status IN ('unpaid', 'paid', 'processing', 'failed'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE loads ADD CONSTRAINT ck_loads_paid_only_delivered
			CHECK (payment_status <> 'paid' OR status = 'delivered');
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE load_requests ADD CONSTRAINT ck_load_requests_status
			CHECK (status IN ('pending', 'confirmed', 'rejected'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE users ADD CONSTRAINT ck_users_role
			CHECK (role IN ('sender', 'driver', 'truck_owner', 'receiver'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE loads ADD CONSTRAINT fk_loads_sender
			FOREIGN KEY (sender_id) REFERENCES users (id);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE loads ADD CONSTRAINT fk_loads_driver
			FOREIGN KEY (driver_id) REFERENCES users (id);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE load_requests ADD CONSTRAINT fk_load_requests_load
			FOREIGN KEY (load_id) REFERENCES loads (id);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE load_requests ADD CONSTRAINT fk_load_requests_driver
			FOREIGN KEY (driver_id) REFERENCES users (id);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE users ADD CONSTRAINT fk_users_managed_by
			FOREIGN KEY (managed_by) REFERENCES users (id);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
}

// Migrate creates or upgrades the load board schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(
		&userrepo.UserDTO{},
		&loadrepo.LoadDTO{},
		&requestrepo.LoadRequestDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range schemaStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	return nil
}
