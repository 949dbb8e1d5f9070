// Package models defines the relational schema for the ERP: catalog,
// inventory, CRM, sales and HR entities. Primary keys are UUID strings
// assigned in BeforeCreate hooks so Postgres and the SQLite test store
// behave identically.
package models

import "gorm.io/gorm"

// All lists every entity for AutoMigrate, referenced tables first.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Product{},
		&Warehouse{},
		&Inventory{},
		&InventoryTransaction{},
		&Customer{},
		&SalesOrder{},
		&SalesOrderItem{},
		&Department{},
		&Employee{},
	}
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
