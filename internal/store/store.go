// Package store is the data-access layer: one repository per entity
// cluster, each translating driver errors into the client-visible taxonomy.
// Multi-statement writes run inside transactions so partial state never
// persists.
package store

import "gorm.io/gorm"

// Stores bundles every repository over the single shared handle.
type Stores struct {
	Products  *ProductsStore
	Inventory *InventoryStore
	Customers *CustomersStore
	Orders    *OrdersStore
	Employees *EmployeesStore
	Dashboard *DashboardStore
}

func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		Products:  &ProductsStore{db: db},
		Inventory: &InventoryStore{db: db},
		Customers: &CustomersStore{db: db},
		Orders:    &OrdersStore{db: db},
		Employees: &EmployeesStore{db: db},
		Dashboard: &DashboardStore{db: db},
	}
}
