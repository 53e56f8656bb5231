// Package sources reads the ERP flat-file exports that feed the dispatch
// pipeline. Each reader normalizes one file into a typed table: open or
// parse failures are logged and yield an empty table, and per-row coercion
// failures yield zero values for the affected fields instead of dropping
// the row.
package sources

import (
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
)

// Key identifies one configured source file.
type Key string

const (
	KeyOrderLines       Key = "order_lines"
	KeyShopOrders       Key = "shop_orders"
	KeyJobRegistry      Key = "job_registry"
	KeyLaborHistory     Key = "labor_history"
	KeyPartInventory    Key = "part_inventory"
	KeyCustomers        Key = "customers"
	KeyComments         Key = "comments"
	KeyMaterialShortage Key = "material_shortage"
	KeyOpenPO           Key = "open_po"
)

// AllKeys lists every source key in a stable order.
func AllKeys() []Key {
	return []Key{
		KeyOrderLines,
		KeyShopOrders,
		KeyJobRegistry,
		KeyLaborHistory,
		KeyPartInventory,
		KeyCustomers,
		KeyComments,
		KeyMaterialShortage,
		KeyOpenPO,
	}
}

func (k Key) String() string {
	return string(k)
}

// Reader loads and normalizes source files.
type Reader struct {
	logg *logger.Logger
}

// NewReader wires the source reader.
func NewReader(logg *logger.Logger) *Reader {
	return &Reader{logg: logg}
}
