package models

import (
	"log"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Zone{}, &Region{}, &Territory{},
		&Sku{}, &Discount{}, &FreeIssue{},
		&User{},
		&PurchaseOrder{}, &PoItem{},
		&Invoice{}, &InvoiceItem{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
