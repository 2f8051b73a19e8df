package models

import "errors"

// Sentinel errors so callers can map business failures to HTTP statuses
// without string matching.
var (
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrSkuInUse      = errors.New("sku is referenced by orders or pricing rules")

	ErrDiscountOutOfRange = errors.New("discount percentage must be between 0 and 100")
	ErrDiscountExists     = errors.New("a discount already exists for this sku")

	ErrFreeIssueExists     = errors.New("a free issue already exists for this sku")
	ErrInvalidFreeIssueQty = errors.New("purchase qty and free qty must be positive")

	ErrZoneHasRegions       = errors.New("zone still has regions")
	ErrRegionHasTerritories = errors.New("region still has territories")
	ErrTerritoryInUse       = errors.New("territory is referenced by purchase orders")

	ErrEmptyOrder        = errors.New("purchase order must have at least one item")
	ErrInvalidQty        = errors.New("item quantity must be positive")
	ErrPriceMismatch     = errors.New("submitted line pricing does not match current pricing rules")
	ErrDuplicatePoNumber = errors.New("duplicate po number")

	ErrDuplicateInvoiceNumber  = errors.New("duplicate invoice number")
	ErrEmptyInvoice            = errors.New("invoice must have at least one item")
	ErrInvalidStatusTransition = errors.New("invalid invoice status transition")
)
