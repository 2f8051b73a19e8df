package models

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID            int             `gorm:"primary_key" json:"id"`
	InvoiceNumber string          `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"`
	PoId          int             `gorm:"index;not null" json:"po_id"`
	PurchaseOrder *PurchaseOrder  `gorm:"foreignKey:PoId" json:"purchase_order,omitempty"`
	Date          time.Time       `gorm:"type:date;not null" json:"date"`
	Status        InvoiceStatus   `gorm:"type:enum('pending','paid','cancelled');default:'pending'" json:"status"`
	Remarks       string          `gorm:"size:255" json:"remarks"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	CreatedBy     int             `gorm:"not null" json:"created_by"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceId" json:"items,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type InvoiceItem struct {
	ID              int             `gorm:"primary_key" json:"id"`
	InvoiceId       int             `gorm:"index;not null" json:"invoice_id"`
	PoItemId        int             `gorm:"index;not null" json:"po_item_id"`
	SkuId           int             `gorm:"index;not null" json:"sku_id"`
	SkuCode         string          `gorm:"size:50;not null" json:"sku_code"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	Discount        decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount"`
	DiscountedPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"discounted_price"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_price"`
	IsFreeIssue     bool            `gorm:"not null;default:false" json:"is_free_issue"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoice struct {
	PoId int `json:"po_id" binding:"required"`
	// blank means generate for the invoice date; a submitted number (from the
	// next-number preview) must still be unique
	InvoiceNumber string           `json:"invoice_number"`
	Date          string           `json:"date" binding:"required"`
	Remarks       string           `json:"remarks"`
	Items         []NewInvoiceItem `json:"items" binding:"required"`
}

type NewInvoiceItem struct {
	PoItemId int `json:"po_item_id" binding:"required"`
	Quantity int `json:"quantity" binding:"required"`
}

// FormatInvoiceNumber renders the day scoped invoice number, eg INV-20240601-0007.
func FormatInvoiceNumber(date time.Time, suffix int64) string {
	return fmt.Sprintf("INV-%s-%04d", date.Format("20060102"), suffix)
}

// ParseInvoiceNumberSuffix extracts the trailing counter from an invoice
// number. Returns 0 for anything that does not match the expected shape.
func ParseInvoiceNumberSuffix(invoiceNumber string) int64 {
	idx := strings.LastIndex(invoiceNumber, "-")
	if idx < 0 || idx == len(invoiceNumber)-1 {
		return 0
	}
	suffix, err := strconv.ParseInt(invoiceNumber[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return suffix
}

var invoiceSeqMutex sync.Mutex

// NextInvoiceNumber hands out the next number for the given day. The counter
// lives in redis and reseeds from the table after a cache flush; a redis lock
// keeps concurrent processes from reseeding over each other.
func NextInvoiceNumber(ctx context.Context, date time.Time) (string, error) {
	invoiceSeqMutex.Lock()
	defer invoiceSeqMutex.Unlock()

	db := config.GetDB()
	day := date.Format("20060102")
	cacheKey := "invoice_seq_" + day

	locker := config.GetRedisLock()
	if locker != nil {
		lock, err := locker.Obtain(ctx, "lock_"+cacheKey, 5*time.Second, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
		})
		if err == nil {
			defer lock.Release(ctx)
		}
	}

	suffix, err := config.GetRedisCounter(ctx, cacheKey)
	if err != nil {
		return "", err
	}

	// fresh counter, seed it from whatever is already in the table for the day
	if suffix <= 1 {
		var last string
		err := db.WithContext(ctx).Model(&Invoice{}).
			Where("invoice_number LIKE ?", "INV-"+day+"-%").
			Select("COALESCE(MAX(invoice_number), '')").Scan(&last).Error
		if err != nil {
			return "", err
		}
		maxSuffix := ParseInvoiceNumberSuffix(last)
		if maxSuffix >= suffix {
			suffix = maxSuffix + 1
			if err := config.SetRedisValue(cacheKey, strconv.FormatInt(suffix, 10), 48*time.Hour); err != nil {
				return "", err
			}
		}
	}

	number := FormatInvoiceNumber(date, suffix)
	if err := utils.ValidateUnique[Invoice](ctx, "invoice_number", number, 0); err != nil {
		return "", ErrDuplicateInvoiceNumber
	}
	return number, nil
}

func (input *NewInvoice) validate(ctx context.Context) (time.Time, *PurchaseOrder, error) {
	if len(input.Items) == 0 {
		return time.Time{}, nil, ErrEmptyInvoice
	}
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return time.Time{}, nil, errors.New("date must be in YYYY-MM-DD format")
	}
	order, err := GetPurchaseOrder(ctx, input.PoId)
	if err != nil {
		return time.Time{}, nil, errors.New("purchase order not found")
	}
	return date, order, nil
}

// CreateInvoice bills a purchase order. Line pricing is copied from the order
// snapshot, never re-resolved, so rule changes after ordering do not move the
// invoice. Free issue lines stay at zero.
func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	db := config.GetDB()

	date, order, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}

	createdBy, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found in context")
	}

	poItems := make(map[int]*PoItem, len(order.Items))
	for i := range order.Items {
		poItems[order.Items[i].ID] = &order.Items[i]
	}

	total := decimal.Zero
	items := make([]InvoiceItem, 0, len(input.Items))
	for _, line := range input.Items {
		poItem, ok := poItems[line.PoItemId]
		if !ok {
			return nil, errors.New("item does not belong to this purchase order")
		}
		if line.Quantity <= 0 || line.Quantity > poItem.Quantity {
			return nil, ErrInvalidQty
		}

		item := InvoiceItem{
			PoItemId:        poItem.ID,
			SkuId:           poItem.SkuId,
			SkuCode:         poItem.SkuCode,
			Quantity:        line.Quantity,
			UnitPrice:       poItem.UnitPrice,
			Discount:        poItem.Discount,
			DiscountedPrice: poItem.DiscountedPrice,
			IsFreeIssue:     poItem.IsFreeIssue,
		}
		if !poItem.IsFreeIssue {
			item.TotalPrice = poItem.DiscountedPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(item.TotalPrice)
		}
		items = append(items, item)
	}

	number := input.InvoiceNumber
	if number == "" {
		number, err = NextInvoiceNumber(ctx, date)
		if err != nil {
			return nil, err
		}
	} else if err := utils.ValidateUnique[Invoice](ctx, "invoice_number", number, 0); err != nil {
		return nil, ErrDuplicateInvoiceNumber
	}

	invoice := Invoice{
		InvoiceNumber: number,
		PoId:          order.ID,
		Date:          date,
		Status:        InvoiceStatusPending,
		Remarks:       input.Remarks,
		TotalAmount:   total,
		CreatedBy:     createdBy,
		Items:         items,
	}

	err = db.WithContext(ctx).Create(&invoice).Error
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateInvoiceNumber
		}
		return nil, err
	}

	return &invoice, nil
}

// UpdateInvoiceStatus moves an invoice along its lifecycle. Paid and cancelled
// are terminal.
func UpdateInvoiceStatus(ctx context.Context, id int, next InvoiceStatus) (*Invoice, error) {
	db := config.GetDB()

	invoice, err := utils.FetchModel[Invoice](ctx, id)
	if err != nil {
		return nil, err
	}

	if !invoice.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}

	invoice.Status = next
	err = db.WithContext(ctx).Save(invoice).Error
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	return utils.FetchModel[Invoice](ctx, id, "Items", "PurchaseOrder", "PurchaseOrder.User", "PurchaseOrder.Territory")
}

type InvoiceFilter struct {
	InvoiceNumber *string
	Status        *InvoiceStatus
	PoId          *int
	DateFrom      *time.Time
	DateTo        *time.Time
}

func GetInvoices(ctx context.Context, filter *InvoiceFilter) ([]*Invoice, error) {
	db := config.GetDB()
	var results []*Invoice

	dbCtx := db.WithContext(ctx).Preload("Items").Preload("PurchaseOrder")
	if filter != nil {
		if filter.InvoiceNumber != nil && *filter.InvoiceNumber != "" {
			dbCtx = dbCtx.Where("invoice_number LIKE ?", "%"+*filter.InvoiceNumber+"%")
		}
		if filter.Status != nil && *filter.Status != "" {
			dbCtx = dbCtx.Where("status = ?", *filter.Status)
		}
		if filter.PoId != nil && *filter.PoId > 0 {
			dbCtx = dbCtx.Where("po_id = ?", *filter.PoId)
		}
		if filter.DateFrom != nil {
			dbCtx = dbCtx.Where("date >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			dbCtx = dbCtx.Where("date <= ?", *filter.DateTo)
		}
	}

	err := dbCtx.Order("id desc").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetUninvoicedPurchaseOrders lists orders with no invoice yet, for the
// billing screen.
func GetUninvoicedPurchaseOrders(ctx context.Context) ([]*PurchaseOrder, error) {
	db := config.GetDB()
	var results []*PurchaseOrder

	err := db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		Preload("Territory").
		Joins("LEFT JOIN invoices ON invoices.po_id = purchase_orders.id AND invoices.status <> ?", InvoiceStatusCancelled).
		Where("invoices.id IS NULL").
		Order("purchase_orders.id desc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
