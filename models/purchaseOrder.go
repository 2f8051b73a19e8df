package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseOrder struct {
	ID          int             `gorm:"primary_key" json:"id"`
	SequenceNo  int64           `gorm:"index" json:"-"`
	PoNumber    string          `gorm:"size:50;uniqueIndex;not null" json:"po_number"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	UserId      int             `gorm:"index;not null" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserId" json:"user,omitempty"`
	TerritoryId int             `gorm:"index;not null" json:"territory_id"`
	Territory   *Territory      `gorm:"foreignKey:TerritoryId" json:"territory,omitempty"`
	Remark      string          `gorm:"size:255" json:"remark"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	CreatedBy   int             `gorm:"not null" json:"created_by"`
	Items       []PoItem        `gorm:"foreignKey:PoId" json:"items,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type PoItem struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PoId            int             `gorm:"index;not null" json:"po_id"`
	SkuId           int             `gorm:"index;not null" json:"sku_id"`
	Sku             *Sku            `gorm:"foreignKey:SkuId" json:"sku,omitempty"`
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

type NewPurchaseOrder struct {
	// blank means generate from the sequence; a submitted number (from the
	// next-number preview) must still be unique
	PoNumber    string      `json:"po_number"`
	Date        string      `json:"date" binding:"required"`
	UserId      int         `json:"user_id" binding:"required"`
	TerritoryId int         `json:"territory_id" binding:"required"`
	Remark      string      `json:"remark"`
	Items       []NewPoItem `json:"items" binding:"required"`
}

// NewPoItem carries what the client believes the line pricing is. Pricing is
// re-resolved server side and any submitted figure that disagrees rejects the
// whole order.
type NewPoItem struct {
	SkuId         int              `json:"sku_id" binding:"required"`
	Quantity      int              `json:"quantity" binding:"required"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	Discount      *decimal.Decimal `json:"discount"`
	ExpectedPrice *decimal.Decimal `json:"discounted_price"`
}

type PurchaseOrderFilter struct {
	PoNumber    *string
	UserId      *int
	TerritoryId *int
	RegionId    *int
	DateFrom    *time.Time
	DateTo      *time.Time
}

// FormatPoNumber renders a sequence number as the zero padded order number.
func FormatPoNumber(seq int64) string {
	return fmt.Sprintf("%010d", seq)
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func (input *NewPurchaseOrder) validate(ctx context.Context) (time.Time, error) {
	if len(input.Items) == 0 {
		return time.Time{}, ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return time.Time{}, ErrInvalidQty
		}
	}
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return time.Time{}, errors.New("date must be in YYYY-MM-DD format")
	}
	if err := utils.ValidateResourceId[User](ctx, input.UserId); err != nil {
		return time.Time{}, errors.New("user not found")
	}
	if err := utils.ValidateResourceId[Territory](ctx, input.TerritoryId); err != nil {
		return time.Time{}, errors.New("territory not found")
	}
	return date, nil
}

// resolveLine re-prices a submitted line inside the order transaction so the
// stored snapshot reflects the rules at commit time, not what the client saw.
func resolveLine(ctx context.Context, tx *gorm.DB, skuId int) (*ResolvedPrice, error) {
	var sku Sku
	err := tx.WithContext(ctx).First(&sku, skuId).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.New("sku not found")
	}
	if err != nil {
		return nil, err
	}

	var percentage decimal.Decimal
	var discount Discount
	err = tx.WithContext(ctx).Where("sku_id = ?", sku.ID).Order("id desc").First(&discount).Error
	if err == nil {
		percentage = discount.Percentage
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return &ResolvedPrice{
		SkuId:           sku.ID,
		SkuCode:         sku.SkuCode,
		SkuName:         sku.SkuName,
		UnitPrice:       sku.DistributorPrice,
		Discount:        percentage,
		DiscountedPrice: utils.CalculateDiscountedPrice(sku.DistributorPrice, percentage),
		WeightUnit:      sku.WeightUnit,
	}, nil
}

// CreatePurchaseOrder prices and persists an order in one transaction. Each
// entered line is re-priced from the current rules; free issue lines are
// synthesized right after the line that earned them, at zero price. The order
// total covers entered lines only.
func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	db := config.GetDB()

	date, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}

	createdBy, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found in context")
	}

	var seqNo int64
	poNumber := input.PoNumber
	if poNumber == "" {
		seqNo, err = utils.GetSequence[PurchaseOrder](ctx)
		if err != nil {
			return nil, err
		}
		poNumber = FormatPoNumber(seqNo)
	} else if err := utils.ValidateUnique[PurchaseOrder](ctx, "po_number", poNumber, 0); err != nil {
		return nil, ErrDuplicatePoNumber
	}

	tx := db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	order := PurchaseOrder{
		SequenceNo:  seqNo,
		PoNumber:    poNumber,
		Date:        date,
		UserId:      input.UserId,
		TerritoryId: input.TerritoryId,
		Remark:      input.Remark,
		CreatedBy:   createdBy,
	}

	total := decimal.Zero
	items := make([]PoItem, 0, len(input.Items))
	for _, line := range input.Items {
		price, err := resolveLine(ctx, tx, line.SkuId)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if (line.UnitPrice != nil && !line.UnitPrice.Equal(price.UnitPrice)) ||
			(line.Discount != nil && !line.Discount.Equal(price.Discount)) ||
			(line.ExpectedPrice != nil && !line.ExpectedPrice.Equal(price.DiscountedPrice)) {
			tx.Rollback()
			return nil, ErrPriceMismatch
		}

		lineTotal := price.DiscountedPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, PoItem{
			SkuId:           price.SkuId,
			SkuCode:         price.SkuCode,
			Quantity:        line.Quantity,
			UnitPrice:       price.UnitPrice,
			Discount:        price.Discount,
			DiscountedPrice: price.DiscountedPrice,
			TotalPrice:      lineTotal,
		})

		grant, err := resolveFreeIssue(ctx, tx, line.SkuId, line.Quantity)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if grant != nil {
			items = append(items, PoItem{
				SkuId:       grant.FreeSkuId,
				SkuCode:     grant.FreeSkuCode,
				Quantity:    grant.FreeQty,
				IsFreeIssue: true,
			})
		}
	}

	order.TotalAmount = total
	order.Items = items

	err = tx.Create(&order).Error
	if err != nil {
		tx.Rollback()
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicatePoNumber
		}
		return nil, err
	}

	err = tx.Commit().Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	return utils.FetchModel[PurchaseOrder](ctx, id, "Items", "Items.Sku", "User", "Territory", "Territory.Region")
}

func GetPurchaseOrders(ctx context.Context, filter *PurchaseOrderFilter) ([]*PurchaseOrder, error) {
	db := config.GetDB()
	var results []*PurchaseOrder

	dbCtx := db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		Preload("Territory").
		Preload("Territory.Region")

	if filter != nil {
		if filter.PoNumber != nil && *filter.PoNumber != "" {
			dbCtx = dbCtx.Where("purchase_orders.po_number LIKE ?", "%"+*filter.PoNumber+"%")
		}
		if filter.UserId != nil && *filter.UserId > 0 {
			dbCtx = dbCtx.Where("purchase_orders.user_id = ?", *filter.UserId)
		}
		if filter.TerritoryId != nil && *filter.TerritoryId > 0 {
			dbCtx = dbCtx.Where("purchase_orders.territory_id = ?", *filter.TerritoryId)
		}
		if filter.RegionId != nil && *filter.RegionId > 0 {
			dbCtx = dbCtx.
				Joins("JOIN territories ON territories.id = purchase_orders.territory_id").
				Where("territories.region_id = ?", *filter.RegionId)
		}
		if filter.DateFrom != nil {
			dbCtx = dbCtx.Where("purchase_orders.date >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			dbCtx = dbCtx.Where("purchase_orders.date <= ?", *filter.DateTo)
		}
	}

	err := dbCtx.Order("purchase_orders.id desc").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// NextPurchaseOrderNumber previews the next order number without consuming a
// sequence value. The value consumed at creation time may be higher when
// orders land in between.
func NextPurchaseOrderNumber(ctx context.Context) (string, error) {
	db := config.GetDB()

	var maxSeq int64
	err := db.WithContext(ctx).Model(&PurchaseOrder{}).
		Select("COALESCE(MAX(sequence_no), 0)").Scan(&maxSeq).Error
	if err != nil {
		return "", err
	}
	return FormatPoNumber(maxSeq + 1), nil
}
