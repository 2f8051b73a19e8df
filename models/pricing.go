package models

import (
	"context"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResolvedPrice is the current selling price of a SKU: the distributor price
// with the active percentage discount (if any) applied.
type ResolvedPrice struct {
	SkuId           int             `json:"sku_id"`
	SkuCode         string          `json:"sku_code"`
	SkuName         string          `json:"sku_name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	WeightUnit      string          `json:"units"`
}

// FreeIssueGrant is the outcome of the free-issue resolver: a bonus quantity
// of a (possibly different) SKU.
type FreeIssueGrant struct {
	FreeSkuId   int    `json:"free_sku_id"`
	FreeSkuCode string `json:"free_sku_code"`
	FreeQty     int    `json:"free_qty"`
}

// ResolveSkuPrice looks up the SKU and its active discount and computes the
// discounted unit price. No rule means zero discount. Pure read; resolving
// twice without a rule change yields identical output.
func ResolveSkuPrice(ctx context.Context, skuId int) (*ResolvedPrice, error) {
	sku, err := utils.FetchModel[Sku](ctx, skuId)
	if err != nil {
		return nil, err
	}
	return resolvePriceForSku(ctx, sku)
}

func resolvePriceForSku(ctx context.Context, sku *Sku) (*ResolvedPrice, error) {
	db := config.GetDB()

	var percentage decimal.Decimal
	var discount Discount
	// uniqueness is enforced at write time; order by id desc so any legacy
	// duplicate rows resolve to the most recent rule instead of an arbitrary one
	err := db.WithContext(ctx).Where("sku_id = ?", sku.ID).Order("id desc").First(&discount).Error
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

// GetSkusWithPricing returns the full catalog annotated with current discounts
// and discounted prices. Feeds the order-entry screen.
func GetSkusWithPricing(ctx context.Context) ([]*ResolvedPrice, error) {
	db := config.GetDB()

	skus, err := utils.FetchAllModels[Sku](ctx)
	if err != nil {
		return nil, err
	}

	var discounts []Discount
	if err := db.WithContext(ctx).Order("id asc").Find(&discounts).Error; err != nil {
		return nil, err
	}
	// later rows win, same tie-break as resolvePriceForSku
	bySku := make(map[int]decimal.Decimal, len(discounts))
	for _, d := range discounts {
		bySku[d.SkuId] = d.Percentage
	}

	results := make([]*ResolvedPrice, 0, len(skus))
	for _, sku := range skus {
		percentage := bySku[sku.ID]
		results = append(results, &ResolvedPrice{
			SkuId:           sku.ID,
			SkuCode:         sku.SkuCode,
			SkuName:         sku.SkuName,
			UnitPrice:       sku.DistributorPrice,
			Discount:        percentage,
			DiscountedPrice: utils.CalculateDiscountedPrice(sku.DistributorPrice, percentage),
			WeightUnit:      sku.WeightUnit,
		})
	}
	return results, nil
}

// resolveFreeIssue finds the promotion for a purchased SKU and computes the
// bonus. Returns nil when there is no rule or the quantity earns nothing.
func resolveFreeIssue(ctx context.Context, tx *gorm.DB, skuId int, purchasedQty int) (*FreeIssueGrant, error) {
	var rule FreeIssue
	err := tx.WithContext(ctx).Preload("FreeSku").Where("sku_id = ?", skuId).First(&rule).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	freeQty := rule.FreeQtyFor(purchasedQty)
	if freeQty <= 0 {
		return nil, nil
	}

	grant := FreeIssueGrant{
		FreeSkuId: rule.FreeSkuId,
		FreeQty:   freeQty,
	}
	if rule.FreeSku != nil {
		grant.FreeSkuCode = rule.FreeSku.SkuCode
	}
	return &grant, nil
}
