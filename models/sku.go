package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/shopspring/decimal"
)

type Sku struct {
	ID               int             `gorm:"primary_key" json:"id"`
	SkuCode          string          `gorm:"size:100;uniqueIndex;not null" json:"sku_code" binding:"required"`
	SkuName          string          `gorm:"size:255;not null" json:"sku_name" binding:"required"`
	Mrp              decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"mrp"`
	DistributorPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"distributor_price"`
	WeightVolume     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"weight_volume"`
	WeightUnit       string          `gorm:"size:20" json:"weight_unit"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSku struct {
	SkuCode          string          `json:"sku_code" binding:"required"`
	SkuName          string          `json:"sku_name" binding:"required"`
	Mrp              decimal.Decimal `json:"mrp" binding:"required"`
	DistributorPrice decimal.Decimal `json:"distributor_price" binding:"required"`
	WeightVolume     decimal.Decimal `json:"weight_volume"`
	WeightUnit       string          `json:"weight_unit"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewSku) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Sku](ctx, "sku_code", input.SkuCode, id); err != nil {
		return err
	}
	if input.Mrp.IsNegative() || input.DistributorPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

func CreateSku(ctx context.Context, input *NewSku) (*Sku, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	sku := Sku{
		SkuCode:          input.SkuCode,
		SkuName:          input.SkuName,
		Mrp:              input.Mrp,
		DistributorPrice: input.DistributorPrice,
		WeightVolume:     input.WeightVolume,
		WeightUnit:       input.WeightUnit,
	}

	err := db.WithContext(ctx).Create(&sku).Error
	if err != nil {
		return nil, err
	}

	return &sku, nil
}

func UpdateSku(ctx context.Context, id int, input *NewSku) (*Sku, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	sku, err := utils.FetchModel[Sku](ctx, id)
	if err != nil {
		return nil, err
	}

	sku.SkuCode = input.SkuCode
	sku.SkuName = input.SkuName
	sku.Mrp = input.Mrp
	sku.DistributorPrice = input.DistributorPrice
	sku.WeightVolume = input.WeightVolume
	sku.WeightUnit = input.WeightUnit

	err = db.WithContext(ctx).Save(sku).Error
	if err != nil {
		return nil, err
	}

	return sku, nil
}

func DeleteSku(ctx context.Context, id int) (*Sku, error) {
	db := config.GetDB()

	sku, err := utils.FetchModel[Sku](ctx, id)
	if err != nil {
		return nil, err
	}

	// a SKU referenced by order lines or pricing rules must not disappear
	count, err := utils.ResourceCountWhere[PoItem](ctx, "sku_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSkuInUse
	}
	count, err = utils.ResourceCountWhere[Discount](ctx, "sku_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSkuInUse
	}
	count, err = utils.ResourceCountWhere[FreeIssue](ctx, "sku_id = ? OR free_sku_id = ?", id, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSkuInUse
	}

	err = db.WithContext(ctx).Delete(sku).Error
	if err != nil {
		return nil, err
	}

	return sku, nil
}

func GetSku(ctx context.Context, id int) (*Sku, error) {
	return utils.FetchModel[Sku](ctx, id)
}

func GetSkus(ctx context.Context) ([]*Sku, error) {
	return utils.FetchAllModels[Sku](ctx)
}
