package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/shopspring/decimal"
)

// Discount is a per-SKU percentage discount. One active rule per SKU:
// enforced both by the unique index and by write-time validation.
type Discount struct {
	ID         int             `gorm:"primary_key" json:"id"`
	LabelName  string          `gorm:"size:255;not null" json:"label_name" binding:"required"`
	SkuId      int             `gorm:"uniqueIndex;not null" json:"sku_id" binding:"required"`
	Sku        *Sku            `gorm:"foreignKey:SkuId" json:"sku,omitempty"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDiscount struct {
	LabelName  string          `json:"label_name" binding:"required"`
	SkuId      int             `json:"sku_id" binding:"required"`
	Percentage decimal.Decimal `json:"percentage"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewDiscount) validate(ctx context.Context, id int) error {
	// exists sku
	if err := utils.ValidateResourceId[Sku](ctx, input.SkuId); err != nil {
		return err
	}
	// percentage in [0,100]
	if input.Percentage.IsNegative() || input.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrDiscountOutOfRange
	}
	// single active rule per sku
	if err := utils.ValidateUnique[Discount](ctx, "sku_id", input.SkuId, id); err != nil {
		return ErrDiscountExists
	}
	return nil
}

func CreateDiscount(ctx context.Context, input *NewDiscount) (*Discount, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	discount := Discount{
		LabelName:  input.LabelName,
		SkuId:      input.SkuId,
		Percentage: input.Percentage,
	}

	err := db.WithContext(ctx).Create(&discount).Error
	if err != nil {
		return nil, err
	}

	return &discount, nil
}

func UpdateDiscount(ctx context.Context, id int, input *NewDiscount) (*Discount, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	discount, err := utils.FetchModel[Discount](ctx, id)
	if err != nil {
		return nil, err
	}

	discount.LabelName = input.LabelName
	discount.SkuId = input.SkuId
	discount.Percentage = input.Percentage

	err = db.WithContext(ctx).Save(discount).Error
	if err != nil {
		return nil, err
	}

	return discount, nil
}

func DeleteDiscount(ctx context.Context, id int) (*Discount, error) {
	db := config.GetDB()

	discount, err := utils.FetchModel[Discount](ctx, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Delete(discount).Error
	if err != nil {
		return nil, err
	}

	return discount, nil
}

func GetDiscount(ctx context.Context, id int) (*Discount, error) {
	return utils.FetchModel[Discount](ctx, id, "Sku")
}

func GetDiscounts(ctx context.Context) ([]*Discount, error) {
	return utils.FetchAllModels[Discount](ctx, "Sku")
}
