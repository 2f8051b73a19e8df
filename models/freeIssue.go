package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
)

// FreeIssue is a promotional rule: buying PurchaseQty (or more) of SkuId
// grants FreeQty of FreeSkuId. Flat pays the reward once; Multiple pays it
// per whole threshold multiple purchased. One rule per purchased SKU.
type FreeIssue struct {
	ID            int           `gorm:"primary_key" json:"id"`
	LabelName     string        `gorm:"size:255;not null" json:"label_name" binding:"required"`
	FreeIssueType FreeIssueType `gorm:"type:enum('Flat','Multiple');not null" json:"free_issue_type" binding:"required"`
	SkuId         int           `gorm:"uniqueIndex;not null" json:"sku_id" binding:"required"`
	Sku           *Sku          `gorm:"foreignKey:SkuId" json:"sku,omitempty"`
	FreeSkuId     int           `gorm:"not null" json:"free_sku_id" binding:"required"`
	FreeSku       *Sku          `gorm:"foreignKey:FreeSkuId" json:"free_sku,omitempty"`
	PurchaseQty   int           `gorm:"not null" json:"purchase_qty" binding:"required"`
	FreeQty       int           `gorm:"not null" json:"free_qty" binding:"required"`
	CreatedBy     int           `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewFreeIssue struct {
	LabelName     string        `json:"label_name" binding:"required"`
	FreeIssueType FreeIssueType `json:"free_issue_type" binding:"required"`
	SkuId         int           `json:"sku_id" binding:"required"`
	FreeSkuId     int           `json:"free_sku_id" binding:"required"`
	PurchaseQty   int           `json:"purchase_qty" binding:"required"`
	FreeQty       int           `json:"free_qty" binding:"required"`
}

// FreeQtyFor computes the bonus quantity granted for a purchased quantity.
// Flat: the reward once the threshold is met, no matter how far past it.
// Multiple: the reward per whole threshold multiple purchased.
// A rule with PurchaseQty <= 0 never grants (rejected at write time anyway).
func (fi *FreeIssue) FreeQtyFor(purchasedQty int) int {
	if fi.PurchaseQty <= 0 || purchasedQty < fi.PurchaseQty {
		return 0
	}
	switch fi.FreeIssueType {
	case FreeIssueTypeFlat:
		return fi.FreeQty
	case FreeIssueTypeMultiple:
		return (purchasedQty / fi.PurchaseQty) * fi.FreeQty
	}
	return 0
}

// validate input for both create & update. (id = 0 for create)
func (input *NewFreeIssue) validate(ctx context.Context, id int) error {
	// threshold of zero would divide-by-zero under Multiple; reject here so
	// the resolver never sees it
	if input.PurchaseQty <= 0 || input.FreeQty <= 0 {
		return ErrInvalidFreeIssueQty
	}
	if input.FreeIssueType != FreeIssueTypeFlat && input.FreeIssueType != FreeIssueTypeMultiple {
		return errors.New("invalid free issue type")
	}
	// exists purchased sku & reward sku
	if err := utils.ValidateResourceId[Sku](ctx, input.SkuId); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Sku](ctx, input.FreeSkuId); err != nil {
		return err
	}
	// one promotion per purchased sku
	if err := utils.ValidateUnique[FreeIssue](ctx, "sku_id", input.SkuId, id); err != nil {
		return ErrFreeIssueExists
	}
	return nil
}

func CreateFreeIssue(ctx context.Context, input *NewFreeIssue) (*FreeIssue, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	freeIssue := FreeIssue{
		LabelName:     input.LabelName,
		FreeIssueType: input.FreeIssueType,
		SkuId:         input.SkuId,
		FreeSkuId:     input.FreeSkuId,
		PurchaseQty:   input.PurchaseQty,
		FreeQty:       input.FreeQty,
		CreatedBy:     userId,
	}

	err := db.WithContext(ctx).Create(&freeIssue).Error
	if err != nil {
		return nil, err
	}

	return &freeIssue, nil
}

func UpdateFreeIssue(ctx context.Context, id int, input *NewFreeIssue) (*FreeIssue, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	freeIssue, err := utils.FetchModel[FreeIssue](ctx, id)
	if err != nil {
		return nil, err
	}

	freeIssue.LabelName = input.LabelName
	freeIssue.FreeIssueType = input.FreeIssueType
	freeIssue.SkuId = input.SkuId
	freeIssue.FreeSkuId = input.FreeSkuId
	freeIssue.PurchaseQty = input.PurchaseQty
	freeIssue.FreeQty = input.FreeQty

	err = db.WithContext(ctx).Save(freeIssue).Error
	if err != nil {
		return nil, err
	}

	return freeIssue, nil
}

func DeleteFreeIssue(ctx context.Context, id int) (*FreeIssue, error) {
	db := config.GetDB()

	freeIssue, err := utils.FetchModel[FreeIssue](ctx, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Delete(freeIssue).Error
	if err != nil {
		return nil, err
	}

	return freeIssue, nil
}

func GetFreeIssue(ctx context.Context, id int) (*FreeIssue, error) {
	return utils.FetchModel[FreeIssue](ctx, id, "Sku", "FreeSku")
}

func GetFreeIssues(ctx context.Context) ([]*FreeIssue, error) {
	return utils.FetchAllModels[FreeIssue](ctx, "Sku", "FreeSku")
}
