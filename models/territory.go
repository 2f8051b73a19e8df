package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
)

type Territory struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Code      string    `gorm:"size:50;not null" json:"code" binding:"required"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	RegionId  int       `gorm:"index;not null" json:"region_id" binding:"required"`
	Region    *Region   `gorm:"foreignKey:RegionId" json:"region,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTerritory struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	RegionId int    `json:"region_id" binding:"required"`
}

func (input *NewTerritory) validate(ctx context.Context, _ int) error {
	return utils.ValidateResourceId[Region](ctx, input.RegionId)
}

func CreateTerritory(ctx context.Context, input *NewTerritory) (*Territory, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	territory := Territory{
		Code:     input.Code,
		Name:     input.Name,
		RegionId: input.RegionId,
	}

	err := db.WithContext(ctx).Create(&territory).Error
	if err != nil {
		return nil, err
	}

	return &territory, nil
}

func UpdateTerritory(ctx context.Context, id int, input *NewTerritory) (*Territory, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	territory, err := utils.FetchModel[Territory](ctx, id)
	if err != nil {
		return nil, err
	}

	territory.Code = input.Code
	territory.Name = input.Name
	territory.RegionId = input.RegionId

	err = db.WithContext(ctx).Save(territory).Error
	if err != nil {
		return nil, err
	}

	return territory, nil
}

func DeleteTerritory(ctx context.Context, id int) (*Territory, error) {
	db := config.GetDB()

	territory, err := utils.FetchModel[Territory](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[PurchaseOrder](ctx, "territory_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTerritoryInUse
	}

	err = db.WithContext(ctx).Delete(territory).Error
	if err != nil {
		return nil, err
	}

	return territory, nil
}

func GetTerritory(ctx context.Context, id int) (*Territory, error) {
	return utils.FetchModel[Territory](ctx, id, "Region")
}

// GetTerritories lists territories, optionally filtered to one region.
func GetTerritories(ctx context.Context, regionId *int) ([]*Territory, error) {
	db := config.GetDB()
	var results []*Territory

	dbCtx := db.WithContext(ctx).Preload("Region")
	if regionId != nil && *regionId > 0 {
		dbCtx = dbCtx.Where("region_id = ?", *regionId)
	}
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
