package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
)

type Region struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Code      string    `gorm:"size:50;not null" json:"code" binding:"required"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	ZoneId    int       `gorm:"index;not null" json:"zone_id" binding:"required"`
	Zone      *Zone     `gorm:"foreignKey:ZoneId" json:"zone,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRegion struct {
	Code   string `json:"code" binding:"required"`
	Name   string `json:"name" binding:"required"`
	ZoneId int    `json:"zone_id" binding:"required"`
}

func (input *NewRegion) validate(ctx context.Context, _ int) error {
	return utils.ValidateResourceId[Zone](ctx, input.ZoneId)
}

func CreateRegion(ctx context.Context, input *NewRegion) (*Region, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	region := Region{
		Code:   input.Code,
		Name:   input.Name,
		ZoneId: input.ZoneId,
	}

	err := db.WithContext(ctx).Create(&region).Error
	if err != nil {
		return nil, err
	}

	return &region, nil
}

func UpdateRegion(ctx context.Context, id int, input *NewRegion) (*Region, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	region, err := utils.FetchModel[Region](ctx, id)
	if err != nil {
		return nil, err
	}

	region.Code = input.Code
	region.Name = input.Name
	region.ZoneId = input.ZoneId

	err = db.WithContext(ctx).Save(region).Error
	if err != nil {
		return nil, err
	}

	return region, nil
}

func DeleteRegion(ctx context.Context, id int) (*Region, error) {
	db := config.GetDB()

	region, err := utils.FetchModel[Region](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Territory](ctx, "region_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrRegionHasTerritories
	}

	err = db.WithContext(ctx).Delete(region).Error
	if err != nil {
		return nil, err
	}

	return region, nil
}

func GetRegion(ctx context.Context, id int) (*Region, error) {
	return utils.FetchModel[Region](ctx, id, "Zone")
}

// GetRegions lists regions, optionally filtered to one zone.
func GetRegions(ctx context.Context, zoneId *int) ([]*Region, error) {
	db := config.GetDB()
	var results []*Region

	dbCtx := db.WithContext(ctx).Preload("Zone")
	if zoneId != nil && *zoneId > 0 {
		dbCtx = dbCtx.Where("zone_id = ?", *zoneId)
	}
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
