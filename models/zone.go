package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
)

type Zone struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Code      string    `gorm:"size:50;uniqueIndex;not null" json:"code" binding:"required"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewZone struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

func (input *NewZone) validate(ctx context.Context, id int) error {
	return utils.ValidateUnique[Zone](ctx, "code", input.Code, id)
}

func CreateZone(ctx context.Context, input *NewZone) (*Zone, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	zone := Zone{
		Code: input.Code,
		Name: input.Name,
	}

	err := db.WithContext(ctx).Create(&zone).Error
	if err != nil {
		return nil, err
	}

	return &zone, nil
}

func UpdateZone(ctx context.Context, id int, input *NewZone) (*Zone, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	zone, err := utils.FetchModel[Zone](ctx, id)
	if err != nil {
		return nil, err
	}

	zone.Code = input.Code
	zone.Name = input.Name

	err = db.WithContext(ctx).Save(zone).Error
	if err != nil {
		return nil, err
	}

	return zone, nil
}

func DeleteZone(ctx context.Context, id int) (*Zone, error) {
	db := config.GetDB()

	zone, err := utils.FetchModel[Zone](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Region](ctx, "zone_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrZoneHasRegions
	}

	err = db.WithContext(ctx).Delete(zone).Error
	if err != nil {
		return nil, err
	}

	return zone, nil
}

func GetZone(ctx context.Context, id int) (*Zone, error) {
	return utils.FetchModel[Zone](ctx, id)
}

func GetZones(ctx context.Context) ([]*Zone, error) {
	return utils.FetchAllModels[Zone](ctx)
}
