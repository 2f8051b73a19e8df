package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
)

type User struct {
	ID          int        `gorm:"primary_key" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name" binding:"required"`
	Nic         string     `gorm:"size:50" json:"nic"`
	Address     string     `gorm:"size:255" json:"address"`
	Mobile      string     `gorm:"size:50" json:"mobile"`
	Gender      string     `gorm:"size:20" json:"gender"`
	Email       string     `gorm:"size:255" json:"email"`
	Username    string     `gorm:"size:100;uniqueIndex;not null" json:"username" binding:"required"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	Role        UserRole   `gorm:"type:enum('admin','distributor');not null" json:"role"`
	TerritoryId *int       `gorm:"index" json:"territory_id"`
	Territory   *Territory `gorm:"foreignKey:TerritoryId" json:"territory,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name        string   `json:"name" binding:"required"`
	Nic         string   `json:"nic"`
	Address     string   `json:"address"`
	Mobile      string   `json:"mobile"`
	Gender      string   `json:"gender"`
	Email       string   `json:"email"`
	Username    string   `json:"username" binding:"required"`
	Password    string   `json:"password"`
	Role        UserRole `json:"role" binding:"required"`
	TerritoryId *int     `json:"territory_id"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewUser) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[User](ctx, "username", input.Username, id); err != nil {
		return err
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	if input.Mobile != "" {
		if err := utils.ValidatePhoneNumber(input.Mobile, utils.CountryCode); err != nil {
			return errors.New("invalid mobile number")
		}
	}
	if input.TerritoryId != nil && *input.TerritoryId > 0 {
		if err := utils.ValidateResourceId[Territory](ctx, *input.TerritoryId); err != nil {
			return errors.New("territory not found")
		}
	}
	return nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, errors.New("password is required")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:        input.Name,
		Nic:         input.Nic,
		Address:     input.Address,
		Mobile:      input.Mobile,
		Gender:      input.Gender,
		Email:       input.Email,
		Username:    input.Username,
		Password:    hashed,
		Role:        input.Role,
		TerritoryId: input.TerritoryId,
	}

	err = db.WithContext(ctx).Create(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func UpdateUser(ctx context.Context, id int, input *NewUser) (*User, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Nic = input.Nic
	user.Address = input.Address
	user.Mobile = input.Mobile
	user.Gender = input.Gender
	user.Email = input.Email
	user.Username = input.Username
	user.Role = input.Role
	user.TerritoryId = input.TerritoryId
	// blank password keeps the existing hash
	if input.Password != "" {
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	err = db.WithContext(ctx).Save(user).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

func DeleteUser(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()

	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[PurchaseOrder](ctx, "user_id = ? OR created_by = ?", id, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("user is referenced by purchase orders")
	}

	err = db.WithContext(ctx).Delete(user).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	return utils.FetchModel[User](ctx, id, "Territory")
}

// GetUsers lists users, optionally filtered by role.
func GetUsers(ctx context.Context, role *UserRole) ([]*User, error) {
	db := config.GetDB()
	var results []*User

	dbCtx := db.WithContext(ctx).Preload("Territory")
	if role != nil && *role != "" {
		dbCtx = dbCtx.Where("role = ?", *role)
	}
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Login verifies credentials and returns the user with a signed JWT.
func Login(ctx context.Context, username string, password string) (*User, string, error) {
	db := config.GetDB()

	var user User
	err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, "", errors.New("invalid username or password")
	}

	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, "", errors.New("invalid username or password")
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}
