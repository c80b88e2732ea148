package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Stock for the product (or its options) lives in
// Inventory rows keyed by (product_id, option_id).
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID   uuid.UUID       `gorm:"column:store_id;type:uuid;not null;index"`
	Name      string          `gorm:"column:name;type:text;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	OptionGroups []OptionGroup `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string { return "products" }

// OptionGroup collects the options a buyer picks between (size, color, ...).
type OptionGroup struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Options []Option `gorm:"foreignKey:OptionGroupID"`
}

func (OptionGroup) TableName() string { return "option_groups" }

// Option is one selectable variant within a group. Option-level stock tracking
// references the option id from the Inventory row.
type Option struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OptionGroupID uuid.UUID `gorm:"column:option_group_id;type:uuid;not null;index"`
	Name          string    `gorm:"column:name;type:text;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Prices []OptionPrice `gorm:"foreignKey:OptionID"`
}

func (Option) TableName() string { return "options" }

// OptionPrice is a price surcharge attached to an option.
type OptionPrice struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OptionID  uuid.UUID       `gorm:"column:option_id;type:uuid;not null;index"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (OptionPrice) TableName() string { return "option_prices" }
