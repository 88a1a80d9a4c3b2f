package models

import "time"

// Category groups products. Deleting one unassigns its products.
type Category struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;size:100;not null"`
	Slug      string    `gorm:"column:slug;size:120;not null;uniqueIndex:categories_slug_key"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Category) TableName() string {
	return "categories"
}
