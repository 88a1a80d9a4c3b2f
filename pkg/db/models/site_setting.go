package models

// SiteSetting is one row of the key/value settings table.
type SiteSetting struct {
	Key   string `gorm:"column:key;primaryKey;size:100"`
	Value string `gorm:"column:value;not null"`
}

func (SiteSetting) TableName() string {
	return "site_settings"
}
