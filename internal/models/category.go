package models

// OtherCategoryName is the seeded catch-all category used when a product
// has no category or none could be resolved.
const OtherCategoryName = "Inne"

// OtherCategoryIcon is the icon reported for the catch-all category.
const OtherCategoryIcon = "other"

// Category is an entry of the seeded product taxonomy.
type Category struct {
	Base
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	IconName string `gorm:"not null" json:"icon_name"`
}
