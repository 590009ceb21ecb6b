package models

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:32;uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"size:32;uniqueIndex;not null"`
}
