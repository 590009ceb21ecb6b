package models

import "time"

// Follow is a subscription of one user (follower) to another (author).
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_author;check:chk_follow_not_self,follower_id <> author_id"`
	AuthorID   uint      `json:"author_id" gorm:"index;uniqueIndex:idx_follower_author"`
	Follower   User      `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Author     User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"created_at"`
}
