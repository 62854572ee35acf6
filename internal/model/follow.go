package model

import "time"

// Follow 关注关系（following 关注 followed）
type Follow struct {
	ID                int64 `gorm:"primaryKey;autoIncrement"`
	FollowingMemberID int64 `gorm:"index:idx_follow_following;index:idx_follow_pair,unique;not null"`
	FollowedMemberID  int64 `gorm:"not null;index:idx_follow_pair,unique"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (following_member_id, followed_member_id)
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
