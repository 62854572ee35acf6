package model

import "time"

// PostGood 会员点赞记录，(member_id, post_id) 唯一；帖子上的 good_number 与其同步增减
type PostGood struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	MemberID  int64 `gorm:"index:idx_good_member;index:idx_good_pair,unique;not null"`
	PostID    int64 `gorm:"not null;index:idx_good_pair,unique"`
	CreatedAt time.Time
}

func (PostGood) TableName() string { return "post_goods" }
