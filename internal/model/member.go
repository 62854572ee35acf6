package model

import "time"

// MemberStatus 会员状态
type MemberStatus int8

const (
	MemberStatusActive  MemberStatus = 0
	MemberStatusDeleted MemberStatus = 1
)

// Member 会员，列表页只展示 nickname
type Member struct {
	MemberID  int64        `gorm:"primaryKey;autoIncrement" json:"memberId"`
	Email     string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Nickname  string       `gorm:"type:varchar(50);not null" json:"nickname"`
	Profile   string       `gorm:"type:varchar(500)" json:"profileImage"`
	Status    MemberStatus `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time    `json:"createdTime"`
	UpdatedAt time.Time    `json:"updatedTime"`
}

func (Member) TableName() string { return "members" }
