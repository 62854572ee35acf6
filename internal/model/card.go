package model

import "time"

// CardStatus 卡片状态
type CardStatus int8

const (
	CardStatusActive  CardStatus = 0
	CardStatusDeleted CardStatus = 1
)

// Card 帖子内的单张照片卡片；card_index 决定帖子内展示顺序
type Card struct {
	CardID    int64      `gorm:"primaryKey;autoIncrement" json:"cardId"`
	PostID    int64      `gorm:"index:idx_card_post;not null" json:"postId"`
	MemberID  int64      `gorm:"index:idx_card_member;not null" json:"memberId"` // 冗余作者 id，用于按作者查卡片
	CardIndex int        `gorm:"not null" json:"cardIndex"`
	Latitude  float64    `gorm:"type:decimal(17,14);index:idx_card_lat" json:"latitude"`
	Longitude float64    `gorm:"type:decimal(17,14);index:idx_card_lng" json:"longitude"`
	Location  string     `gorm:"type:varchar(100)" json:"location"`
	Image     string     `gorm:"type:varchar(500);not null" json:"image"`
	Content   string     `gorm:"type:text" json:"content"`
	Status    CardStatus `gorm:"not null;default:0;index:idx_card_status" json:"-"`
	CreatedAt time.Time  `json:"createdTime"`
	UpdatedAt time.Time  `json:"updatedTime"`
}

func (Card) TableName() string { return "cards" }
