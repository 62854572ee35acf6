package model

// Hashtag 标签字典表，name 唯一、懒创建
type Hashtag struct {
	HashtagID int64  `gorm:"primaryKey;autoIncrement" json:"hashtagId"`
	Name      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

func (Hashtag) TableName() string { return "hashtags" }

// PostHashtag 帖子与标签的多对多关联；编辑时对不再引用的行做硬删除
type PostHashtag struct {
	HashtagID int64 `gorm:"primaryKey;autoIncrement:false" json:"hashtagId"`
	PostID    int64 `gorm:"primaryKey;autoIncrement:false;index:idx_ph_post" json:"postId"`

	Hashtag Hashtag `gorm:"foreignKey:HashtagID" json:"-"`
}

func (PostHashtag) TableName() string { return "post_hashtags" }
