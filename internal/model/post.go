package model

import "time"

// PostStatus 帖子状态
type PostStatus int8

const (
	PostStatusActive  PostStatus = 0
	PostStatusDeleted PostStatus = 1
)

// PostConcept 旅行主题分类；HOT 是哨兵值，检索时按热度阈值过滤而不是按分类等值过滤
type PostConcept string

const (
	ConceptFood   PostConcept = "FOOD"
	ConceptNature PostConcept = "NATURE"
	ConceptCity   PostConcept = "CITY"
	ConceptPhoto  PostConcept = "PHOTO"
	ConceptHot    PostConcept = "HOT"
	ConceptWalk   PostConcept = "WALK"
	ConceptCar    PostConcept = "CAR"
	ConceptTrain  PostConcept = "TRAIN"
)

var concepts = map[PostConcept]struct{}{
	ConceptFood: {}, ConceptNature: {}, ConceptCity: {}, ConceptPhoto: {},
	ConceptHot: {}, ConceptWalk: {}, ConceptCar: {}, ConceptTrain: {},
}

func (c PostConcept) Valid() bool {
	_, ok := concepts[c]
	return ok
}

// PostRegion 旅行地区
type PostRegion string

const (
	RegionSeoul            PostRegion = "SEOUL"
	RegionIncheon          PostRegion = "INCHEON"
	RegionBusan            PostRegion = "BUSAN"
	RegionDaegu            PostRegion = "DAEGU"
	RegionGwangju          PostRegion = "GWANGJU"
	RegionDaejeon          PostRegion = "DAEJEON"
	RegionUlsan            PostRegion = "ULSAN"
	RegionGyeonggido       PostRegion = "GYEONGGIDO"
	RegionGangwondo        PostRegion = "GANGWONDO"
	RegionChungcheongnamdo PostRegion = "CHUNGCHEONGNAMDO"
	RegionChungcheongbukdo PostRegion = "CHUNGCHEONGBUKDO"
	RegionJeollanamdo      PostRegion = "JEOLLANAMDO"
	RegionJeollabukdo      PostRegion = "JEOLLABUKDO"
	RegionGyeongsangnamdo  PostRegion = "GYEONGSANGNAMDO"
	RegionGyeongsangbukdo  PostRegion = "GYEONGSANGBUKDO"
	RegionJejudo           PostRegion = "JEJUDO"
)

var regions = map[PostRegion]struct{}{
	RegionSeoul: {}, RegionIncheon: {}, RegionBusan: {}, RegionDaegu: {},
	RegionGwangju: {}, RegionDaejeon: {}, RegionUlsan: {}, RegionGyeonggido: {},
	RegionGangwondo: {}, RegionChungcheongnamdo: {}, RegionChungcheongbukdo: {},
	RegionJeollanamdo: {}, RegionJeollabukdo: {}, RegionGyeongsangnamdo: {},
	RegionGyeongsangbukdo: {}, RegionJejudo: {},
}

func (r PostRegion) Valid() bool {
	_, ok := regions[r]
	return ok
}

// HotGoodThreshold concept=HOT 时的热度下限
const HotGoodThreshold = 10

// Post 帖子主体，由若干张卡片按 card_index 排序组成
type Post struct {
	PostID         int64       `gorm:"primaryKey;autoIncrement" json:"postId"`
	MemberID       int64       `gorm:"index:idx_post_member;not null" json:"memberId"`
	Title          string      `gorm:"type:varchar(100);not null" json:"title"`
	RoutePoint     string      `gorm:"type:text" json:"routePoint"`
	ThumbnailIndex int         `json:"thumbnailIndex"` // 指向某张 ACTIVE 卡片的 card_index
	Concept        PostConcept `gorm:"type:varchar(16);index:idx_post_concept;not null" json:"concept"`
	Region         PostRegion  `gorm:"type:varchar(24);index:idx_post_region;not null" json:"region"`
	GoodNumber     int         `gorm:"not null;default:0;index:idx_post_good" json:"goodNumber"`
	Status         PostStatus  `gorm:"not null;default:0;index:idx_post_status" json:"-"`
	CreatedAt      time.Time   `json:"createdTime"`
	UpdatedAt      time.Time   `json:"updatedTime"`

	Member   Member        `gorm:"foreignKey:MemberID" json:"-"`
	Cards    []Card        `gorm:"foreignKey:PostID" json:"-"`
	Hashtags []PostHashtag `gorm:"foreignKey:PostID" json:"-"`
}

func (Post) TableName() string { return "posts" }
