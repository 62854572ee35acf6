package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/polaroad/internal/model"
)

// CardImage 缩略图合成所需的最小卡片投影
type CardImage struct {
	PostID    int64
	CardIndex int
	Image     string
}

// CardListItem 我的卡片页投影
type CardListItem struct {
	CardID   int64  `json:"cardId"`
	Location string `json:"location"`
	Image    string `json:"image"`
}

// MapCardItem 地图范围检索投影
type MapCardItem struct {
	PostID    int64   `json:"postId"`
	CardID    int64   `json:"cardId"`
	Image     string  `json:"image"`
	Content   string  `json:"content"`
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapBounds 西南角 / 东北角围成的检索范围
type MapBounds struct {
	SwLatitude  float64
	NeLatitude  float64
	SwLongitude float64
	NeLongitude float64
}

type CardRepository interface {
	// ListImagesByPostIDs 一次查询取回这批帖子的全部 ACTIVE 卡片图片，按帖子分组。
	// 没有 ACTIVE 卡片的帖子不在返回的 map 里，调用方按空列表处理。
	ListImagesByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]CardImage, error)
	ListActiveByPost(ctx context.Context, postID int64) ([]model.Card, error)
	ListPageByMember(ctx context.Context, memberID int64, page, pageSize int) ([]CardListItem, int, error)
	// SearchInBounds 地图范围内 ACTIVE 帖子的 ACTIVE 卡片，按帖子热度排序
	SearchInBounds(ctx context.Context, keyword string, hashtagID int64, concept model.PostConcept, bounds MapBounds, limit int) ([]MapCardItem, error)
}

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) ListImagesByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]CardImage, error) {
	grouped := make(map[int64][]CardImage, len(postIDs))
	if len(postIDs) == 0 {
		return grouped, nil
	}
	var rows []CardImage
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("post_id, card_index, image").
		Where("post_id IN ? AND status = ?", postIDs, model.CardStatusActive).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		grouped[row.PostID] = append(grouped[row.PostID], row)
	}
	return grouped, nil
}

func (r *cardRepository) ListActiveByPost(ctx context.Context, postID int64) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND status = ?", postID, model.CardStatusActive).
		Order("card_index ASC").
		Find(&cards).Error
	return cards, err
}

func (r *cardRepository) ListPageByMember(ctx context.Context, memberID int64, page, pageSize int) ([]CardListItem, int, error) {
	base := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("member_id = ? AND status = ?", memberID, model.CardStatusActive)
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []CardListItem{}, 0, nil
	}
	var items []CardListItem
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("card_id, location, image").
		Where("member_id = ? AND status = ?", memberID, model.CardStatusActive).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	maxPage := int((total + int64(pageSize) - 1) / int64(pageSize))
	return items, maxPage, nil
}

func (r *cardRepository) SearchInBounds(ctx context.Context, keyword string, hashtagID int64, concept model.PostConcept, bounds MapBounds, limit int) ([]MapCardItem, error) {
	tx := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("cards.post_id, cards.card_id, cards.image, cards.content, cards.location, cards.latitude, cards.longitude").
		Joins("JOIN posts ON posts.post_id = cards.post_id").
		Where("cards.status = ? AND posts.status = ?", model.CardStatusActive, model.PostStatusActive).
		Where("cards.latitude >= ? AND cards.latitude <= ? AND cards.longitude >= ? AND cards.longitude <= ?",
			bounds.SwLatitude, bounds.NeLatitude, bounds.SwLongitude, bounds.NeLongitude)
	if keyword != "" {
		kw := "%" + strings.ToLower(keyword) + "%"
		tx = tx.Where("(LOWER(posts.title) LIKE ? OR LOWER(cards.content) LIKE ?)", kw, kw)
	}
	if hashtagID > 0 {
		tx = tx.Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.post_id").
			Where("post_hashtags.hashtag_id = ?", hashtagID)
	}
	if concept == model.ConceptHot {
		tx = tx.Where("posts.good_number >= ?", model.HotGoodThreshold)
	} else if concept != "" {
		tx = tx.Where("posts.concept = ?", concept)
	}
	var items []MapCardItem
	err := tx.Order("posts.good_number DESC, posts.post_id DESC").
		Limit(limit).
		Scan(&items).Error
	return items, err
}
