package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/polaroad/internal/model"
)

// SortOrder 列表排序方式
type SortOrder string

const (
	SortRecent SortOrder = "RECENT" // 最新优先
	SortGood   SortOrder = "GOOD"   // 热度优先，同热度按时间
)

func (s SortOrder) Valid() bool { return s == SortRecent || s == SortGood }

// PostSummaryRow 列表页投影行，一行对应一个帖子
type PostSummaryRow struct {
	Title          string
	PostID         int64
	Nickname       string
	ThumbnailIndex int
	GoodNumber     int
	Concept        model.PostConcept
	Region         model.PostRegion
	UpdatedAt      time.Time
}

// SearchFilter 可组合的检索条件。
// count 查询和分页查询必须复用同一个 filter（都走 apply），
// 否则总数和页内容会互相矛盾。
type SearchFilter struct {
	Keyword   string            // 关键字模式：匹配标题 / 卡片内容 / 作者昵称，忽略大小写
	HashtagID int64             // 标签模式：>0 时生效，与 Keyword 互斥
	Concept   model.PostConcept // 零值跳过；HOT 转成 good_number 阈值条件
	Region    model.PostRegion  // 零值跳过
	Status    model.PostStatus  // 恒定生效
	AuthorIDs []int64           // 关注流模式：约束作者集合
}

// apply 把过滤条件编译到查询上
func (f SearchFilter) apply(tx *gorm.DB) *gorm.DB {
	tx = tx.Joins("LEFT JOIN members ON members.member_id = posts.member_id")
	if f.Keyword != "" {
		kw := "%" + strings.ToLower(f.Keyword) + "%"
		tx = tx.Joins("LEFT JOIN cards ON cards.post_id = posts.post_id").
			Where("(LOWER(posts.title) LIKE ? OR LOWER(cards.content) LIKE ? OR LOWER(members.nickname) LIKE ?)", kw, kw, kw)
	}
	if f.HashtagID > 0 {
		tx = tx.Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.post_id").
			Where("post_hashtags.hashtag_id = ?", f.HashtagID)
	}
	if f.Concept == model.ConceptHot {
		tx = tx.Where("posts.good_number >= ?", model.HotGoodThreshold)
	} else if f.Concept != "" {
		tx = tx.Where("posts.concept = ?", f.Concept)
	}
	if f.Region != "" {
		tx = tx.Where("posts.region = ?", f.Region)
	}
	if len(f.AuthorIDs) > 0 {
		tx = tx.Where("posts.member_id IN ?", f.AuthorIDs)
	}
	return tx.Where("posts.status = ?", f.Status)
}

func orderClause(sortBy SortOrder) string {
	if sortBy == SortGood {
		return "posts.good_number DESC, posts.updated_at DESC"
	}
	return "posts.updated_at DESC"
}

const summaryColumns = "posts.title, posts.post_id, members.nickname, posts.thumbnail_index, posts.good_number, posts.concept, posts.region, posts.updated_at"

type PostSearchRepository interface {
	// SearchPosts 返回第 page 页（1 起始）的投影行和总页数
	SearchPosts(ctx context.Context, f SearchFilter, sortBy SortOrder, page, pageSize int) ([]PostSummaryRow, int, error)
	// FindSummariesByIDs 按给定 id 顺序返回投影行，查不到的 id 跳过
	FindSummariesByIDs(ctx context.Context, ids []int64, status model.PostStatus) ([]PostSummaryRow, error)
}

type postSearchRepository struct {
	db *gorm.DB
}

func NewPostSearchRepository(db *gorm.DB) PostSearchRepository {
	return &postSearchRepository{db: db}
}

// SearchPosts 先 count 再取页。count 为 0 时直接返回空页（maxPage=0），不再发分页查询。
func (r *postSearchRepository) SearchPosts(ctx context.Context, f SearchFilter, sortBy SortOrder, page, pageSize int) ([]PostSummaryRow, int, error) {
	var total int64
	err := f.apply(r.db.WithContext(ctx).Model(&model.Post{})).
		Distinct("posts.post_id").
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []PostSummaryRow{}, 0, nil
	}

	rows := make([]PostSummaryRow, 0, pageSize)
	err = f.apply(r.db.WithContext(ctx).Model(&model.Post{})).
		Select(summaryColumns).
		// 关键字 / 标签条件会联出一对多表，必须按帖子聚合去重
		Group("posts.post_id, members.nickname").
		Order(orderClause(sortBy)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	maxPage := int((total + int64(pageSize) - 1) / int64(pageSize))
	return rows, maxPage, nil
}

func (r *postSearchRepository) FindSummariesByIDs(ctx context.Context, ids []int64, status model.PostStatus) ([]PostSummaryRow, error) {
	if len(ids) == 0 {
		return []PostSummaryRow{}, nil
	}
	var rows []PostSummaryRow
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Joins("LEFT JOIN members ON members.member_id = posts.member_id").
		Select(summaryColumns).
		Where("posts.post_id IN ? AND posts.status = ?", ids, status).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	// 恢复调用方给定的顺序（榜单序）
	byID := make(map[int64]PostSummaryRow, len(rows))
	for _, row := range rows {
		byID[row.PostID] = row
	}
	ordered := make([]PostSummaryRow, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}
