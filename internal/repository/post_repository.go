package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/polaroad/internal/model"
)

type PostRepository interface {
	// Create 同一事务内落地帖子、卡片和标签关联
	Create(ctx context.Context, post *model.Post, hashtags []string) error
	Get(ctx context.Context, postID int64) (*model.Post, error)
	// Update 在传入的事务内保存帖子字段变更
	Update(tx *gorm.DB, post *model.Post) error
	UpdateStatus(ctx context.Context, postID int64, status model.PostStatus) error
	// GoodToggle 点赞开关：没赞过就创建记录并加一，赞过就删除记录并减一。
	// 返回切换后的点赞状态。
	GoodToggle(ctx context.Context, memberID, postID int64) (bool, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type postRepository struct {
	db       *gorm.DB
	hashtags HashtagRepository
}

func NewPostRepository(db *gorm.DB, hashtags HashtagRepository) PostRepository {
	return &postRepository{db: db, hashtags: hashtags}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post, hashtags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return r.hashtags.ReplacePostHashtags(tx, post.PostID, hashtags)
	})
}

func (r *postRepository) Get(ctx context.Context, postID int64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(tx *gorm.DB, post *model.Post) error {
	return tx.Save(post).Error
}

func (r *postRepository) UpdateStatus(ctx context.Context, postID int64, status model.PostStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("post_id = ?", postID).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

func (r *postRepository) GoodToggle(ctx context.Context, memberID, postID int64) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var good model.PostGood
		err := tx.Where("member_id = ? AND post_id = ?", memberID, postID).First(&good).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&model.PostGood{MemberID: memberID, PostID: postID}).Error; err != nil {
				return err
			}
			liked = true
			return tx.Model(&model.Post{}).
				Where("post_id = ?", postID).
				UpdateColumn("good_number", gorm.Expr("good_number + 1")).Error
		case err != nil:
			return err
		default:
			if err := tx.Delete(&good).Error; err != nil {
				return err
			}
			return tx.Model(&model.Post{}).
				Where("post_id = ?", postID).
				UpdateColumn("good_number", gorm.Expr("good_number - 1")).Error
		}
	})
	return liked, err
}

func (r *postRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
