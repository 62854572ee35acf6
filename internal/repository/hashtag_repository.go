package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/polaroad/internal/model"
)

type HashtagRepository interface {
	// GetIDByName 按名字精确查找标签 id，不存在返回 (0, nil)
	GetIDByName(ctx context.Context, name string) (int64, error)
	ListNamesByPost(ctx context.Context, postID int64) ([]string, error)
	// ReplacePostHashtags 把帖子的标签集合对齐到 names：
	// 不再引用的关联硬删除，新标签懒创建后建立关联。在传入的事务内执行。
	ReplacePostHashtags(tx *gorm.DB, postID int64, names []string) error
}

type hashtagRepository struct {
	db *gorm.DB
}

func NewHashtagRepository(db *gorm.DB) HashtagRepository { return &hashtagRepository{db: db} }

func (r *hashtagRepository) GetIDByName(ctx context.Context, name string) (int64, error) {
	var tag model.Hashtag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return tag.HashtagID, nil
}

func (r *hashtagRepository) ListNamesByPost(ctx context.Context, postID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.PostHashtag{}).
		Joins("JOIN hashtags ON hashtags.hashtag_id = post_hashtags.hashtag_id").
		Where("post_hashtags.post_id = ?", postID).
		Pluck("hashtags.name", &names).Error
	return names, err
}

func (r *hashtagRepository) ReplacePostHashtags(tx *gorm.DB, postID int64, names []string) error {
	var current []model.PostHashtag
	if err := tx.Preload("Hashtag").Where("post_id = ?", postID).Find(&current).Error; err != nil {
		return err
	}

	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	// 删掉不再引用的关联
	for _, ph := range current {
		if _, ok := wanted[ph.Hashtag.Name]; ok {
			delete(wanted, ph.Hashtag.Name)
			continue
		}
		if err := tx.Where("hashtag_id = ? AND post_id = ?", ph.HashtagID, ph.PostID).
			Delete(&model.PostHashtag{}).Error; err != nil {
			return err
		}
	}

	// 建立新增的关联，标签不存在就先创建
	for name := range wanted {
		var tag model.Hashtag
		err := tx.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = model.Hashtag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if err := tx.Create(&model.PostHashtag{HashtagID: tag.HashtagID, PostID: postID}).Error; err != nil {
			return err
		}
	}
	return nil
}
