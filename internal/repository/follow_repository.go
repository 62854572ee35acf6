package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/polaroad/internal/model"
)

type FollowRepository interface {
	Create(ctx context.Context, followingID, followedID int64) error
	Delete(ctx context.Context, followingID, followedID int64) error
	Exists(ctx context.Context, followingID, followedID int64) (bool, error)
	// ListFollowedIDs 某会员关注的全部会员 id，关注流查询前置步骤
	ListFollowedIDs(ctx context.Context, followingID int64) ([]int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followingID, followedID int64) error {
	f := &model.Follow{FollowingMemberID: followingID, FollowedMemberID: followedID}
	// 幂等：重复关注不报错
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *followRepository) Delete(ctx context.Context, followingID, followedID int64) error {
	return r.db.WithContext(ctx).
		Where("following_member_id = ? AND followed_member_id = ?", followingID, followedID).
		Delete(&model.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, followingID, followedID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("following_member_id = ? AND followed_member_id = ?", followingID, followedID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowedIDs(ctx context.Context, followingID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("following_member_id = ?", followingID).
		Pluck("followed_member_id", &ids).Error
	return ids, err
}
