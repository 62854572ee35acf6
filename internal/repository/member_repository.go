package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/polaroad/internal/model"
)

type MemberRepository interface {
	Get(ctx context.Context, memberID int64) (*model.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository { return &memberRepository{db: db} }

func (r *memberRepository) Get(ctx context.Context, memberID int64) (*model.Member, error) {
	var m model.Member
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
