package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/polaroad/internal/repository"
)

var ErrFollowSelf = errors.New("cannot follow self")

// MemberService 关注关系
type MemberService interface {
	Follow(ctx context.Context, fromMemberID, toMemberID int64) error
	Unfollow(ctx context.Context, fromMemberID, toMemberID int64) error
}

type memberService struct {
	follows repository.FollowRepository
}

func NewMemberService(follows repository.FollowRepository) MemberService {
	return &memberService{follows: follows}
}

func (s *memberService) Follow(ctx context.Context, fromMemberID, toMemberID int64) error {
	if fromMemberID == toMemberID {
		return ErrFollowSelf
	}
	return s.follows.Create(ctx, fromMemberID, toMemberID)
}

func (s *memberService) Unfollow(ctx context.Context, fromMemberID, toMemberID int64) error {
	return s.follows.Delete(ctx, fromMemberID, toMemberID)
}
