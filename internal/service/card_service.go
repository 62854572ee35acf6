package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/polaroad/internal/model"
	"github.com/d60-Lab/polaroad/internal/repository"
)

// CardListResponse 我的卡片分页信封
type CardListResponse struct {
	Cards   []repository.CardListItem `json:"cards"`
	MaxPage int                       `json:"maxPage"`
}

type CardService interface {
	GetCardListByMember(ctx context.Context, memberID int64, page, pageSize int) (*CardListResponse, error)
	// GetMapCardList 地图范围检索；HASHTAG 模式下 keyword 是标签名
	GetMapCardList(ctx context.Context, searchType PostSearchType, keyword string, concept model.PostConcept, bounds repository.MapBounds, limit int) ([]repository.MapCardItem, error)
	// EditCards 把帖子的卡片集合对齐到 inputs：带 CardID 的就地更新，
	// 不在 inputs 里的旧卡片软删除，CardID 为 0 的创建。在传入的事务内执行。
	EditCards(tx *gorm.DB, post *model.Post, inputs []CardSaveInput) error
}

type cardService struct {
	cards    repository.CardRepository
	hashtags repository.HashtagRepository
	members  repository.MemberRepository
}

func NewCardService(cards repository.CardRepository, hashtags repository.HashtagRepository, members repository.MemberRepository) CardService {
	return &cardService{cards: cards, hashtags: hashtags, members: members}
}

func (s *cardService) GetCardListByMember(ctx context.Context, memberID int64, page, pageSize int) (*CardListResponse, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, err
	}
	member, err := s.members.Get(ctx, memberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	if member.Status == model.MemberStatusDeleted {
		return nil, ErrMemberNotFound
	}
	items, maxPage, err := s.cards.ListPageByMember(ctx, memberID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &CardListResponse{Cards: items, MaxPage: maxPage}, nil
}

func (s *cardService) GetMapCardList(ctx context.Context, searchType PostSearchType, keyword string, concept model.PostConcept, bounds repository.MapBounds, limit int) ([]repository.MapCardItem, error) {
	if searchType == SearchTypeHashtag && keyword != "" {
		hashtagID, err := s.hashtags.GetIDByName(ctx, keyword)
		if err != nil {
			return nil, err
		}
		if hashtagID == 0 {
			return []repository.MapCardItem{}, nil
		}
		return s.cards.SearchInBounds(ctx, "", hashtagID, concept, bounds, limit)
	}
	return s.cards.SearchInBounds(ctx, keyword, 0, concept, bounds, limit)
}

func (s *cardService) EditCards(tx *gorm.DB, post *model.Post, inputs []CardSaveInput) error {
	var oldCards []model.Card
	if err := tx.Where("post_id = ? AND status = ?", post.PostID, model.CardStatusActive).
		Order("card_index ASC").
		Find(&oldCards).Error; err != nil {
		return err
	}

	remaining := make(map[int64]CardSaveInput, len(inputs))
	for _, in := range inputs {
		if in.CardID != 0 {
			remaining[in.CardID] = in
		}
	}

	for i := range oldCards {
		old := &oldCards[i]
		in, ok := remaining[old.CardID]
		if !ok {
			// 编辑后不再出现的卡片软删除
			old.Status = model.CardStatusDeleted
			old.UpdatedAt = time.Now()
			if err := tx.Save(old).Error; err != nil {
				return err
			}
			continue
		}
		old.CardIndex = in.CardIndex
		old.Location = in.Location
		old.Latitude = in.Latitude
		old.Longitude = in.Longitude
		old.Image = in.Image
		old.Content = in.Content
		old.UpdatedAt = time.Now()
		if err := tx.Save(old).Error; err != nil {
			return err
		}
		delete(remaining, old.CardID)
	}

	for _, in := range inputs {
		if in.CardID != 0 {
			continue
		}
		card := model.Card{
			PostID:    post.PostID,
			MemberID:  post.MemberID,
			CardIndex: in.CardIndex,
			Location:  in.Location,
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
			Image:     in.Image,
			Content:   in.Content,
			Status:    model.CardStatusActive,
		}
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
	}
	return nil
}
