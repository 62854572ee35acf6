package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/polaroad/internal/model"
	"github.com/d60-Lab/polaroad/internal/repository"
	"github.com/d60-Lab/polaroad/pkg/logger"
)

var (
	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrInvalidPageSize = errors.New("page size must be >= 1")
	ErrPostNotFound    = errors.New("post not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrNotPostOwner    = errors.New("not the post owner")
)

// PostSearchType 检索模式，关键字和标签互斥
type PostSearchType string

const (
	SearchTypeKeyword PostSearchType = "KEYWORD"
	SearchTypeHashtag PostSearchType = "HASHTAG"
)

func (t PostSearchType) Valid() bool { return t == SearchTypeKeyword || t == SearchTypeHashtag }

// PostListItem 列表页单个帖子，images 最多三张、缩略图在最前
type PostListItem struct {
	Title       string            `json:"title"`
	PostID      int64             `json:"postId"`
	Nickname    string            `json:"nickname"`
	GoodNumber  int               `json:"goodNumber"`
	Concept     model.PostConcept `json:"concept"`
	Region      model.PostRegion  `json:"region"`
	Images      []string          `json:"images"`
	UpdatedTime time.Time         `json:"updatedTime"`
}

// PostListResponse 分页信封；没有命中时 posts 为空、maxPage 为 0
type PostListResponse struct {
	Posts   []PostListItem `json:"posts"`
	MaxPage int            `json:"maxPage"`
}

// PostInfo 帖子详情
type PostInfo struct {
	PostID         int64             `json:"postId"`
	Title          string            `json:"title"`
	MemberID       int64             `json:"memberId"`
	Nickname       string            `json:"nickname"`
	RoutePoint     string            `json:"routePoint"`
	ThumbnailIndex int               `json:"thumbnailIndex"`
	Concept        model.PostConcept `json:"concept"`
	Region         model.PostRegion  `json:"region"`
	GoodNumber     int               `json:"goodNumber"`
	Cards          []model.Card      `json:"cards"`
	Hashtags       []string          `json:"hashtags"`
	CreatedTime    time.Time         `json:"createdTime"`
	UpdatedTime    time.Time         `json:"updatedTime"`
}

// CardSaveInput 创建 / 编辑帖子时的卡片载荷；CardID 为 0 表示新卡片
type CardSaveInput struct {
	CardID    int64   `json:"cardId"`
	CardIndex int     `json:"cardIndex"`
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Image     string  `json:"image"`
	Content   string  `json:"content"`
}

// PostSaveInput 创建 / 编辑帖子的载荷
type PostSaveInput struct {
	Title          string            `json:"title"`
	RoutePoint     string            `json:"routePoint"`
	ThumbnailIndex int               `json:"thumbnailIndex"`
	Concept        model.PostConcept `json:"concept"`
	Region         model.PostRegion  `json:"region"`
	Cards          []CardSaveInput   `json:"cards"`
	Hashtags       []string          `json:"hashtags"`
}

// PostService 帖子检索与生命周期
type PostService interface {
	// GetPostList 关键字 / 标签检索。HASHTAG 模式下 keyword 是标签名，
	// 标签不存在按零命中处理。
	GetPostList(ctx context.Context, page, pageSize int, searchType PostSearchType, keyword string,
		sortBy repository.SortOrder, concept model.PostConcept, region model.PostRegion, status model.PostStatus) (*PostListResponse, error)
	// GetFollowingMemberPosts 关注流：只看自己关注的作者
	GetFollowingMemberPosts(ctx context.Context, memberID int64, concept model.PostConcept, page, pageSize int, status model.PostStatus) (*PostListResponse, error)
	// GetPostRankingList 窗口浏览量榜单流
	GetPostRankingList(ctx context.Context, page, pageSize int, rng RankingRange) (*PostListResponse, error)
	GetMyPostList(ctx context.Context, memberID int64, page, pageSize int, status model.PostStatus) (*PostListResponse, error)
	GetPostInfo(ctx context.Context, postID int64) (*PostInfo, error)
	SavePost(ctx context.Context, in PostSaveInput, memberID int64) (int64, error)
	EditPost(ctx context.Context, in PostSaveInput, memberID, postID int64) error
	DeletePost(ctx context.Context, postID, memberID int64) error
	GoodToggle(ctx context.Context, memberID, postID int64) (bool, error)
}

type postService struct {
	search      repository.PostSearchRepository
	posts       repository.PostRepository
	cards       repository.CardRepository
	hashtags    repository.HashtagRepository
	follows     repository.FollowRepository
	members     repository.MemberRepository
	views       ViewCounter
	cardSvc     CardService
	thumbPolicy ThumbnailPolicy
}

func NewPostService(
	search repository.PostSearchRepository,
	posts repository.PostRepository,
	cards repository.CardRepository,
	hashtags repository.HashtagRepository,
	follows repository.FollowRepository,
	members repository.MemberRepository,
	views ViewCounter,
	cardSvc CardService,
	thumbPolicy ThumbnailPolicy,
) PostService {
	return &postService{
		search:      search,
		posts:       posts,
		cards:       cards,
		hashtags:    hashtags,
		follows:     follows,
		members:     members,
		views:       views,
		cardSvc:     cardSvc,
		thumbPolicy: thumbPolicy,
	}
}

func validatePaging(page, pageSize int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	if pageSize < 1 {
		return ErrInvalidPageSize
	}
	return nil
}

func emptyPage() *PostListResponse {
	return &PostListResponse{Posts: []PostListItem{}, MaxPage: 0}
}

func (s *postService) GetPostList(ctx context.Context, page, pageSize int, searchType PostSearchType, keyword string,
	sortBy repository.SortOrder, concept model.PostConcept, region model.PostRegion, status model.PostStatus) (*PostListResponse, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, err
	}
	filter := repository.SearchFilter{Concept: concept, Region: region, Status: status}
	if searchType == SearchTypeHashtag && keyword != "" {
		hashtagID, err := s.hashtags.GetIDByName(ctx, keyword)
		if err != nil {
			return nil, err
		}
		if hashtagID == 0 {
			// 未知标签按零命中处理，不是错误
			return emptyPage(), nil
		}
		filter.HashtagID = hashtagID
	} else {
		filter.Keyword = keyword
	}

	rows, maxPage, err := s.search.SearchPosts(ctx, filter, sortBy, page, pageSize)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, rows, maxPage)
}

func (s *postService) GetFollowingMemberPosts(ctx context.Context, memberID int64, concept model.PostConcept, page, pageSize int, status model.PostStatus) (*PostListResponse, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, err
	}
	followedIDs, err := s.follows.ListFollowedIDs(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if len(followedIDs) == 0 {
		return emptyPage(), nil
	}
	filter := repository.SearchFilter{Concept: concept, Status: status, AuthorIDs: followedIDs}
	rows, maxPage, err := s.search.SearchPosts(ctx, filter, repository.SortRecent, page, pageSize)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, rows, maxPage)
}

func (s *postService) GetPostRankingList(ctx context.Context, page, pageSize int, rng RankingRange) (*PostListResponse, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, err
	}
	ids, maxPage, err := s.views.PageIDs(ctx, rng, page, pageSize)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return emptyPage(), nil
	}
	rows, err := s.search.FindSummariesByIDs(ctx, ids, model.PostStatusActive)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, rows, maxPage)
}

func (s *postService) GetMyPostList(ctx context.Context, memberID int64, page, pageSize int, status model.PostStatus) (*PostListResponse, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, err
	}
	filter := repository.SearchFilter{Status: status, AuthorIDs: []int64{memberID}}
	rows, maxPage, err := s.search.SearchPosts(ctx, filter, repository.SortRecent, page, pageSize)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, rows, maxPage)
}

// assemble 批量加载卡片图片并逐行合成缩略图列表
func (s *postService) assemble(ctx context.Context, rows []repository.PostSummaryRow, maxPage int) (*PostListResponse, error) {
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.PostID
	}
	grouped, err := s.cards.ListImagesByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]PostListItem, 0, len(rows))
	for _, row := range rows {
		images, ok := composeImages(grouped[row.PostID], row.ThumbnailIndex, s.thumbPolicy)
		if !ok {
			// 缩略图指针越界只让这一行失效，不拖垮整页
			logger.Warn("thumbnail index outside active cards, dropping row",
				zap.Int64("postId", row.PostID), zap.Int("thumbnailIndex", row.ThumbnailIndex))
			continue
		}
		items = append(items, PostListItem{
			Title:       row.Title,
			PostID:      row.PostID,
			Nickname:    row.Nickname,
			GoodNumber:  row.GoodNumber,
			Concept:     row.Concept,
			Region:      row.Region,
			Images:      images,
			UpdatedTime: row.UpdatedAt,
		})
	}
	return &PostListResponse{Posts: items, MaxPage: maxPage}, nil
}

func (s *postService) GetPostInfo(ctx context.Context, postID int64) (*PostInfo, error) {
	post, err := s.posts.Get(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	if post.Status == model.PostStatusDeleted {
		return nil, ErrPostNotFound
	}
	member, err := s.members.Get(ctx, post.MemberID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.ListActiveByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	names, err := s.hashtags.ListNamesByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	// 浏览计数是旁路协作方，失败只记日志
	if err := s.views.AddView(ctx, postID); err != nil {
		logger.Warn("add view failed", zap.Int64("postId", postID), zap.Error(err))
	}
	return &PostInfo{
		PostID:         post.PostID,
		Title:          post.Title,
		MemberID:       post.MemberID,
		Nickname:       member.Nickname,
		RoutePoint:     post.RoutePoint,
		ThumbnailIndex: post.ThumbnailIndex,
		Concept:        post.Concept,
		Region:         post.Region,
		GoodNumber:     post.GoodNumber,
		Cards:          cards,
		Hashtags:       names,
		CreatedTime:    post.CreatedAt,
		UpdatedTime:    post.UpdatedAt,
	}, nil
}

func (s *postService) SavePost(ctx context.Context, in PostSaveInput, memberID int64) (int64, error) {
	member, err := s.members.Get(ctx, memberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrMemberNotFound
	}
	if err != nil {
		return 0, err
	}
	if member.Status == model.MemberStatusDeleted {
		return 0, ErrMemberNotFound
	}

	post := &model.Post{
		MemberID:       memberID,
		Title:          in.Title,
		RoutePoint:     in.RoutePoint,
		ThumbnailIndex: in.ThumbnailIndex,
		Concept:        in.Concept,
		Region:         in.Region,
		Status:         model.PostStatusActive,
	}
	post.Cards = make([]model.Card, 0, len(in.Cards))
	for _, c := range in.Cards {
		post.Cards = append(post.Cards, model.Card{
			MemberID:  memberID,
			CardIndex: c.CardIndex,
			Location:  c.Location,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Image:     c.Image,
			Content:   c.Content,
			Status:    model.CardStatusActive,
		})
	}
	if err := s.posts.Create(ctx, post, in.Hashtags); err != nil {
		return 0, err
	}
	return post.PostID, nil
}

func (s *postService) EditPost(ctx context.Context, in PostSaveInput, memberID, postID int64) error {
	post, err := s.posts.Get(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if post.Status == model.PostStatusDeleted {
		return ErrPostNotFound
	}
	if post.MemberID != memberID {
		return ErrNotPostOwner
	}

	return s.posts.Transaction(ctx, func(tx *gorm.DB) error {
		post.Title = in.Title
		post.RoutePoint = in.RoutePoint
		post.ThumbnailIndex = in.ThumbnailIndex
		post.Concept = in.Concept
		post.Region = in.Region
		if err := s.posts.Update(tx, post); err != nil {
			return err
		}
		if err := s.cardSvc.EditCards(tx, post, in.Cards); err != nil {
			return err
		}
		return s.hashtags.ReplacePostHashtags(tx, post.PostID, in.Hashtags)
	})
}

func (s *postService) DeletePost(ctx context.Context, postID, memberID int64) error {
	post, err := s.posts.Get(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if post.MemberID != memberID {
		return ErrNotPostOwner
	}
	// 软删除：翻状态位，检索层不再命中
	return s.posts.UpdateStatus(ctx, postID, model.PostStatusDeleted)
}

func (s *postService) GoodToggle(ctx context.Context, memberID, postID int64) (bool, error) {
	post, err := s.posts.Get(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrPostNotFound
	}
	if err != nil {
		return false, err
	}
	if post.Status == model.PostStatusDeleted {
		return false, ErrPostNotFound
	}
	return s.posts.GoodToggle(ctx, memberID, postID)
}
