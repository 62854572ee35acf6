package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/polaroad/internal/model"
	"github.com/d60-Lab/polaroad/internal/repository"
	"github.com/d60-Lab/polaroad/pkg/database"
)

type testEnv struct {
	db      *gorm.DB
	posts   repository.PostRepository
	cards   repository.CardRepository
	views   ViewCounter
	svc     PostService
	cardSvc CardService
	mr      *miniredis.Miniredis
}

func newTestEnv(t *testing.T, policy ThumbnailPolicy) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	views := NewViewCounter(rdb)

	search := repository.NewPostSearchRepository(db)
	hashtags := repository.NewHashtagRepository(db)
	posts := repository.NewPostRepository(db, hashtags)
	cards := repository.NewCardRepository(db)
	follows := repository.NewFollowRepository(db)
	members := repository.NewMemberRepository(db)
	cardSvc := NewCardService(cards, hashtags, members)

	return &testEnv{
		db:      db,
		posts:   posts,
		cards:   cards,
		views:   views,
		cardSvc: cardSvc,
		mr:      mr,
		svc:     NewPostService(search, posts, cards, hashtags, follows, members, views, cardSvc, policy),
	}
}

func (e *testEnv) addMember(t *testing.T, nickname string) *model.Member {
	t.Helper()
	m := &model.Member{Email: nickname + "@example.com", Nickname: nickname}
	require.NoError(t, e.db.Create(m).Error)
	return m
}

func (e *testEnv) savePost(t *testing.T, memberID int64, title string, in PostSaveInput) int64 {
	t.Helper()
	in.Title = title
	if in.Concept == "" {
		in.Concept = model.ConceptWalk
	}
	if in.Region == "" {
		in.Region = model.RegionSeoul
	}
	if in.Cards == nil {
		in.Cards = []CardSaveInput{{CardIndex: 0, Image: title + "-0.jpg", Content: "note"}}
	}
	id, err := e.svc.SavePost(context.Background(), in, memberID)
	require.NoError(t, err)
	return id
}

func titlesOf(resp *PostListResponse) []string {
	titles := make([]string, 0, len(resp.Posts))
	for _, p := range resp.Posts {
		titles = append(titles, p.Title)
	}
	return titles
}

func TestGetFollowingMemberPosts_OnlyFollowedAuthors(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	a := env.addMember(t, "alice")
	b := env.addMember(t, "bob")
	c := env.addMember(t, "carol")
	d := env.addMember(t, "dave")

	follows := repository.NewFollowRepository(env.db)
	require.NoError(t, follows.Create(ctx, a.MemberID, b.MemberID))
	require.NoError(t, follows.Create(ctx, a.MemberID, c.MemberID))

	env.savePost(t, b.MemberID, "bob trip", PostSaveInput{})
	env.savePost(t, c.MemberID, "carol trip", PostSaveInput{})
	env.savePost(t, d.MemberID, "dave trip", PostSaveInput{})

	resp, err := env.svc.GetFollowingMemberPosts(ctx, a.MemberID, "", 1, 10, model.PostStatusActive)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.MaxPage)
	assert.ElementsMatch(t, []string{"bob trip", "carol trip"}, titlesOf(resp))
}

func TestGetFollowingMemberPosts_NoFollowsIsEmptyPage(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	a := env.addMember(t, "loner")
	b := env.addMember(t, "busy")
	env.savePost(t, b.MemberID, "busy trip", PostSaveInput{})

	resp, err := env.svc.GetFollowingMemberPosts(ctx, a.MemberID, "", 1, 10, model.PostStatusActive)
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
	assert.Equal(t, 0, resp.MaxPage)
}

func TestGetPostList_UnknownHashtagIsEmptyPage(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	m := env.addMember(t, "erin")
	env.savePost(t, m.MemberID, "tagged trip", PostSaveInput{Hashtags: []string{"sunset"}})

	resp, err := env.svc.GetPostList(ctx, 1, 10, SearchTypeHashtag, "no-such-tag",
		repository.SortRecent, "", "", model.PostStatusActive)
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
	assert.Equal(t, 0, resp.MaxPage)

	resp, err = env.svc.GetPostList(ctx, 1, 10, SearchTypeHashtag, "sunset",
		repository.SortRecent, "", "", model.PostStatusActive)
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "tagged trip", resp.Posts[0].Title)
}

func TestGetPostList_InvalidPaging(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	_, err := env.svc.GetPostList(ctx, 0, 10, SearchTypeKeyword, "", repository.SortRecent, "", "", model.PostStatusActive)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = env.svc.GetPostList(ctx, 1, 0, SearchTypeKeyword, "", repository.SortRecent, "", "", model.PostStatusActive)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestGetPostList_ImagesThumbnailFirst(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	m := env.addMember(t, "fred")
	env.savePost(t, m.MemberID, "four cards", PostSaveInput{
		ThumbnailIndex: 2,
		Cards: []CardSaveInput{
			{CardIndex: 0, Image: "a.jpg"},
			{CardIndex: 1, Image: "b.jpg"},
			{CardIndex: 2, Image: "c.jpg"},
			{CardIndex: 3, Image: "d.jpg"},
		},
	})

	resp, err := env.svc.GetPostList(ctx, 1, 10, SearchTypeKeyword, "", repository.SortRecent, "", "", model.PostStatusActive)
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, []string{"c.jpg", "a.jpg", "b.jpg"}, resp.Posts[0].Images)
}

func TestGetMyPostList_StrictPolicyDropsBrokenRow(t *testing.T) {
	env := newTestEnv(t, ThumbnailStrict)
	ctx := context.Background()

	m := env.addMember(t, "gina")
	// 缩略图指针指向不存在的卡片序号
	env.savePost(t, m.MemberID, "broken thumb", PostSaveInput{
		ThumbnailIndex: 7,
		Cards:          []CardSaveInput{{CardIndex: 0, Image: "a.jpg"}},
	})
	env.savePost(t, m.MemberID, "ok thumb", PostSaveInput{
		ThumbnailIndex: 0,
		Cards:          []CardSaveInput{{CardIndex: 0, Image: "b.jpg"}},
	})

	resp, err := env.svc.GetMyPostList(ctx, m.MemberID, 1, 10, model.PostStatusActive)
	require.NoError(t, err)
	// 坏行被丢弃，maxPage 按 count 保留
	assert.Equal(t, []string{"ok thumb"}, titlesOf(resp))
	assert.Equal(t, 1, resp.MaxPage)
}

func TestSavePostAndGetPostInfo(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	m := env.addMember(t, "henry")
	postID := env.savePost(t, m.MemberID, "jeju loop", PostSaveInput{
		RoutePoint:     "33.4,126.5;33.5,126.6",
		ThumbnailIndex: 1,
		Concept:        model.ConceptNature,
		Region:         model.RegionJejudo,
		Cards: []CardSaveInput{
			{CardIndex: 0, Image: "a.jpg", Content: "start", Location: "Jeju"},
			{CardIndex: 1, Image: "b.jpg", Content: "summit", Location: "Hallasan"},
		},
		Hashtags: []string{"jeju", "hiking"},
	})

	info, err := env.svc.GetPostInfo(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "jeju loop", info.Title)
	assert.Equal(t, "henry", info.Nickname)
	assert.Equal(t, model.ConceptNature, info.Concept)
	assert.Len(t, info.Cards, 2)
	assert.ElementsMatch(t, []string{"jeju", "hiking"}, info.Hashtags)

	// 详情访问会进浏览量桶
	ids, _, err := env.views.PageIDs(ctx, RangeDaily, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{postID}, ids)
}

func TestGetPostInfo_UnknownAndDeleted(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	m := env.addMember(t, "iris")
	postID := env.savePost(t, m.MemberID, "short lived", PostSaveInput{})

	_, err := env.svc.GetPostInfo(ctx, 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)

	require.NoError(t, env.svc.DeletePost(ctx, postID, m.MemberID))
	_, err = env.svc.GetPostInfo(ctx, postID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestEditPost_CardMergeAndHashtagDiff(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	m := env.addMember(t, "judy")
	postID := env.savePost(t, m.MemberID, "before", PostSaveInput{
		Cards: []CardSaveInput{
			{CardIndex: 0, Image: "a.jpg", Content: "keep me"},
			{CardIndex: 1, Image: "b.jpg", Content: "drop me"},
		},
		Hashtags: []string{"old", "both"},
	})

	old, err := env.cards.ListActiveByPost(ctx, postID)
	require.NoError(t, err)
	require.Len(t, old, 2)

	err = env.svc.EditPost(ctx, PostSaveInput{
		Title:   "after",
		Concept: model.ConceptCity,
		Region:  model.RegionBusan,
		Cards: []CardSaveInput{
			{CardID: old[0].CardID, CardIndex: 0, Image: "a2.jpg", Content: "kept"},
			{CardIndex: 1, Image: "new.jpg", Content: "brand new"},
		},
		Hashtags: []string{"both", "new"},
	}, m.MemberID, postID)
	require.NoError(t, err)

	info, err := env.svc.GetPostInfo(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "after", info.Title)
	assert.Equal(t, model.ConceptCity, info.Concept)
	assert.ElementsMatch(t, []string{"both", "new"}, info.Hashtags)

	require.Len(t, info.Cards, 2)
	images := []string{info.Cards[0].Image, info.Cards[1].Image}
	assert.ElementsMatch(t, []string{"a2.jpg", "new.jpg"}, images)
}

func TestEditPost_OwnerChecks(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	owner := env.addMember(t, "kate")
	other := env.addMember(t, "leo")
	postID := env.savePost(t, owner.MemberID, "mine", PostSaveInput{})

	err := env.svc.EditPost(ctx, PostSaveInput{Title: "hijack"}, other.MemberID, postID)
	assert.ErrorIs(t, err, ErrNotPostOwner)

	err = env.svc.DeletePost(ctx, postID, other.MemberID)
	assert.ErrorIs(t, err, ErrNotPostOwner)

	err = env.svc.EditPost(ctx, PostSaveInput{Title: "x"}, owner.MemberID, 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePost_HiddenFromListings(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	m := env.addMember(t, "mona")
	keep := env.savePost(t, m.MemberID, "keep", PostSaveInput{})
	gone := env.savePost(t, m.MemberID, "gone", PostSaveInput{})
	_ = keep

	require.NoError(t, env.svc.DeletePost(ctx, gone, m.MemberID))

	resp, err := env.svc.GetMyPostList(ctx, m.MemberID, 1, 10, model.PostStatusActive)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, titlesOf(resp))
	assert.Equal(t, 1, resp.MaxPage)
}

func TestGoodToggle_Twice(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	author := env.addMember(t, "nick")
	fan := env.addMember(t, "olga")
	postID := env.savePost(t, author.MemberID, "likeable", PostSaveInput{})

	liked, err := env.svc.GoodToggle(ctx, fan.MemberID, postID)
	require.NoError(t, err)
	assert.True(t, liked)
	post, err := env.posts.Get(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 1, post.GoodNumber)

	liked, err = env.svc.GoodToggle(ctx, fan.MemberID, postID)
	require.NoError(t, err)
	assert.False(t, liked)
	post, err = env.posts.Get(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 0, post.GoodNumber)
}

func TestGetPostRankingList_OrderedByViews(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	m := env.addMember(t, "paula")
	first := env.savePost(t, m.MemberID, "hot", PostSaveInput{})
	second := env.savePost(t, m.MemberID, "warm", PostSaveInput{})
	third := env.savePost(t, m.MemberID, "cold", PostSaveInput{})

	for i := 0; i < 5; i++ {
		require.NoError(t, env.views.AddView(ctx, first))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, env.views.AddView(ctx, second))
	}
	require.NoError(t, env.views.AddView(ctx, third))

	resp, err := env.svc.GetPostRankingList(ctx, 1, 10, RangeDaily)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.MaxPage)
	assert.Equal(t, []string{"hot", "warm", "cold"}, titlesOf(resp))
}

func TestGetPostRankingList_DeletedPostSkipped(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	m := env.addMember(t, "quinn")
	alive := env.savePost(t, m.MemberID, "alive", PostSaveInput{})
	dead := env.savePost(t, m.MemberID, "dead", PostSaveInput{})

	require.NoError(t, env.views.AddView(ctx, dead))
	require.NoError(t, env.views.AddView(ctx, dead))
	require.NoError(t, env.views.AddView(ctx, alive))
	require.NoError(t, env.svc.DeletePost(ctx, dead, m.MemberID))

	resp, err := env.svc.GetPostRankingList(ctx, 1, 10, RangeDaily)
	require.NoError(t, err)
	assert.Equal(t, []string{"alive"}, titlesOf(resp))
}

func TestGetPostRankingList_EmptyWindow(t *testing.T) {
	env := newTestEnv(t, ThumbnailFallbackFirst)
	ctx := context.Background()

	resp, err := env.svc.GetPostRankingList(ctx, 1, 10, RangeWeekly)
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
	assert.Equal(t, 0, resp.MaxPage)
}
