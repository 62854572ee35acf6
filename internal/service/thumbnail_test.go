package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/polaroad/internal/repository"
)

func card(index int, image string) repository.CardImage {
	return repository.CardImage{PostID: 1, CardIndex: index, Image: image}
}

func TestComposeImages_SortDedupCap(t *testing.T) {
	cards := []repository.CardImage{
		card(3, "d.jpg"),
		card(1, "b.jpg"),
		card(0, "a.jpg"),
		card(2, "b.jpg"), // 重复 URL 不计入上限
		card(4, "e.jpg"),
	}
	images, ok := composeImages(cards, 0, ThumbnailFallbackFirst)
	require.True(t, ok)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "d.jpg"}, images)
}

func TestComposeImages_ThumbnailMovedToFront(t *testing.T) {
	cards := []repository.CardImage{
		card(0, "a.jpg"),
		card(1, "b.jpg"),
		card(2, "c.jpg"),
	}
	images, ok := composeImages(cards, 2, ThumbnailFallbackFirst)
	require.True(t, ok)
	// 缩略图提前，其余保持相对顺序
	assert.Equal(t, []string{"c.jpg", "a.jpg", "b.jpg"}, images)
}

func TestComposeImages_ThumbnailOutsideCandidatesInserted(t *testing.T) {
	cards := []repository.CardImage{
		card(0, "a.jpg"),
		card(1, "b.jpg"),
		card(2, "c.jpg"),
		card(3, "d.jpg"),
	}
	// 候选里只有 a/b/c，缩略图 d 插到最前并截断回 3 张
	images, ok := composeImages(cards, 3, ThumbnailFallbackFirst)
	require.True(t, ok)
	assert.Equal(t, []string{"d.jpg", "a.jpg", "b.jpg"}, images)
}

func TestComposeImages_Idempotent(t *testing.T) {
	cards := []repository.CardImage{
		card(2, "c.jpg"),
		card(0, "a.jpg"),
		card(1, "b.jpg"),
	}
	first, ok := composeImages(cards, 1, ThumbnailFallbackFirst)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := composeImages(cards, 1, ThumbnailFallbackFirst)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestComposeImages_NoDuplicatesAndBounded(t *testing.T) {
	cards := []repository.CardImage{
		card(0, "a.jpg"), card(1, "a.jpg"), card(2, "b.jpg"),
		card(3, "b.jpg"), card(4, "c.jpg"), card(5, "d.jpg"),
	}
	images, ok := composeImages(cards, 4, ThumbnailFallbackFirst)
	require.True(t, ok)
	assert.LessOrEqual(t, len(images), 3)
	seen := map[string]bool{}
	for _, img := range images {
		assert.False(t, seen[img], "duplicate image %s", img)
		seen[img] = true
	}
	assert.Equal(t, "c.jpg", images[0])
}

func TestComposeImages_EmptyCards(t *testing.T) {
	images, ok := composeImages(nil, 0, ThumbnailFallbackFirst)
	require.True(t, ok)
	assert.Empty(t, images)
}

func TestComposeImages_StaleIndexFallback(t *testing.T) {
	// index=1 的卡片已被软删，指针悬空
	cards := []repository.CardImage{
		card(0, "a.jpg"),
		card(2, "c.jpg"),
	}
	images, ok := composeImages(cards, 1, ThumbnailFallbackFirst)
	require.True(t, ok)
	assert.Equal(t, []string{"a.jpg", "c.jpg"}, images)
}

func TestComposeImages_StaleIndexStrict(t *testing.T) {
	cards := []repository.CardImage{
		card(0, "a.jpg"),
		card(2, "c.jpg"),
	}
	images, ok := composeImages(cards, 5, ThumbnailStrict)
	assert.False(t, ok)
	assert.Nil(t, images)
}
