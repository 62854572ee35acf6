package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCounter(t *testing.T, now time.Time) (*redisViewCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &redisViewCounter{rdb: rdb, now: func() time.Time { return now }}, mr
}

func TestAddView_WritesAllThreeBuckets(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	c, mr := newTestCounter(t, now)
	ctx := context.Background()

	require.NoError(t, c.AddView(ctx, 42))
	require.NoError(t, c.AddView(ctx, 42))

	for _, key := range []string{
		"post:views:daily:20240315",
		"post:views:weekly:2024-11",
		"post:views:monthly:202403",
	} {
		score, err := mr.ZScore(key, "42")
		require.NoError(t, err, key)
		assert.Equal(t, float64(2), score, key)
		// 每个桶都带过期时间，窗口过去后自动清理
		assert.Greater(t, mr.TTL(key), time.Duration(0), key)
	}
}

func TestAddView_BucketsIsolatedByDay(t *testing.T) {
	day1 := time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC)
	c, _ := newTestCounter(t, day1)
	ctx := context.Background()

	require.NoError(t, c.AddView(ctx, 1))
	c.now = func() time.Time { return day1.Add(2 * time.Hour) } // 翻到 3 月 16 日
	require.NoError(t, c.AddView(ctx, 2))

	ids, _, err := c.PageIDs(ctx, RangeDaily, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)

	// 周桶和月桶仍然聚合两天的量
	ids, _, err = c.PageIDs(ctx, RangeMonthly, 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}

func TestPageIDs_OrderAndPagination(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	c, _ := newTestCounter(t, now)
	ctx := context.Background()

	// id 越小浏览量越高
	for id := int64(1); id <= 5; id++ {
		for v := int64(0); v < 6-id; v++ {
			require.NoError(t, c.AddView(ctx, id))
		}
	}

	ids, maxPage, err := c.PageIDs(ctx, RangeDaily, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, maxPage)
	assert.Equal(t, []int64{1, 2}, ids)

	ids, _, err = c.PageIDs(ctx, RangeDaily, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, ids)
}

func TestPageIDs_EmptyWindow(t *testing.T) {
	c, _ := newTestCounter(t, time.Now())
	ids, maxPage, err := c.PageIDs(context.Background(), RangeWeekly, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 0, maxPage)
}

func TestPageIDs_SkipsNonNumericMembers(t *testing.T) {
	now := time.Now()
	c, mr := newTestCounter(t, now)
	ctx := context.Background()

	require.NoError(t, c.AddView(ctx, 7))
	key := "post:views:daily:" + now.Format("20060102")
	mr.ZAdd(key, 99, "garbage")

	ids, _, err := c.PageIDs(ctx, RangeDaily, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)
}
