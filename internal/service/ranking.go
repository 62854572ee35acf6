package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RankingRange 浏览量榜单的统计窗口
type RankingRange string

const (
	RangeDaily   RankingRange = "DAILY"
	RangeWeekly  RankingRange = "WEEKLY"
	RangeMonthly RankingRange = "MONTHLY"
)

func (r RankingRange) Valid() bool {
	return r == RangeDaily || r == RangeWeekly || r == RangeMonthly
}

// ViewCounter 浏览量协作方：按窗口累计帖子浏览数并给出榜单分页。
// 引擎只消费它产出的有序 id 列表。
type ViewCounter interface {
	AddView(ctx context.Context, postID int64) error
	// PageIDs 返回窗口榜单第 page 页的帖子 id（浏览量降序）和总页数
	PageIDs(ctx context.Context, rng RankingRange, page, pageSize int) ([]int64, int, error)
}

type redisViewCounter struct {
	rdb *redis.Client
	now func() time.Time
}

func NewViewCounter(rdb *redis.Client) ViewCounter {
	return &redisViewCounter{rdb: rdb, now: time.Now}
}

// 窗口桶 key：日桶按自然日、周桶按 ISO 周、月桶按自然月
func (c *redisViewCounter) key(rng RankingRange, t time.Time) string {
	switch rng {
	case RangeWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("post:views:weekly:%d-%02d", year, week)
	case RangeMonthly:
		return "post:views:monthly:" + t.Format("200601")
	default:
		return "post:views:daily:" + t.Format("20060102")
	}
}

func (c *redisViewCounter) AddView(ctx context.Context, postID int64) error {
	now := c.now()
	member := strconv.FormatInt(postID, 10)
	pipe := c.rdb.Pipeline()
	pipe.ZIncrBy(ctx, c.key(RangeDaily, now), 1, member)
	pipe.Expire(ctx, c.key(RangeDaily, now), 2*24*time.Hour)
	pipe.ZIncrBy(ctx, c.key(RangeWeekly, now), 1, member)
	pipe.Expire(ctx, c.key(RangeWeekly, now), 8*24*time.Hour)
	pipe.ZIncrBy(ctx, c.key(RangeMonthly, now), 1, member)
	pipe.Expire(ctx, c.key(RangeMonthly, now), 32*24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *redisViewCounter) PageIDs(ctx context.Context, rng RankingRange, page, pageSize int) ([]int64, int, error) {
	key := c.key(rng, c.now())
	total, err := c.rdb.ZCard(ctx, key).Result()
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []int64{}, 0, nil
	}
	start := int64(page-1) * int64(pageSize)
	stop := start + int64(pageSize) - 1
	members, err := c.rdb.ZRevRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, 0, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	maxPage := int((total + int64(pageSize) - 1) / int64(pageSize))
	return ids, maxPage, nil
}
