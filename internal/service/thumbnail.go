package service

import (
	"sort"

	"github.com/d60-Lab/polaroad/internal/repository"
)

// ThumbnailPolicy 缩略图指针不指向任何 ACTIVE 卡片时的处理策略
type ThumbnailPolicy int

const (
	// ThumbnailFallbackFirst 回退到 card_index 最小的那张图
	ThumbnailFallbackFirst ThumbnailPolicy = iota
	// ThumbnailStrict 丢弃整行图片，由上层剔除该帖子
	ThumbnailStrict
)

// 列表页每个帖子最多展示的图片数
const maxListImages = 3

// composeImages 从帖子的 ACTIVE 卡片里选出列表页图片：
// 按 card_index 升序取前三个互不重复的 URL，再把 thumbnailIndex
// 指定的缩略图挪到最前（不在候选里就插到头部并截断）。
// 纯函数，重复调用结果一致。第二个返回值为 false 表示
// 缩略图指针越界且策略为 Strict，该行应整体失效。
func composeImages(cards []repository.CardImage, thumbnailIndex int, policy ThumbnailPolicy) ([]string, bool) {
	if len(cards) == 0 {
		// 卡片全被删掉是正常状态，返回空列表
		return []string{}, true
	}

	sorted := make([]repository.CardImage, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CardIndex < sorted[j].CardIndex })

	images := make([]string, 0, maxListImages)
	seen := make(map[string]struct{}, maxListImages)
	for _, c := range sorted {
		if _, dup := seen[c.Image]; dup {
			continue
		}
		seen[c.Image] = struct{}{}
		images = append(images, c.Image)
		if len(images) == maxListImages {
			break
		}
	}

	var thumbnail string
	for _, c := range sorted {
		if c.CardIndex == thumbnailIndex {
			thumbnail = c.Image
			break
		}
	}
	if thumbnail == "" {
		if policy == ThumbnailStrict {
			return nil, false
		}
		thumbnail = sorted[0].Image
	}

	out := make([]string, 0, maxListImages)
	out = append(out, thumbnail)
	for _, img := range images {
		if img == thumbnail {
			continue
		}
		if len(out) == maxListImages {
			break
		}
		out = append(out, img)
	}
	return out, true
}
