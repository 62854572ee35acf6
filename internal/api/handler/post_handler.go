package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/polaroad/internal/model"
	"github.com/d60-Lab/polaroad/internal/repository"
	"github.com/d60-Lab/polaroad/internal/service"
	"github.com/d60-Lab/polaroad/pkg/middleware"
	"github.com/d60-Lab/polaroad/pkg/response"
)

type cardSaveRequest struct {
	CardID    int64   `json:"cardId"`
	CardIndex int     `json:"cardIndex" binding:"gte=0"`
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Image     string  `json:"image" binding:"required"`
	Content   string  `json:"content"`
}

type savePostRequest struct {
	Title          string            `json:"title" binding:"required"`
	RoutePoint     string            `json:"routePoint"`
	ThumbnailIndex int               `json:"thumbnailIndex" binding:"gte=0"`
	Concept        string            `json:"concept" binding:"required,postconcept"`
	Region         string            `json:"region" binding:"required,postregion"`
	Cards          []cardSaveRequest `json:"cards" binding:"required,min=1,max=10,dive"`
	Hashtags       []string          `json:"hashtags" binding:"max=10"`
}

func (r savePostRequest) toInput() service.PostSaveInput {
	cards := make([]service.CardSaveInput, 0, len(r.Cards))
	for _, c := range r.Cards {
		cards = append(cards, service.CardSaveInput{
			CardID:    c.CardID,
			CardIndex: c.CardIndex,
			Location:  c.Location,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Image:     c.Image,
			Content:   c.Content,
		})
	}
	return service.PostSaveInput{
		Title:          r.Title,
		RoutePoint:     r.RoutePoint,
		ThumbnailIndex: r.ThumbnailIndex,
		Concept:        model.PostConcept(r.Concept),
		Region:         model.PostRegion(r.Region),
		Cards:          cards,
		Hashtags:       r.Hashtags,
	}
}

// paging 解析并校验 page / pageSize，1 起始
func paging(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		response.BadRequest(c, "page must be a positive integer")
		return 0, 0, false
	}
	pageSize, err := strconv.Atoi(c.Query("pageSize"))
	if err != nil || pageSize < 1 {
		response.BadRequest(c, "pageSize must be a positive integer")
		return 0, 0, false
	}
	return page, pageSize, true
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPage), errors.Is(err, service.ErrInvalidPageSize):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotPostOwner):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// GetPostList 关键字 / 标签检索
// @Summary 帖子检索
// @Tags 帖子
// @Param page query int true "页码，1 起始"
// @Param pageSize query int true "每页条数"
// @Param searchType query string false "KEYWORD 或 HASHTAG" default(KEYWORD)
// @Param keyword query string false "关键字或标签名"
// @Param sortBy query string true "RECENT 或 GOOD"
// @Param concept query string false "主题分类，HOT 表示热门"
// @Param region query string false "地区"
// @Success 200 {object} response.Response{data=service.PostListResponse}
// @Failure 400 {object} response.Response
// @Router /api/post/list [get]
func (h *Handler) GetPostList(c *gin.Context) {
	page, pageSize, ok := paging(c)
	if !ok {
		return
	}
	searchType := service.PostSearchType(c.DefaultQuery("searchType", string(service.SearchTypeKeyword)))
	if !searchType.Valid() {
		response.BadRequest(c, "unknown searchType")
		return
	}
	sortBy := repository.SortOrder(c.Query("sortBy"))
	if !sortBy.Valid() {
		response.BadRequest(c, "unknown sortBy")
		return
	}
	concept := model.PostConcept(c.Query("concept"))
	if concept != "" && !concept.Valid() {
		response.BadRequest(c, "unknown concept")
		return
	}
	region := model.PostRegion(c.Query("region"))
	if region != "" && !region.Valid() {
		response.BadRequest(c, "unknown region")
		return
	}

	list, err := h.posts.GetPostList(c.Request.Context(), page, pageSize, searchType, c.Query("keyword"),
		sortBy, concept, region, model.PostStatusActive)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, list)
}

// GetFollowingPosts 关注流
// @Summary 关注会员的帖子
// @Tags 帖子
// @Param page query int true "页码，1 起始"
// @Param pageSize query int true "每页条数"
// @Param concept query string false "主题分类"
// @Success 200 {object} response.Response{data=service.PostListResponse}
// @Router /api/post/following [get]
func (h *Handler) GetFollowingPosts(c *gin.Context) {
	page, pageSize, ok := paging(c)
	if !ok {
		return
	}
	concept := model.PostConcept(c.Query("concept"))
	if concept != "" && !concept.Valid() {
		response.BadRequest(c, "unknown concept")
		return
	}
	memberID := middleware.MemberID(c)
	list, err := h.posts.GetFollowingMemberPosts(c.Request.Context(), memberID, concept, page, pageSize, model.PostStatusActive)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, list)
}

// GetViewRankingList 浏览量榜单流
// @Summary 时段浏览量榜单
// @Tags 帖子
// @Param page query int true "页码，1 起始"
// @Param pageSize query int true "每页条数"
// @Param range query string true "DAILY / WEEKLY / MONTHLY"
// @Success 200 {object} response.Response{data=service.PostListResponse}
// @Router /api/post/view-ranking [get]
func (h *Handler) GetViewRankingList(c *gin.Context) {
	page, pageSize, ok := paging(c)
	if !ok {
		return
	}
	rng := service.RankingRange(c.Query("range"))
	if !rng.Valid() {
		response.BadRequest(c, "unknown range")
		return
	}
	list, err := h.posts.GetPostRankingList(c.Request.Context(), page, pageSize, rng)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, list)
}

// GetMyPostList 我的帖子
// @Summary 我的帖子列表
// @Tags 帖子
// @Param page query int true "页码，1 起始"
// @Param pageSize query int true "每页条数"
// @Success 200 {object} response.Response{data=service.PostListResponse}
// @Router /api/post/mypost [get]
func (h *Handler) GetMyPostList(c *gin.Context) {
	page, pageSize, ok := paging(c)
	if !ok {
		return
	}
	memberID := middleware.MemberID(c)
	list, err := h.posts.GetMyPostList(c.Request.Context(), memberID, page, pageSize, model.PostStatusActive)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, list)
}

// GetPostInfo 帖子详情
// @Summary 帖子内容
// @Tags 帖子
// @Param postId path int true "帖子 id"
// @Success 200 {object} response.Response{data=service.PostInfo}
// @Failure 404 {object} response.Response
// @Router /api/post/content/{postId} [get]
func (h *Handler) GetPostInfo(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid postId")
		return
	}
	info, err := h.posts.GetPostInfo(c.Request.Context(), postID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, info)
}

// SavePost 创建帖子
// @Summary 创建帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body savePostRequest true "帖子内容"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/post/write [post]
func (h *Handler) SavePost(c *gin.Context) {
	var req savePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	memberID := middleware.MemberID(c)
	postID, err := h.posts.SavePost(c.Request.Context(), req.toInput(), memberID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"postId": postID})
}

// EditPost 编辑帖子
// @Summary 编辑帖子
// @Tags 帖子
// @Param postId path int true "帖子 id"
// @Param request body savePostRequest true "帖子内容"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/post/edit/{postId} [patch]
func (h *Handler) EditPost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid postId")
		return
	}
	var req savePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	memberID := middleware.MemberID(c)
	if err := h.posts.EditPost(c.Request.Context(), req.toInput(), memberID, postID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// DeletePost 删除帖子（软删除）
// @Summary 删除帖子
// @Tags 帖子
// @Param postId path int true "帖子 id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/post/delete/{postId} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid postId")
		return
	}
	memberID := middleware.MemberID(c)
	if err := h.posts.DeletePost(c.Request.Context(), postID, memberID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// GoodToggle 点赞开关
// @Summary 帖子点赞 / 取消点赞
// @Tags 帖子
// @Param postId path int true "帖子 id"
// @Success 200 {object} response.Response
// @Router /api/post/good/{postId} [patch]
func (h *Handler) GoodToggle(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid postId")
		return
	}
	memberID := middleware.MemberID(c)
	liked, err := h.posts.GoodToggle(c.Request.Context(), memberID, postID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"liked": liked})
}
