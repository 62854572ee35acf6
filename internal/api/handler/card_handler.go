package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/polaroad/internal/model"
	"github.com/d60-Lab/polaroad/internal/repository"
	"github.com/d60-Lab/polaroad/internal/service"
	"github.com/d60-Lab/polaroad/pkg/middleware"
	"github.com/d60-Lab/polaroad/pkg/response"
)

// GetMyCardList 我上传的卡片
// @Summary 我的卡片列表
// @Tags 卡片
// @Param page query int true "页码，1 起始"
// @Param pageSize query int true "每页条数"
// @Success 200 {object} response.Response{data=service.CardListResponse}
// @Router /api/post/mycard [get]
func (h *Handler) GetMyCardList(c *gin.Context) {
	page, pageSize, ok := paging(c)
	if !ok {
		return
	}
	memberID := middleware.MemberID(c)
	list, err := h.cards.GetCardListByMember(c.Request.Context(), memberID, page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, list)
}

// GetMapCardList 地图范围内的卡片
// @Summary 地图卡片检索
// @Tags 卡片
// @Param searchType query string false "KEYWORD 或 HASHTAG" default(KEYWORD)
// @Param keyword query string false "关键字或标签名"
// @Param concept query string false "主题分类"
// @Param swLatitude query number true "西南角纬度"
// @Param neLatitude query number true "东北角纬度"
// @Param swLongitude query number true "西南角经度"
// @Param neLongitude query number true "东北角经度"
// @Param pageSize query int true "最多返回条数"
// @Success 200 {object} response.Response{data=[]repository.MapCardItem}
// @Router /api/card/map [get]
func (h *Handler) GetMapCardList(c *gin.Context) {
	searchType := service.PostSearchType(c.DefaultQuery("searchType", string(service.SearchTypeKeyword)))
	if !searchType.Valid() {
		response.BadRequest(c, "unknown searchType")
		return
	}
	concept := model.PostConcept(c.Query("concept"))
	if concept != "" && !concept.Valid() {
		response.BadRequest(c, "unknown concept")
		return
	}
	var bounds repository.MapBounds
	var err error
	if bounds.SwLatitude, err = strconv.ParseFloat(c.Query("swLatitude"), 64); err != nil {
		response.BadRequest(c, "invalid swLatitude")
		return
	}
	if bounds.NeLatitude, err = strconv.ParseFloat(c.Query("neLatitude"), 64); err != nil {
		response.BadRequest(c, "invalid neLatitude")
		return
	}
	if bounds.SwLongitude, err = strconv.ParseFloat(c.Query("swLongitude"), 64); err != nil {
		response.BadRequest(c, "invalid swLongitude")
		return
	}
	if bounds.NeLongitude, err = strconv.ParseFloat(c.Query("neLongitude"), 64); err != nil {
		response.BadRequest(c, "invalid neLongitude")
		return
	}
	pageSize, err := strconv.Atoi(c.Query("pageSize"))
	if err != nil || pageSize < 1 {
		response.BadRequest(c, "pageSize must be a positive integer")
		return
	}

	items, err := h.cards.GetMapCardList(c.Request.Context(), searchType, c.Query("keyword"), concept, bounds, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, items)
}
