package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/polaroad/internal/service"
	"github.com/d60-Lab/polaroad/pkg/middleware"
	"github.com/d60-Lab/polaroad/pkg/response"
)

// Follow 关注会员
// @Summary 关注会员
// @Tags 关系链
// @Param memberId path int true "被关注会员 id"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/relations/follow/{memberId} [post]
func (h *Handler) Follow(c *gin.Context) {
	toID, err := strconv.ParseInt(c.Param("memberId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid memberId")
		return
	}
	fromID := middleware.MemberID(c)
	if err := h.members.Follow(c.Request.Context(), fromID, toID); err != nil {
		if errors.Is(err, service.ErrFollowSelf) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Param memberId path int true "被取关会员 id"
// @Success 200 {object} response.Response
// @Router /api/relations/unfollow/{memberId} [post]
func (h *Handler) Unfollow(c *gin.Context) {
	toID, err := strconv.ParseInt(c.Param("memberId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid memberId")
		return
	}
	fromID := middleware.MemberID(c)
	if err := h.members.Unfollow(c.Request.Context(), fromID, toID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
