package controller

import (
	"prompt_party_backend/internal/service"
	"prompt_party_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	Leaderboard *service.LeaderboardService
}

func NewLeaderboardController(leaderboard *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{Leaderboard: leaderboard}
}

// @Summary 积分排行榜
// @Description 按总积分排序的用户排行，结果缓存60秒
// @Tags 排行榜
// @Produce json
// @Param limit query int false "返回条数，默认10，最大100"
// @Success 200 {object} util.Response
// @Router /leaderboard [get]
func (c *LeaderboardController) Get(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := c.Leaderboard.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
