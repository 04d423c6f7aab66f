package controller

import (
	"prompt_party_backend/internal/service"
	"prompt_party_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GamificationController struct {
	Gamification *service.GamificationService
	Badges       *service.BadgeService
	Challenges   *service.ChallengeService
}

func NewGamificationController(
	gamification *service.GamificationService,
	badges *service.BadgeService,
	challenges *service.ChallengeService,
) *GamificationController {
	return &GamificationController{
		Gamification: gamification,
		Badges:       badges,
		Challenges:   challenges,
	}
}

type CompleteLessonRequest struct {
	LessonID     string `json:"lessonId" binding:"required"`
	RewardPoints int    `json:"rewardPoints"`
}

// @Summary 完成课程
// @Description 记录课程完成，奖励积分并检查徽章和挑战
// @Tags 游戏化
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param lesson body CompleteLessonRequest true "课程信息"
// @Success 200 {object} util.Response
// @Router /activities/lesson [post]
func (c *GamificationController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CompleteLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Gamification.CompleteLesson(claims.UserID, req.LessonID, req.RewardPoints)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

type SharePromptRequest struct {
	PromptID     string `json:"promptId" binding:"required"`
	RewardPoints int    `json:"rewardPoints"`
}

// @Summary 分享提示词奖励
// @Description 记录提示词分享，奖励积分并检查徽章和挑战
// @Tags 游戏化
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param prompt body SharePromptRequest true "分享信息"
// @Success 200 {object} util.Response
// @Router /activities/share [post]
func (c *GamificationController) SharePrompt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SharePromptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Gamification.SharePrompt(claims.UserID, req.PromptID, req.RewardPoints)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 帮助他人奖励
// @Description 记录一次助人行为并奖励积分
// @Tags 游戏化
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /activities/help [post]
func (c *GamificationController) HelpPerson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Gamification.HelpPerson(claims.UserID, 0)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 更新连续活跃
// @Description 按日粒度更新连续活跃天数并检查里程碑徽章
// @Tags 游戏化
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /activities/streak [post]
func (c *GamificationController) UpdateStreak(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Gamification.UpdateStreak(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 用户进度
// @Description 当前用户的积分、等级、连续天数和活动计数
// @Tags 游戏化
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /progress [get]
func (c *GamificationController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.Gamification.GetUserProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// @Summary 已获得徽章
// @Description 当前用户已解锁的徽章列表，按获得时间倒序
// @Tags 游戏化
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /badges [get]
func (c *GamificationController) GetBadges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	badges, err := c.Badges.GetUserBadges(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, badges)
}

// @Summary 徽章目录
// @Description 全部可获得的徽章定义
// @Tags 游戏化
// @Produce json
// @Success 200 {object} util.Response
// @Router /badges/catalog [get]
func (c *GamificationController) GetBadgeCatalog(ctx *gin.Context) {
	badges, err := c.Badges.GetCatalog()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, badges)
}

// @Summary 进行中的挑战
// @Description 当前用户尚未完成的挑战进度
// @Tags 游戏化
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /challenges/active [get]
func (c *GamificationController) GetActiveChallenges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	challenges, err := c.Challenges.GetUserActiveChallenges(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, challenges)
}
