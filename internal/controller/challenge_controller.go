package controller

import (
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/service"
	"prompt_party_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ChallengeController 挑战目录的管理接口（仅管理员）。
type ChallengeController struct {
	Challenges *service.ChallengeService
}

func NewChallengeController(challenges *service.ChallengeService) *ChallengeController {
	return &ChallengeController{Challenges: challenges}
}

type ChallengeRequest struct {
	Title         string                  `json:"title" binding:"required"`
	Description   string                  `json:"description"`
	Type          string                  `json:"type"`
	GoalType      model.ChallengeGoalType `json:"goalType" binding:"required"`
	GoalValue     int                     `json:"goalValue" binding:"required,min=1"`
	RewardPoints  int                     `json:"rewardPoints"`
	RewardBadgeID *string                 `json:"rewardBadgeId"`
	EndDate       time.Time               `json:"endDate" binding:"required"`
}

// @Summary 挑战目录
// @Description 全部挑战，含已结束的
// @Tags 挑战管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /admin/challenges [get]
func (c *ChallengeController) List(ctx *gin.Context) {
	challenges, err := c.Challenges.GetCatalog()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, challenges)
}

// @Summary 创建挑战
// @Description 新建一个限时挑战
// @Tags 挑战管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param challenge body ChallengeRequest true "挑战信息"
// @Success 201 {object} util.Response
// @Router /admin/challenges [post]
func (c *ChallengeController) Create(ctx *gin.Context) {
	var req ChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge := &model.Challenge{
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		GoalType:      req.GoalType,
		GoalValue:     req.GoalValue,
		RewardPoints:  req.RewardPoints,
		RewardBadgeID: req.RewardBadgeID,
		EndDate:       req.EndDate,
		IsActive:      true,
	}

	if err := c.Challenges.CreateChallenge(challenge); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, challenge)
}

// @Summary 更新挑战
// @Description 修改挑战定义或手动下线
// @Tags 挑战管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param challengeId path int true "挑战ID"
// @Success 200 {object} util.Response
// @Router /admin/challenges/{challengeId} [put]
func (c *ChallengeController) Update(ctx *gin.Context) {
	challengeID, err := strconv.Atoi(ctx.Param("challengeId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid challenge ID")
		return
	}

	var req struct {
		ChallengeRequest
		IsActive *bool `json:"isActive"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.Challenges.ChallengeRepo.FindByID(uint(challengeID))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	challenge.Title = req.Title
	challenge.Description = req.Description
	challenge.Type = req.Type
	challenge.GoalType = req.GoalType
	challenge.GoalValue = req.GoalValue
	challenge.RewardPoints = req.RewardPoints
	challenge.RewardBadgeID = req.RewardBadgeID
	challenge.EndDate = req.EndDate
	if req.IsActive != nil {
		challenge.IsActive = *req.IsActive
	}

	if err := c.Challenges.UpdateChallenge(challenge); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, challenge)
}
