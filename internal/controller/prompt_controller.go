package controller

import (
	"errors"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/service"
	"prompt_party_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PromptController struct {
	Prompts *service.PromptService
}

func NewPromptController(prompts *service.PromptService) *PromptController {
	return &PromptController{Prompts: prompts}
}

// @Summary 公开提示词列表
// @Description 分页浏览公开提示词，支持分类和关键词过滤
// @Tags 提示词
// @Produce json
// @Param category query string false "分类"
// @Param search query string false "关键词"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /prompts [get]
func (c *PromptController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	filter := repository.PromptFilter{
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
		Page:     page,
		Limit:    limit,
	}

	prompts, total, err := c.Prompts.List(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  prompts,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 提示词详情
// @Description 公开提示词任何人可读，草稿仅作者可读
// @Tags 提示词
// @Produce json
// @Param id path int true "提示词ID"
// @Success 200 {object} util.Response
// @Router /prompts/{id} [get]
func (c *PromptController) Get(ctx *gin.Context) {
	promptID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid prompt ID")
		return
	}

	var viewerID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		viewerID = claims.UserID
	}

	prompt, err := c.Prompts.Get(uint(promptID), viewerID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, prompt)
}

// @Summary 我的提示词
// @Description 当前用户的全部提示词，含草稿
// @Tags 提示词
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /prompts/mine [get]
func (c *PromptController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	prompts, err := c.Prompts.ListByAuthor(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, prompts)
}

// @Summary 创建提示词
// @Description 创建草稿状态的提示词
// @Tags 提示词
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param prompt body service.PromptRequest true "提示词内容"
// @Success 201 {object} util.Response
// @Router /prompts [post]
func (c *PromptController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.PromptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	prompt, err := c.Prompts.Create(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, prompt)
}

// @Summary 更新提示词
// @Tags 提示词
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提示词ID"
// @Param prompt body service.PromptRequest true "提示词内容"
// @Success 200 {object} util.Response
// @Router /prompts/{id} [put]
func (c *PromptController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	promptID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid prompt ID")
		return
	}

	var req service.PromptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	prompt, err := c.Prompts.Update(claims.UserID, uint(promptID), req)
	if err != nil {
		c.writeDomainError(ctx, err)
		return
	}

	util.Success(ctx, prompt)
}

// @Summary 删除提示词
// @Tags 提示词
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提示词ID"
// @Success 200 {object} util.Response
// @Router /prompts/{id} [delete]
func (c *PromptController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	promptID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid prompt ID")
		return
	}

	if err := c.Prompts.Delete(claims.UserID, uint(promptID)); err != nil {
		c.writeDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Prompt deleted"})
}

type PublishPromptRequest struct {
	Unlisted bool `json:"unlisted"`
}

// @Summary 发布提示词
// @Description 草稿转公开或 unlisted（仅限知道链接者访问），首次发布触发分享奖励
// @Tags 提示词
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提示词ID"
// @Param options body PublishPromptRequest false "发布选项"
// @Success 200 {object} util.Response
// @Router /prompts/{id}/publish [post]
func (c *PromptController) Publish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	promptID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid prompt ID")
		return
	}

	// 请求体可省略，默认公开发布
	var req PublishPromptRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	prompt, reward, err := c.Prompts.Publish(claims.UserID, uint(promptID), req.Unlisted)
	if err != nil {
		c.writeDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"prompt": prompt, "reward": reward})
}

// @Summary 二创提示词
// @Description 以公开提示词为底稿创建新草稿
// @Tags 提示词
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提示词ID"
// @Success 201 {object} util.Response
// @Router /prompts/{id}/remix [post]
func (c *PromptController) Remix(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	promptID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid prompt ID")
		return
	}

	remix, err := c.Prompts.Remix(claims.UserID, uint(promptID))
	if err != nil {
		c.writeDomainError(ctx, err)
		return
	}

	util.Created(ctx, remix)
}

// @Summary 评分
// @Description 给公开提示词打 1-5 分，重复评分覆盖
// @Tags 提示词
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提示词ID"
// @Success 200 {object} util.Response
// @Router /prompts/{id}/rate [post]
func (c *PromptController) Rate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	promptID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid prompt ID")
		return
	}

	var req struct {
		Score int `json:"score" binding:"required,min=1,max=5"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Prompts.Rate(claims.UserID, uint(promptID), req.Score); err != nil {
		c.writeDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Rating recorded"})
}

// @Summary 记录使用
// @Description 记录一次提示词使用事件
// @Tags 提示词
// @Produce json
// @Param id path int true "提示词ID"
// @Success 200 {object} util.Response
// @Router /prompts/{id}/usage [post]
func (c *PromptController) TrackUsage(ctx *gin.Context) {
	promptID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid prompt ID")
		return
	}

	var userID *uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = &claims.UserID
	}

	if err := c.Prompts.TrackUsage(uint(promptID), userID, "web"); err != nil {
		c.writeDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Usage recorded"})
}

// V1List API密钥认证的 v1 提示词列表。
// @Summary v1 提示词列表
// @Tags v1
// @Produce json
// @Success 200 {object} util.Response
// @Router /v1/prompts [get]
func (c *PromptController) V1List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	prompts, total, err := c.Prompts.List(repository.PromptFilter{
		Category: ctx.Query("category"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: prompts, Total: total, Page: page, Limit: limit})
}

// V1Get v1 提示词详情，读取计入使用统计。
// @Summary v1 提示词详情
// @Tags v1
// @Produce json
// @Param id path int true "提示词ID"
// @Success 200 {object} util.Response
// @Router /v1/prompts/{id} [get]
func (c *PromptController) V1Get(ctx *gin.Context) {
	promptID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid prompt ID")
		return
	}

	userID, _ := ctx.Get("api_key_user_id")
	var viewerID uint
	if id, ok := userID.(uint); ok {
		viewerID = id
	}

	prompt, err := c.Prompts.Get(uint(promptID), viewerID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	if err := c.Prompts.TrackUsage(prompt.ID, &viewerID, "api"); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, prompt)
}

func (c *PromptController) writeDomainError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPromptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrAlreadyPublished),
		errors.Is(err, util.ErrPromptNotPublic),
		errors.Is(err, util.ErrInvalidRating):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
