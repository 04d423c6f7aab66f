package controller

import (
	"errors"
	"prompt_party_backend/internal/service"
	"prompt_party_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CollectionController struct {
	Collections *service.CollectionService
}

func NewCollectionController(collections *service.CollectionService) *CollectionController {
	return &CollectionController{Collections: collections}
}

// @Summary 我的收藏夹
// @Tags 收藏夹
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /collections [get]
func (c *CollectionController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	collections, err := c.Collections.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, collections)
}

// @Summary 创建收藏夹
// @Tags 收藏夹
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param collection body service.CollectionRequest true "收藏夹信息"
// @Success 201 {object} util.Response
// @Router /collections [post]
func (c *CollectionController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CollectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	collection, err := c.Collections.Create(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, collection)
}

// @Summary 收藏夹详情
// @Description 公开收藏夹任何人可读，私有仅所有者可读
// @Tags 收藏夹
// @Produce json
// @Param id path int true "收藏夹ID"
// @Success 200 {object} util.Response
// @Router /collections/{id} [get]
func (c *CollectionController) Get(ctx *gin.Context) {
	collectionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid collection ID")
		return
	}

	var viewerID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		viewerID = claims.UserID
	}

	collection, entries, err := c.Collections.Get(uint(collectionID), viewerID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, gin.H{"collection": collection, "prompts": entries})
}

// @Summary 删除收藏夹
// @Tags 收藏夹
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "收藏夹ID"
// @Success 200 {object} util.Response
// @Router /collections/{id} [delete]
func (c *CollectionController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	collectionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid collection ID")
		return
	}

	if err := c.Collections.Delete(claims.UserID, uint(collectionID)); err != nil {
		c.writeDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Collection deleted"})
}

// @Summary 添加提示词到收藏夹
// @Tags 收藏夹
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "收藏夹ID"
// @Param promptId path int true "提示词ID"
// @Success 200 {object} util.Response
// @Router /collections/{id}/prompts/{promptId} [post]
func (c *CollectionController) AddPrompt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	collectionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid collection ID")
		return
	}
	promptID, err := strconv.Atoi(ctx.Param("promptId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid prompt ID")
		return
	}

	if err := c.Collections.AddPrompt(claims.UserID, uint(collectionID), uint(promptID)); err != nil {
		c.writeDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Prompt added to collection"})
}

// @Summary 从收藏夹移除提示词
// @Tags 收藏夹
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "收藏夹ID"
// @Param promptId path int true "提示词ID"
// @Success 200 {object} util.Response
// @Router /collections/{id}/prompts/{promptId} [delete]
func (c *CollectionController) RemovePrompt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	collectionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid collection ID")
		return
	}
	promptID, err := strconv.Atoi(ctx.Param("promptId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid prompt ID")
		return
	}

	if err := c.Collections.RemovePrompt(claims.UserID, uint(collectionID), uint(promptID)); err != nil {
		c.writeDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Prompt removed from collection"})
}

func (c *CollectionController) writeDomainError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCollectionNotFound), errors.Is(err, util.ErrPromptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrAlreadyInCollection), errors.Is(err, util.ErrPromptNotPublic):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
