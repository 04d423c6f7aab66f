package controller

import (
	"errors"
	"prompt_party_backend/internal/service"
	"prompt_party_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type APIKeyController struct {
	APIKeys *service.APIKeyService
}

func NewAPIKeyController(apiKeys *service.APIKeyService) *APIKeyController {
	return &APIKeyController{APIKeys: apiKeys}
}

// CreateAPIKeyRequest 创建API密钥请求
type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// @Summary 创建API密钥
// @Description 明文密钥仅在创建时返回一次
// @Tags API密钥
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param key body CreateAPIKeyRequest true "密钥名称"
// @Success 201 {object} util.Response
// @Router /apikeys [post]
func (c *APIKeyController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateAPIKeyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.APIKeys.Create(claims.UserID, req.Name)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, created)
}

// @Summary 我的API密钥列表
// @Tags API密钥
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /apikeys [get]
func (c *APIKeyController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	keys, err := c.APIKeys.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, keys)
}

// @Summary 吊销API密钥
// @Tags API密钥
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "密钥ID"
// @Success 200 {object} util.Response
// @Router /apikeys/{id} [delete]
func (c *APIKeyController) Revoke(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	keyID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid key ID")
		return
	}

	if err := c.APIKeys.Revoke(claims.UserID, uint(keyID)); err != nil {
		switch {
		case errors.Is(err, util.ErrAPIKeyNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAPIKeyRevoked):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "API key revoked"})
}
