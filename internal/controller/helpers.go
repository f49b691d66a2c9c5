package controller

import (
	"errors"
	"lxp_backend/internal/service"
	"lxp_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

var notFoundErrors = []error{
	util.ErrStudentNotFound,
	util.ErrSubjectNotFound,
	util.ErrContentNotFound,
	util.ErrLearningPathNotFound,
	util.ErrAssessmentNotFound,
	util.ErrProgressNotFound,
	util.ErrSessionNotFound,
}

// respondError 校验错误 400，记录不存在 404，其余 500
func respondError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrValidation) {
		util.BadRequest(ctx, err.Error())
		return
	}
	if errors.Is(err, service.ErrLockTimeout) {
		util.ServiceUnavailable(ctx, "Progress record is busy, retry later")
		return
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			util.NotFound(ctx, err.Error())
			return
		}
	}
	util.LogInternalError(ctx, err)
}

func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// pathID 解析路径参数中的 ID，非法时直接返回 400
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}
