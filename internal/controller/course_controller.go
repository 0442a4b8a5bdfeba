package controller

import (
	"errors"

	"quizzku_backend/internal/service"
	"quizzku_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	Service *service.CourseService
}

func NewCourseController(svc *service.CourseService) *CourseController {
	return &CourseController{Service: svc}
}

// @Summary 课程列表（按报名人数排序的前10门）
// @Tags 课程模块
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var learnerID uint
	if user := util.GetUserFromContext(ctx); user != nil {
		learnerID = user.UserID
	}

	courses, err := c.Service.ListCourses(learnerID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"courses": courses})
}

// @Summary 课程详情（含每节课剩余尝试次数）
// @Tags 课程模块
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "课程slug"
// @Success 200 {object} util.Response
// @Router /api/courses/{slug} [get]
func (c *CourseController) GetCourseDetail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.Service.GetCourseDetail(user.UserID, ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary 报名课程（幂等）
// @Tags 课程模块
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "课程slug"
// @Success 200 {object} util.Response
// @Router /api/courses/{slug}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	course, err := c.Service.Enroll(user.UserID, ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, course)
}
