package controller

import (
	"errors"

	"quizzku_backend/internal/service"
	"quizzku_backend/internal/util"
	"quizzku_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

// binaryFlagCookie carries the binary-question flag map to the client; the
// result page sends it back so both pages style binary questions the same.
const binaryFlagCookie = "is_binary_question"

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// @Summary 进入测验页（题目与选项按确定性乱序返回）
// @Tags 测验模块
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "课程slug"
// @Param name query string true "课时标题"
// @Success 200 {object} util.Response
// @Router /api/courses/{slug}/lesson [get]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, err := c.Service.EnterQuiz(user.UserID, user.IsSuperuser, ctx.Param("slug"), ctx.Query("name"))
	if err != nil {
		c.renderQuizError(ctx, err)
		return
	}

	maxAge := int(c.Service.BinaryFlagTTL().Seconds())
	ctx.SetCookie(binaryFlagCookie, page.BinaryFlagToken, maxAge, "/", "", false, false)

	util.Success(ctx, page)
}

// @Summary 提交测验
// @Tags 测验模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "课程slug"
// @Param body body service.SubmitQuizRequest true "答题内容"
// @Success 200 {object} util.Response
// @Router /api/courses/{slug}/lesson/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SubmitQuiz(user.UserID, user.IsSuperuser, ctx.Param("slug"), req)
	if err != nil {
		monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
		c.renderQuizError(ctx, err)
		return
	}

	monitoring.SubmissionCounter.WithLabelValues("accepted").Inc()
	util.Success(ctx, result)
}

// @Summary 测验结果页
// @Tags 测验模块
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "课程slug"
// @Param name query string true "课时标题"
// @Param attempt query int true "尝试序号"
// @Success 200 {object} util.Response
// @Router /api/courses/{slug}/lesson/result [get]
func (c *QuizController) ShowResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	token, _ := ctx.Cookie(binaryFlagCookie)

	result, err := c.Service.GetResult(user.UserID, ctx.Param("slug"), ctx.Query("name"), ctx.Query("attempt"), token)
	if err != nil {
		c.renderQuizError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

func (c *QuizController) renderQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAttemptLimitExceeded):
		util.Forbidden(ctx, err.Error())
	case errors.Is(err, util.ErrLessonTitleRequired), errors.Is(err, util.ErrAttemptIndexRequired):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrSubmissionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrAttemptConflict), errors.Is(err, util.ErrSubmissionExists):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
