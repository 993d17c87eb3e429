package controller

import (
	"strconv"

	authmw "questrack/internal/auth/middleware"
	"questrack/internal/question/model"
	"questrack/internal/question/service"
	"questrack/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// QuestionController handles the question catalog and saved-list endpoints.
type QuestionController struct {
	questionService *service.QuestionService
}

// NewQuestionController creates a new QuestionController.
func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// RegisterRoutes mounts the API under group. The group must already run BearerAuth.
func (h *QuestionController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/questions", h.List)
	group.GET("/questions/:id", h.Get)
	group.PUT("/questions/:id/status", h.SetStatus)
	group.GET("/users/:id/saved-questions", h.ListSaved)
	group.POST("/users/:id/saved-questions/:question_id", h.Save)
	group.DELETE("/users/:id/saved-questions/:question_id", h.Remove)
}

// List handles the filtered, paginated catalog query.
func (h *QuestionController) List(c *gin.Context) {
	var req ListQuestionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	out, err := h.questionService.ListQuestions(c.Request.Context(), service.ListInput{
		UserID:     authmw.UserID(c),
		Status:     req.Status,
		Difficulty: req.Difficulty,
		Topic:      req.Topic,
		Page:       lenientInt(req.Page),
		PageSize:   lenientInt(req.PageSize),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, out.Questions, out.Total, out.Page, out.PageSize)
}

// Get handles a single question lookup.
func (h *QuestionController) Get(c *gin.Context) {
	questionID, ok := parseID(c, "id", "Invalid question id")
	if !ok {
		return
	}

	question, err := h.questionService.GetQuestion(c.Request.Context(), authmw.UserID(c), questionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, question)
}

// SetStatus handles the caller's status update for a question.
func (h *QuestionController) SetStatus(c *gin.Context) {
	questionID, ok := parseID(c, "id", "Invalid question id")
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}

	if err := h.questionService.SetStatus(c.Request.Context(), authmw.UserID(c), questionID, req.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "Status updated", SetStatusResponse{QuestionID: questionID, Status: model.Status(req.Status)})
}

// ListSaved handles the saved-question list of a user.
func (h *QuestionController) ListSaved(c *gin.Context) {
	ownerID, ok := parseID(c, "id", "Invalid user id")
	if !ok {
		return
	}

	questions, err := h.questionService.ListSaved(c.Request.Context(), authmw.UserID(c), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, questions)
}

// Save handles adding a question to a user's saved list.
func (h *QuestionController) Save(c *gin.Context) {
	ownerID, questionID, ok := parseSavedPath(c)
	if !ok {
		return
	}

	if err := h.questionService.SaveQuestion(c.Request.Context(), authmw.UserID(c), ownerID, questionID); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "Question saved", nil)
}

// Remove handles dropping a question from a user's saved list.
func (h *QuestionController) Remove(c *gin.Context) {
	ownerID, questionID, ok := parseSavedPath(c)
	if !ok {
		return
	}

	if err := h.questionService.RemoveQuestion(c.Request.Context(), authmw.UserID(c), ownerID, questionID); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "Question removed", nil)
}

func parseSavedPath(c *gin.Context) (int64, int64, bool) {
	ownerID, ok := parseID(c, "id", "Invalid user id")
	if !ok {
		return 0, 0, false
	}
	questionID, ok := parseID(c, "question_id", "Invalid question id")
	if !ok {
		return 0, 0, false
	}
	return ownerID, questionID, true
}

func parseID(c *gin.Context, param, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, message)
		return 0, false
	}
	return id, true
}

// ListQuestionsRequest defines the catalog query parameters.
type ListQuestionsRequest struct {
	Status     string `form:"status"`
	Difficulty string `form:"difficulty"`
	Topic      string `form:"topic"`
	Page       string `form:"page"`
	PageSize   string `form:"page_size"`
}

// lenientInt parses a paging parameter. Anything that is not a number
// yields 0, which paging normalisation turns into the default.
func lenientInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// SetStatusRequest defines the status update payload.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatusResponse defines the status update response payload.
type SetStatusResponse struct {
	QuestionID int64        `json:"question_id"`
	Status     model.Status `json:"status"`
}
