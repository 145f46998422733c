package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/services"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	responses *services.ResponseService
	views     *services.StudentViewService
	roster    *services.RosterService
	hub       *ws.Hub
}

func NewStudentHandler(responses *services.ResponseService, views *services.StudentViewService, roster *services.RosterService, hub *ws.Hub) *StudentHandler {
	return &StudentHandler{responses: responses, views: views, roster: roster, hub: hub}
}

type SubmitAnswerRequest struct {
	QuestionID           uint                          `json:"question_id" binding:"required"`
	AssignmentID         uint                          `json:"assignment_id" binding:"required"`
	ClassID              uint                          `json:"class_id" binding:"required"`
	SelectedAnswer       *int                          `json:"selected_answer" binding:"required"`
	StartTime            int64                         `json:"start_time" binding:"required"` // ms epoch
	CurrentQuestionIndex int                           `json:"current_question_index"`
	TotalQuestions       int                           `json:"total_questions"`
	NetworkMetrics       *services.NetworkMetricsInput `json:"network_metrics"`
}

// SubmitAnswer godoc
// @Summary      Submit an answer
// @Description  Record one answer for a question within an assignment. Each question may be answered once per assignment.
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SubmitAnswerRequest true "Answer"
// @Success      201 {object} services.SubmitAnswerResult
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/students/submit-answer [post]
func (h *StudentHandler) SubmitAnswer(c *gin.Context) {
	studentID := c.GetUint("user_id")

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.responses.SubmitAnswer(c.Request.Context(), services.SubmitAnswerInput{
		StudentID:            studentID,
		QuestionID:           req.QuestionID,
		AssignmentID:         req.AssignmentID,
		ClassID:              req.ClassID,
		SelectedAnswer:       *req.SelectedAnswer,
		StartTime:            time.UnixMilli(req.StartTime),
		CurrentQuestionIndex: req.CurrentQuestionIndex,
		TotalQuestions:       req.TotalQuestions,
		Metrics:              req.NetworkMetrics,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.hub.Broadcast(req.AssignmentID, ws.WSMessage{
		Type: "progress",
		Data: gin.H{
			"assignment_id": req.AssignmentID,
			"student_id":    studentID,
			"session":       result.Session,
		},
	})

	c.JSON(http.StatusCreated, result)
}

type NetworkMetricsRequest struct {
	RTTMs            *float64 `json:"rtt_ms"`
	JitterMs         *float64 `json:"jitter_ms"`
	StabilityPercent *float64 `json:"stability_percent"`
	NetworkQuality   *string  `json:"network_quality"`
}

// UpdateNetworkMetrics godoc
// @Summary      Attach network metrics to a response
// @Description  Clients measure network quality asynchronously; supplied fields are patched, zero values are kept.
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Response ID"
// @Param        request body NetworkMetricsRequest true "Metrics"
// @Success      200 {object} Response
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/students/response/{id}/network-metrics [patch]
func (h *StudentHandler) UpdateNetworkMetrics(c *gin.Context) {
	studentID := c.GetUint("user_id")
	responseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid response id"})
		return
	}

	var req NetworkMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	response, err := h.responses.UpdateNetworkMetrics(studentID, uint(responseID), services.NetworkMetricsInput{
		RTTMs:            req.RTTMs,
		JitterMs:         req.JitterMs,
		StabilityPercent: req.StabilityPercent,
		NetworkQuality:   req.NetworkQuality,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetAssignedQuestions godoc
// @Summary      List the student's assigned questions
// @Description  Questions across the caller's active class assignments, flagged with answer and completion state.
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.AssignedQuestion
// @Router       /api/v1/students/assigned-questions [get]
func (h *StudentHandler) GetAssignedQuestions(c *gin.Context) {
	studentID := c.GetUint("user_id")

	classIDs, err := h.roster.ClassIDsOf(studentID)
	if err != nil {
		fail(c, err)
		return
	}

	feed, err := h.views.AssignedQuestions(studentID, classIDs)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

// GetMyResponses godoc
// @Summary      List the student's own responses
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Response
// @Router       /api/v1/students/my-responses [get]
func (h *StudentHandler) GetMyResponses(c *gin.Context) {
	studentID := c.GetUint("user_id")

	responses, err := h.views.MyResponses(studentID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}
