package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	responses   *services.ResponseService
	assignments *services.AssignmentService
	roster      *services.RosterService
	engagement  *services.EngagementService
}

func NewExportHandler(responses *services.ResponseService, assignments *services.AssignmentService, roster *services.RosterService, engagement *services.EngagementService) *ExportHandler {
	return &ExportHandler{
		responses:   responses,
		assignments: assignments,
		roster:      roster,
		engagement:  engagement,
	}
}

type ExportRow struct {
	StudentID        uint    `json:"student_id"`
	StudentName      string  `json:"student_name"`
	AdmissionNo      string  `json:"admission_no"`
	QuestionID       uint    `json:"question_id"`
	SelectedAnswer   int     `json:"selected_answer"`
	IsCorrect        bool    `json:"is_correct"`
	ResponseTimeSec  float64 `json:"response_time_sec"`
	AnsweredAt       string  `json:"answered_at"`
	EngagementLevel  string  `json:"engagement_level"`
	EngagementScore  float64 `json:"engagement_score"`
	NetworkPenalty   float64 `json:"network_penalty"`
	RTTMs            string  `json:"rtt_ms,omitempty"`
	JitterMs         string  `json:"jitter_ms,omitempty"`
	StabilityPercent string  `json:"stability_percent,omitempty"`
}

type ExportData struct {
	AssignmentID uint        `json:"assignment_id"`
	Title        string      `json:"title"`
	ClassID      uint        `json:"class_id"`
	Rows         []ExportRow `json:"rows"`
}

// ExportResponses godoc
// @Summary      Export assignment responses for research
// @Description  Dumps every response of an assignment with per-row engagement classification, as JSON or CSV.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Assignment ID"
// @Param        format query string false "json or csv" default(json)
// @Success      200 {object} ExportData
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/assignments/{id}/export [get]
func (h *ExportHandler) ExportResponses(c *gin.Context) {
	assignmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid assignment id"})
		return
	}

	assignment, err := h.assignments.Get(uint(assignmentID))
	if err != nil {
		fail(c, err)
		return
	}

	rows, err := h.responses.List(services.ResponseFilter{AssignmentID: assignment.ID})
	if err != nil {
		fail(c, err)
		return
	}

	students, err := h.roster.ListStudents()
	if err != nil {
		fail(c, err)
		return
	}
	byID := make(map[uint]models.User, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	// Stats are per question; compute each distribution once.
	statsCache := make(map[uint]*services.QuestionStats)

	data := ExportData{AssignmentID: assignment.ID, Title: assignment.Title, ClassID: assignment.ClassID}
	for _, r := range rows {
		stats, ok := statsCache[r.QuestionID]
		if !ok {
			stats, err = h.responses.StatsForQuestion(r.QuestionID)
			if err != nil {
				fail(c, err)
				return
			}
			statsCache[r.QuestionID] = stats
		}

		timeSec := float64(r.ResponseTime) / 1000.0
		result := h.engagement.Classify(r.IsCorrect, timeSec, stats, r.RTTMs, r.JitterMs)

		row := ExportRow{
			StudentID:       r.StudentID,
			QuestionID:      r.QuestionID,
			SelectedAnswer:  r.SelectedAnswer,
			IsCorrect:       r.IsCorrect,
			ResponseTimeSec: timeSec,
			AnsweredAt:      r.AnsweredAt.Format("2006-01-02 15:04:05"),
			EngagementLevel: result.Level,
			EngagementScore: result.EngagementScore,
			NetworkPenalty:  result.Penalty,
			RTTMs:           formatMetric(r.RTTMs),
			JitterMs:        formatMetric(r.JitterMs),
		}
		if r.StabilityPercent != nil {
			row.StabilityPercent = formatMetric(r.StabilityPercent)
		}
		if student, ok := byID[r.StudentID]; ok {
			row.StudentName = student.Name
			row.AdmissionNo = student.AdmissionNo
		}
		data.Rows = append(data.Rows, row)
	}

	filename := fmt.Sprintf("assignment_%d_responses", assignment.ID)

	if c.DefaultQuery("format", "json") == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

		w := csv.NewWriter(c.Writer)
		w.Write([]string{
			"student_id", "student_name", "admission_no", "question_id",
			"selected_answer", "is_correct", "response_time_sec", "answered_at",
			"engagement_level", "engagement_score", "network_penalty",
			"rtt_ms", "jitter_ms", "stability_percent",
		})
		for _, row := range data.Rows {
			w.Write([]string{
				strconv.FormatUint(uint64(row.StudentID), 10),
				row.StudentName,
				row.AdmissionNo,
				strconv.FormatUint(uint64(row.QuestionID), 10),
				strconv.Itoa(row.SelectedAnswer),
				strconv.FormatBool(row.IsCorrect),
				strconv.FormatFloat(row.ResponseTimeSec, 'f', 3, 64),
				row.AnsweredAt,
				row.EngagementLevel,
				strconv.FormatFloat(row.EngagementScore, 'f', 3, 64),
				strconv.FormatFloat(row.NetworkPenalty, 'f', 3, 64),
				row.RTTMs,
				row.JitterMs,
				row.StabilityPercent,
			})
		}
		w.Flush()
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.json\"", filename))
	c.JSON(http.StatusOK, data)
}

func formatMetric(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
