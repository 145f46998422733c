package handlers

import (
	"net/http"
	"strconv"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	roster      *services.RosterService
	questions   *services.QuestionService
	assignments *services.AssignmentService
	progress    *services.ProgressService
	responses   *services.ResponseService
}

func NewAdminHandler(roster *services.RosterService, questions *services.QuestionService, assignments *services.AssignmentService, progress *services.ProgressService, responses *services.ResponseService) *AdminHandler {
	return &AdminHandler{
		roster:      roster,
		questions:   questions,
		assignments: assignments,
		progress:    progress,
		responses:   responses,
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// ---- students ----

// CreateStudent godoc
// @Summary      Create a student account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.StudentInput true "Student data"
// @Success      201 {object} User
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/students [post]
func (h *AdminHandler) CreateStudent(c *gin.Context) {
	var req services.StudentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	student, err := h.roster.CreateStudent(req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

func (h *AdminHandler) ListStudents(c *gin.Context) {
	students, err := h.roster.ListStudents()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *AdminHandler) GetStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	student, err := h.roster.GetStudent(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *AdminHandler) UpdateStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.StudentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	student, err := h.roster.UpdateStudent(id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.roster.DeleteStudent(id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "student deleted"})
}

// ---- classes ----

type CreateClassRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

func (h *AdminHandler) CreateClass(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	class, err := h.roster.CreateClass(req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, class)
}

func (h *AdminHandler) ListClasses(c *gin.Context) {
	classes, err := h.roster.ListClasses()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func (h *AdminHandler) GetClass(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	class, err := h.roster.GetClass(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

func (h *AdminHandler) DeleteClass(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.roster.DeleteClass(id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "class deleted"})
}

func (h *AdminHandler) RemoveStudentFromClass(c *gin.Context) {
	classID, ok := pathID(c)
	if !ok {
		return
	}
	studentID, err := strconv.ParseUint(c.Param("studentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid student id"})
		return
	}
	if err := h.roster.RemoveStudentFromClass(classID, uint(studentID)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "student removed from class"})
}

// ---- questions ----

// CreateQuestion godoc
// @Summary      Create a question
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.QuestionInput true "Question data"
// @Success      201 {object} Question
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/questions [post]
func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	var req services.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	question, err := h.questions.Create(req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *AdminHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questions.List()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *AdminHandler) GetQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	question, err := h.questions.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// UpdateQuestion godoc
// @Summary      Update a question
// @Description  Changing the correct answer re-scores every stored response for the question; the sweep is best-effort and never fails the edit.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body services.QuestionInput true "Question data"
// @Success      200 {object} Question
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/questions/{id} [put]
func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	question, err := h.questions.Update(id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.questions.Delete(id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}

// ---- assignments ----

// AssignQuestions godoc
// @Summary      Assign questions to a class
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.AssignInput true "Assignment data"
// @Success      201 {object} Assignment
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/assignments [post]
func (h *AdminHandler) AssignQuestions(c *gin.Context) {
	adminID := c.GetUint("user_id")
	var req services.AssignInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	assignment, err := h.assignments.Assign(adminID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *AdminHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.assignments.ListActive(nil)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (h *AdminHandler) DeactivateAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.assignments.Deactivate(id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "assignment deactivated"})
}

func (h *AdminHandler) DeleteAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.assignments.Delete(id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "assignment deleted"})
}

// ---- live views ----

// GetLiveProgress godoc
// @Summary      Live progress board for an assignment
// @Description  Buckets every enrolled student as not started, in progress (most idle first) or completed.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Assignment ID"
// @Success      200 {object} services.LiveProgress
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/assignments/{id}/live-progress [get]
func (h *AdminHandler) GetLiveProgress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	progress, err := h.progress.GetLiveProgress(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetNonParticipants godoc
// @Summary      Students who have not attempted an assignment
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Assignment ID"
// @Success      200 {array} services.StudentRef
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/assignments/{id}/non-participants [get]
func (h *AdminHandler) GetNonParticipants(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	refs, err := h.progress.GetNonParticipants(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, refs)
}

// ListResponses godoc
// @Summary      List responses with filters
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        class_id query int false "Class filter"
// @Param        student_id query int false "Student filter"
// @Param        question_id query int false "Question filter"
// @Param        assignment_id query int false "Assignment filter"
// @Success      200 {array} Response
// @Router       /api/v1/admin/responses [get]
func (h *AdminHandler) ListResponses(c *gin.Context) {
	filter := services.ResponseFilter{
		ClassID:      queryID(c, "class_id"),
		StudentID:    queryID(c, "student_id"),
		QuestionID:   queryID(c, "question_id"),
		AssignmentID: queryID(c, "assignment_id"),
	}
	responses, err := h.responses.List(filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, responses)
}

func queryID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
