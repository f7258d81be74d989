package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/gradesheet/internal/app/models/dto"
	"github.com/yigit/gradesheet/internal/app/services"
	"github.com/yigit/gradesheet/internal/middleware"
)

// StudentController handles the student directory endpoints
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// ListStudents returns all stored students
// @Summary List students
// @Description Returns every stored student, newest upload first
// @Tags students
// @Produce json
// @Success 200 {array} dto.StudentResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStudentResponses(students))
}

// UpdateStudent edits one student and recomputes its percentage
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "New values"
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
// @Router /students/{id}/update [post]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	updated, err := c.studentService.UpdateStudent(ctx.Request.Context(), ctx.Param("id"), req.StudentName, *req.TotalMarks, *req.MarksObtained)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStudentResponse(updated))
}

// DeleteStudent removes one student
// @Summary Delete a student
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
// @Router /students/{id}/delete [post]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	if err := c.studentService.DeleteStudent(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student deleted successfully"})
}

// GetStats returns class statistics
// @Summary Class statistics
// @Tags students
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stats [get]
func (c *StudentController) GetStats(ctx *gin.Context) {
	stats, err := c.studentService.GetStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStatsResponse(stats))
}

// GetUploadHistory returns the most recent uploads
// @Summary Upload history
// @Tags upload
// @Produce json
// @Success 200 {array} dto.UploadHistoryResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /upload-history [get]
func (c *StudentController) GetUploadHistory(ctx *gin.Context) {
	entries, err := c.studentService.ListUploadHistory(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewUploadHistoryResponses(entries))
}
