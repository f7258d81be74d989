package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/gradesheet/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	healthController *controllers.HealthController,
	uploadController *controllers.UploadController,
	studentController *controllers.StudentController,
) {
	api := router.Group("/api")

	api.GET("/health", healthController.Health)

	// --- Upload routes ---
	api.POST("/upload", uploadController.Upload)
	api.GET("/upload-history", studentController.GetUploadHistory)

	// --- Student directory routes ---
	students := api.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)

		// POST aliases for clients that cannot send PUT or DELETE
		students.POST("/:id/update", studentController.UpdateStudent)
		students.POST("/:id/delete", studentController.DeleteStudent)
	}

	api.GET("/stats", studentController.GetStats)
}
