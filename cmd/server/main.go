package main

import (
	"log"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/config"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/database"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/handlers"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/middleware"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/services"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/ws"

	_ "github.com/Abiraj-Jatheeskumar/Questify-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Questify API
// @version         1.0
// @description     Classroom quiz platform with per-student assignments, single-attempt scoring and live progress tracking
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	sessionService := services.NewSessionService(db)
	responseService := services.NewResponseService(db, sessionService)
	questionService := services.NewQuestionService(db)
	assignmentService := services.NewAssignmentService(db)
	rosterService := services.NewRosterService(db)
	progressService := services.NewProgressService(db, sessionService)
	leaderboardService := services.NewLeaderboardService(db)
	engagementService := services.NewEngagementService()
	viewService := services.NewStudentViewService(db, assignmentService, sessionService)

	authHandler := handlers.NewAuthHandler(authService)
	studentHandler := handlers.NewStudentHandler(responseService, viewService, rosterService, hub)
	adminHandler := handlers.NewAdminHandler(rosterService, questionService, assignmentService, progressService, responseService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	exportHandler := handlers.NewExportHandler(responseService, assignmentService, rosterService, engagementService)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/assignments/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/students", adminHandler.CreateStudent)
			admin.GET("/students", adminHandler.ListStudents)
			admin.GET("/students/:id", adminHandler.GetStudent)
			admin.PUT("/students/:id", adminHandler.UpdateStudent)
			admin.DELETE("/students/:id", adminHandler.DeleteStudent)

			admin.POST("/classes", adminHandler.CreateClass)
			admin.GET("/classes", adminHandler.ListClasses)
			admin.GET("/classes/:id", adminHandler.GetClass)
			admin.DELETE("/classes/:id", adminHandler.DeleteClass)
			admin.DELETE("/classes/:id/students/:studentId", adminHandler.RemoveStudentFromClass)

			admin.POST("/questions", adminHandler.CreateQuestion)
			admin.GET("/questions", adminHandler.ListQuestions)
			admin.GET("/questions/:id", adminHandler.GetQuestion)
			admin.PUT("/questions/:id", adminHandler.UpdateQuestion)
			admin.DELETE("/questions/:id", adminHandler.DeleteQuestion)

			admin.POST("/assignments", adminHandler.AssignQuestions)
			admin.GET("/assignments", adminHandler.ListAssignments)
			admin.POST("/assignments/:id/deactivate", adminHandler.DeactivateAssignment)
			admin.DELETE("/assignments/:id", adminHandler.DeleteAssignment)
			admin.GET("/assignments/:id/live-progress", adminHandler.GetLiveProgress)
			admin.GET("/assignments/:id/non-participants", adminHandler.GetNonParticipants)
			admin.GET("/assignments/:id/export", exportHandler.ExportResponses)

			admin.GET("/responses", adminHandler.ListResponses)
		}

		students := api.Group("/students")
		students.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleStudent))
		{
			students.POST("/submit-answer", studentHandler.SubmitAnswer)
			students.GET("/assigned-questions", studentHandler.GetAssignedQuestions)
			students.GET("/my-responses", studentHandler.GetMyResponses)
			students.PATCH("/response/:id/network-metrics", studentHandler.UpdateNetworkMetrics)
		}

		api.GET("/leaderboard", middleware.JWTAuth(authService), leaderboardHandler.GetLeaderboard)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
