package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sprint-review.backend/internal/interfaces/http/handlers"
	"sprint-review.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	teamHandler    *handlers.TeamHandler
	studentHandler *handlers.StudentHandler
	reviewHandler  *handlers.ReviewHandler
	sprintHandler  *handlers.SprintHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	v1.Use(d.authMiddleware)

	// Roster administration (professors)
	prof := v1.Group("", middleware.RequireProfessor())
	{
		prof.POST("/teams/roster", d.teamHandler.ImportRoster)
		prof.GET("/teams", d.teamHandler.SearchTeams)
		prof.GET("/teams/:teamId", d.teamHandler.GetTeam)

		prof.POST("/students", d.studentHandler.AddStudent)
		prof.GET("/students", d.studentHandler.SearchStudents)
		prof.DELETE("/students/:computingId", d.studentHandler.RemoveStudent)
	}

	// Student self-service; handlers check self-or-professor
	students := v1.Group("/students")
	{
		students.GET("/:computingId", d.studentHandler.GetStudent)
		students.POST("/:computingId/link", d.studentHandler.LinkAccount)
		students.GET("/:computingId/progress", d.studentHandler.GetSprintProgress)
	}

	v1.POST("/reviews", d.reviewHandler.SubmitReview)

	sprints := v1.Group("/sprints")
	{
		sprints.GET("", d.sprintHandler.ListSprints)
		sprints.GET("/:sprintId", d.sprintHandler.GetSprint)
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "sprint-review-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
