package routes

import (
	"backend/controllers"
	"backend/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	mealCtl *controllers.MealController,
	profileCtl *controllers.ProfileController,
	jwtSecret string,
) *gin.Engine {
	r := gin.Default()

	r.GET("/api/info", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":        "SmartEato API",
			"version":     "1.0.0",
			"description": "Calorie tracking AI agentic app",
			"status":      "Running",
		})
	})

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		api.POST("/meals", mealCtl.LogMeal)
		api.DELETE("/meals/:mealId", mealCtl.DeleteMeal)
		api.GET("/meals/daily-summary", mealCtl.GetDailySummary)

		api.POST("/profile", profileCtl.CreateProfile)
		api.GET("/profile", profileCtl.GetProfile)
		api.PUT("/profile", profileCtl.UpdateProfile)
	}

	return r
}
