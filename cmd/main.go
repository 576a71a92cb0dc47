package main

import (
	"backend/config"
	"backend/controllers"
	"backend/pkg/logger"
	"backend/routes"
	"backend/services"
	"backend/utils"
)

func main() {
	l := logger.New()
	l.Info("Starting SmartEato API...")

	cfg, err := config.Load()
	if err != nil {
		l.Fatalw("Failed to load config", "error", err)
	}

	// Photo uploads are optional; without S3 the workflow just skips them.
	if cfg.S3.Bucket != "" {
		if err := utils.InitS3(cfg.S3.Region); err != nil {
			l.Warnw("S3 unavailable, meal photos will not be stored", "error", err)
		}
	}

	sb := services.NewSupabaseClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	profileSvc := services.NewProfileService(sb, l)
	mealSvc := services.NewMealService(sb, profileSvc, l)
	analysisSvc := services.NewAnalysisService(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, l)
	workflowSvc := services.NewMealWorkflowService(analysisSvc, mealSvc, profileSvc, l)

	mealCtl := controllers.NewMealController(workflowSvc, l)
	profileCtl := controllers.NewProfileController(profileSvc, l)

	r := routes.SetupRouter(mealCtl, profileCtl, cfg.Supabase.JWTSecret)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		l.Fatalw("Server stopped", "error", err)
	}
}
