package main

import (
	"log"

	"exam-authoring-backend/internal/config"
	"exam-authoring-backend/internal/database"
	"exam-authoring-backend/internal/handlers"
	"exam-authoring-backend/internal/middleware"
	"exam-authoring-backend/internal/services"
	"exam-authoring-backend/internal/ws"

	_ "exam-authoring-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Exam Authoring API
// @version         1.0
// @description     Authoring gateway for the exam-practice platform: drafts, tree mutations, validation, CSV import and upstream sync
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
	draftService := services.NewDraftService(db)

	authHandler := handlers.NewAuthHandler(authService)
	settingsHandler := handlers.NewSettingsHandler(db, cfg.UpstreamBaseURL)
	draftHandler := handlers.NewDraftHandler(draftService, authService, cfg.UpstreamBaseURL, cfg.UploadDir)
	sectionHandler := handlers.NewSectionHandler(draftService, authService, cfg.UpstreamBaseURL)
	questionHandler := handlers.NewQuestionHandler(draftService, authService, cfg.UpstreamBaseURL, cfg.UploadDir)
	optionHandler := handlers.NewOptionHandler(draftService, authService, cfg.UpstreamBaseURL, cfg.UploadDir)
	importHandler := handlers.NewImportHandler(draftService)
	submitHandler := handlers.NewSubmitHandler(draftService, authService, cfg.UpstreamBaseURL, hub)
	taxonomyHandler := handlers.NewTaxonomyHandler(authService, cfg.UpstreamBaseURL)
	wsHandler := handlers.NewWSHandler(hub, draftService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Static("/uploads", cfg.UploadDir)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/drafts/:id", middleware.WSAuth(authService), wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		settings := api.Group("/settings")
		settings.Use(middleware.JWTAuth(authService))
		{
			settings.GET("", settingsHandler.GetSettings)
			settings.PUT("", settingsHandler.UpdateSettings)
		}

		drafts := api.Group("/drafts")
		drafts.Use(middleware.JWTAuth(authService))
		{
			drafts.GET("", draftHandler.ListDrafts)
			drafts.POST("", draftHandler.CreateDraft)
			drafts.POST("/import-exam", draftHandler.ImportExam)
			drafts.GET("/:id", draftHandler.GetDraft)
			drafts.DELETE("/:id", draftHandler.DeleteDraft)
			drafts.PUT("/:id/meta", draftHandler.UpdateMeta)
			drafts.POST("/:id/banner", draftHandler.AttachBanner)
			drafts.DELETE("/:id/banner", draftHandler.ClearBanner)
			drafts.GET("/:id/validate", draftHandler.ValidateDraft)
			drafts.POST("/:id/import", importHandler.ImportCSV)
			drafts.POST("/:id/submit", submitHandler.SubmitDraft)

			drafts.POST("/:id/sections", sectionHandler.AddSection)
			drafts.PUT("/:id/sections/:key", sectionHandler.UpdateSection)
			drafts.DELETE("/:id/sections/:key", sectionHandler.RemoveSection)

			drafts.POST("/:id/sections/:key/questions", questionHandler.AddQuestion)
			drafts.PUT("/:id/sections/:key/questions/:qkey", questionHandler.UpdateQuestion)
			drafts.DELETE("/:id/sections/:key/questions/:qkey", questionHandler.RemoveQuestion)
			drafts.PUT("/:id/sections/:key/questions/:qkey/correct", questionHandler.SetCorrectAnswer)
			drafts.POST("/:id/sections/:key/questions/:qkey/ignore-image", questionHandler.IgnoreImageRequirement)
			drafts.POST("/:id/sections/:key/questions/:qkey/image", questionHandler.AttachQuestionImage)
			drafts.DELETE("/:id/sections/:key/questions/:qkey/image", questionHandler.ClearQuestionImage)

			drafts.POST("/:id/sections/:key/questions/:qkey/options", optionHandler.AddOption)
			drafts.PUT("/:id/sections/:key/questions/:qkey/options/:okey", optionHandler.UpdateOption)
			drafts.DELETE("/:id/sections/:key/questions/:qkey/options/:okey", optionHandler.RemoveOption)
			drafts.POST("/:id/sections/:key/questions/:qkey/options/:okey/image", optionHandler.AttachOptionImage)
			drafts.DELETE("/:id/sections/:key/questions/:qkey/options/:okey/image", optionHandler.ClearOptionImage)
		}

		taxonomy := api.Group("/taxonomy")
		taxonomy.Use(middleware.JWTAuth(authService))
		{
			taxonomy.GET("/categories", taxonomyHandler.ListCategories)
			taxonomy.GET("/subcategories", taxonomyHandler.ListSubcategories)
			taxonomy.GET("/difficulties", taxonomyHandler.ListDifficulties)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
