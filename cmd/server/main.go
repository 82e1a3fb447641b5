package main

import (
	"os"
	"strings"

	"barberflow_backend/internal/database"
	"barberflow_backend/internal/router"
	"barberflow_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Missing .env is fine, environment variables may be set directly.
	_ = godotenv.Load()

	utils.InitLogger()

	if err := database.InitDB(database.ConfigFromEnv()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	if utils.Getenv("GIN_MODE", "") == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	if originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS"); originsEnv != "" {
		corsConfig.AllowOrigins = strings.Split(originsEnv, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Barbershop-ID", "X-Request-ID"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	router.Setup(engine, database.GetDB())

	port := utils.Getenv("PORT", "8080")
	log.Info().Str("port", port).Msg("Server starting")

	if err := engine.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
