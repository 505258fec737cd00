package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"schoolhub/internal/config"
	"schoolhub/internal/database"
	"schoolhub/internal/middleware"
	"schoolhub/internal/modules/auth"
	"schoolhub/internal/modules/classroom"
	"schoolhub/internal/modules/school"
	"schoolhub/internal/modules/student"
	"schoolhub/internal/modules/user"
	"schoolhub/internal/pkg/audit"
	"schoolhub/internal/pkg/logger"
	"schoolhub/internal/pkg/token"
	"schoolhub/internal/repository"
	"schoolhub/internal/session"
)

func main() {
	// Missing .env is fine; the environment may be set by the runtime.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := session.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	cancel()
	if err != nil {
		zlog.Fatal("redis connect failed", zap.Error(err))
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	tokens := token.NewManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	sessions := session.NewRedisStore(redisClient)
	auditor := audit.NewEmitter(zlog)
	defer auditor.Close()

	authService := auth.NewService(userRepo, sessions, tokens)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userRepo, schoolRepo, sessions, auditor)
	userHandler := user.NewHandler(userService)

	schoolService := school.NewService(schoolRepo, userRepo, classroomRepo, studentRepo, sessions, auditor)
	schoolHandler := school.NewHandler(schoolService)

	classroomService := classroom.NewService(classroomRepo, schoolRepo, studentRepo)
	classroomHandler := classroom.NewHandler(classroomService)

	studentService := student.NewService(studentRepo, classroomRepo, userRepo)
	studentHandler := student.NewHandler(studentService)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(zlog))
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.CORS())

	// Public authentication endpoints.
	authHandler.RegisterPublicRoutes(&r.RouterGroup)

	// Logout needs identity but no permission-table check.
	authenticated := r.Group("/auth")
	authenticated.Use(middleware.Authenticate(tokens, userRepo))
	{
		authHandler.RegisterProtectedRoutes(authenticated)
	}

	// Everything under /api goes through the full authorization gate.
	api := r.Group("/api")
	api.Use(middleware.Authorize(tokens, userRepo))
	{
		userHandler.RegisterRoutes(api)
		schoolHandler.RegisterRoutes(api)
		classroomHandler.RegisterRoutes(api)
		studentHandler.RegisterRoutes(api)
	}

	zlog.Info("listening", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
