package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"handyconnect/internal/config"
	"handyconnect/internal/database"
	"handyconnect/internal/middleware"
	"handyconnect/internal/modules/admin"
	"handyconnect/internal/modules/auth"
	"handyconnect/internal/modules/booking"
	"handyconnect/internal/modules/upload"
	jwtsvc "handyconnect/internal/pkg/jwt"
	"handyconnect/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	customerRepo := repository.NewCustomerRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	if cfg.CloudinaryURL == "" {
		log.Fatal("CLOUDINARY_URL is empty")
	}
	storage, err := upload.NewCloudinaryStorage(cfg.CloudinaryURL)
	if err != nil {
		log.Fatal(err)
	}

	authService := auth.NewService(customerRepo, workerRepo, adminRepo, j)
	authHandler := auth.NewHandler(authService, storage)

	adminService := admin.NewService(workerRepo, adminRepo, bookingRepo)
	adminHandler := admin.NewHandler(adminService)

	bookingService := booking.NewService(bookingRepo)
	bookingHandler := booking.NewHandler(bookingService)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorLogger())

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterPublicRoutes(api)

		// customer-token routes
		customerGroup := api.Group("")
		customerGroup.Use(middleware.RequireAuth(j, jwtsvc.KindCustomer))
		{
			authHandler.RegisterCustomerRoutes(customerGroup)
			bookingHandler.RegisterCustomerRoutes(customerGroup)
		}

		// worker-token routes
		workerGroup := api.Group("")
		workerGroup.Use(middleware.RequireAuth(j, jwtsvc.KindWorker))
		{
			authHandler.RegisterWorkerRoutes(workerGroup)
			bookingHandler.RegisterWorkerRoutes(workerGroup)
		}

		// admin-token routes
		adminGroup := api.Group("/admin")
		adminGroup.Use(middleware.RequireAuth(j, jwtsvc.KindAdmin))
		{
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
