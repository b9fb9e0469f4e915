package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"salescrm/internal/config"
	"salescrm/internal/database"
	"salescrm/internal/domain"
	"salescrm/internal/domain/conversion"
	"salescrm/internal/domain/lead"
	"salescrm/internal/domain/points"
	"salescrm/internal/middleware"
	jwtsvc "salescrm/internal/pkg/jwt"
	"salescrm/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&domain.Tenant{},
		&domain.User{},
		&domain.Employee{},
		&domain.Campaign{},
		&domain.Product{},
		&domain.Category{},
		&domain.Interest{},
		&domain.Conversation{},
		&domain.Client{},
		&lead.Lead{},
		&lead.Assignment{},
		&conversion.ClientApprovalRequest{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	employeeRepo := repository.NewEmployeeRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	productRepo := repository.NewProductRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	clientRepo := repository.NewClientRepository(db)
	leadRepo := lead.NewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	pointsService := points.NewService(db)
	pointsHandler := points.NewHandler(pointsService)

	leadService := lead.NewService(db, leadRepo, employeeRepo, campaignRepo, productRepo, lookupRepo, conversationRepo, pointsService)
	leadHandler := lead.NewHandler(leadService)

	conversionService := conversion.NewService(db, leadRepo, productRepo, conversationRepo, clientRepo, pointsService)
	conversionHandler := conversion.NewHandler(conversionService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		protected.Use(middleware.SalesOnly())
		{
			lead.RegisterRoutes(protected, leadHandler)
			conversion.RegisterRoutes(protected, conversionHandler)
			points.RegisterRoutes(protected, pointsHandler)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
