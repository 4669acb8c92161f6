package main

import (
	"log"

	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/models"
	"github.com/laundryin-id/laundryin-api/services"
)

func main() {
	log.Println("Starting LaundryIn API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Shop{},
		&models.Service{},
		&models.Order{},
		&models.Notification{},
		&models.ShopDailyStat{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Image storage: optional in development, required for uploads to work
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, image uploads disabled")
	}

	// Change feed: broker-backed when AMQP_URL is set, in-process otherwise
	if cfg.AMQPURL != "" {
		feed, err := services.NewAMQPFeed(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("Failed to connect to message broker: %v", err)
		}
		defer feed.Close()
		services.SetFeed(feed)
		log.Println("Change feed connected to message broker")
	} else {
		services.SetFeed(services.NewMemoryFeed())
		log.Println("AMQP_URL not set, using in-process change feed")
	}

	// Nightly revenue rollup
	rollup := services.NewRollupService(db)
	if err := rollup.Start(); err != nil {
		log.Fatalf("Failed to start rollup job: %v", err)
	}
	defer rollup.Stop()

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
