package main

import (
	"context"
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sharath018/temple-directory-backend/config"
	"github.com/sharath018/temple-directory-backend/database"
	"github.com/sharath018/temple-directory-backend/internal/auditlog"
	"github.com/sharath018/temple-directory-backend/internal/auth"
	"github.com/sharath018/temple-directory-backend/internal/notification"
	"github.com/sharath018/temple-directory-backend/internal/place"
	"github.com/sharath018/temple-directory-backend/internal/upload"
	"github.com/sharath018/temple-directory-backend/routes"
	"github.com/sharath018/temple-directory-backend/utils"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)

	if err := db.AutoMigrate(
		&auth.User{},
		&place.Place{},
		&auditlog.AuditLog{},
		&notification.Notification{},
	); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	if err := database.EnsureSearchIndexes(db); err != nil {
		log.Fatalf("❌ Search index setup failed: %v", err)
	}
	log.Println("✅ Database migrated")

	if err := utils.InitRedis(cfg); err != nil {
		log.Printf("⚠️ Redis unavailable, caching disabled: %v", err)
	}

	if err := auth.SeedAdminUser(db, cfg); err != nil {
		log.Fatalf("❌ Admin seed failed: %v", err)
	}

	var notifier place.Notifier
	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		producer := notification.NewProducer(brokers, cfg.KafkaTopic)
		defer producer.Close()
		notifier = producer

		consumer := notification.NewConsumer(brokers, cfg.KafkaTopic, "notification-writer", notification.NewRepository(db))
		defer consumer.Close()
		go consumer.Run(context.Background())
	} else {
		log.Println("⚠️ KAFKA_BROKERS not set, moderation notifications disabled")
	}

	var storage upload.Storage = upload.DisabledStorage{}
	if cfg.CloudinaryURL != "" {
		s, err := upload.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			log.Fatalf("❌ Cloudinary setup failed: %v", err)
		}
		storage = s
	} else {
		log.Println("⚠️ CLOUDINARY_URL not set, image uploads disabled")
	}

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	routes.Setup(r, routes.Deps{
		DB:       db,
		Cfg:      cfg,
		Notifier: notifier,
		Storage:  storage,
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Server exited: %v", err)
	}
}
