package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/judelaw007/connectbymanus-sub000/internal/api/handler"
	"github.com/judelaw007/connectbymanus-sub000/internal/config"
	"github.com/judelaw007/connectbymanus-sub000/internal/gateway"
	"github.com/judelaw007/connectbymanus-sub000/internal/models"
	"github.com/judelaw007/connectbymanus-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// Перевірка з'єднання Redis
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Міграції (Створення таблиць)
	err = db.AutoMigrate(
		&models.User{},
		&models.Channel{},
		&models.ChannelMembership{},
		&models.ChannelReadState{},
		&models.Message{},
		&models.SupportTicket{},
		&models.SupportMessage{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Connect Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	// 2. Ініціалізація шлюзу. Реєстр присутності створюється тут,
	// один раз на процес, та інжектується в Hub.
	presence := gateway.NewPresenceRegistry()
	hub := gateway.NewHub(s, presence)

	// 3. Запуск головного диспетчера
	go hub.Run()

	// 4. Налаштування Gin та роутингу
	r := gin.Default()
	h := handler.NewHandler(hub, s, cfg)

	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	r.GET("/ws", h.ServeWebSocket) // WebSocket Upgrade

	api := r.Group("/api", h.AuthRequired())
	{
		api.GET("/users/online", h.OnlineUsers)

		api.GET("/channels", h.ListChannels)
		api.GET("/channels/unread", h.UnreadCounts)
		api.GET("/channels/:id/messages", h.ChannelHistory)
		api.POST("/channels/:id/messages", h.SendMessage)
		api.POST("/channels/:id/read", h.MarkRead)

		api.POST("/support/tickets", h.CreateTicket)
		api.GET("/support/tickets", h.ListTickets)
		api.GET("/support/tickets/:id/messages", h.TicketMessages)
		api.POST("/support/tickets/:id/messages", h.ReplyTicket)
		api.PATCH("/support/tickets/:id/status", h.AdminRequired(), h.UpdateTicketStatus)
	}

	// Запуск HTTP-сервера
	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
