package main // Entry point package

import (
    "context"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    _ "github.com/joho/godotenv/autoload" // load .env before config.Load runs

    "github.com/ematija/restaurant-reservation/internal/config"
    "github.com/ematija/restaurant-reservation/internal/database"
    "github.com/ematija/restaurant-reservation/internal/handler"
    "github.com/ematija/restaurant-reservation/internal/logger"
    "github.com/ematija/restaurant-reservation/internal/mailer"
    "github.com/ematija/restaurant-reservation/internal/queue"
    "github.com/ematija/restaurant-reservation/internal/reminder"
    "github.com/ematija/restaurant-reservation/internal/repository"
    "github.com/ematija/restaurant-reservation/internal/router"
    "github.com/ematija/restaurant-reservation/internal/signing"
)

func main() {
    cfg := config.Load()
    log := logger.New(cfg.Env)
    defer func() { _ = log.Sync() }()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatal("database connection failed", zap.Error(err))
    }
    defer func() { _ = db.Close() }()

    // Repositories.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    restaurants := repository.NewRestaurantRepo(db)
    bookings := repository.NewBookingRepo(db)
    closedDates := repository.NewClosedDateRepo(db)
    tables := repository.NewTableRepo(db)

    signer := signing.NewSigner(cfg.JWTSecret)

    // Redis backs rate limiting and the public browse cache; both fail
    // open when it is unreachable.
    rdb := config.NewRedisClient()
    rlCfg := config.LoadRateLimitConfig()
    cacheCfg := config.LoadCacheConfig()

    // Handlers.
    authH := handler.NewAuthHandler(cfg, users, tokens)
    bookingH := handler.NewBookingHandler(cfg, bookings, restaurants, closedDates, tables, signer)
    restaurantH := handler.NewRestaurantHandler(restaurants, closedDates, tables)
    publicH := &handler.PublicHandler{Restaurants: restaurants}
    adminH := &handler.AdminHandler{Restaurants: restaurants}

    e := echo.New()
    e.HideBanner = true
    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, publicH, cacheCfg, rdb)
    router.RegisterBookings(e, bookingH, cfg.JWTSecret, rlCfg, rdb)
    router.RegisterOwner(e, restaurantH, cfg.JWTSecret)
    router.RegisterAdmin(e, adminH, cfg.JWTSecret)

    // Notification consumer: drains booking.notify and sends mail.
    sender := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
    go func() {
        if err := queue.StartNotificationConsumer(log, sender); err != nil {
            log.Error("notification consumer stopped", zap.Error(err))
        }
    }()

    // Daily reminder batch for tomorrow's bookings.
    sched := reminder.NewScheduler(bookings, cfg.BaseURL, cfg.ReminderHour, log)
    sched.Start(context.Background())
    defer sched.Stop()

    addr := ":" + cfg.Port
    log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
    if err := e.Start(addr); err != nil {
        log.Fatal("server stopped", zap.Error(err))
    }
}
