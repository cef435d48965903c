package main

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/chanwit-mk/marketplace-backend/internal/cart"
	"github.com/chanwit-mk/marketplace-backend/internal/category"
	"github.com/chanwit-mk/marketplace-backend/internal/config"
	"github.com/chanwit-mk/marketplace-backend/internal/geo"
	"github.com/chanwit-mk/marketplace-backend/internal/item"
	"github.com/chanwit-mk/marketplace-backend/internal/merchantapp"
	"github.com/chanwit-mk/marketplace-backend/internal/order"
	"github.com/chanwit-mk/marketplace-backend/internal/payment"
	"github.com/chanwit-mk/marketplace-backend/internal/receipt"
	"github.com/chanwit-mk/marketplace-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	if err := migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	seed(db)

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger)

	// repositories and services
	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, cfg.JWTSecret)

	categoryRepo := category.NewPostgresRepository(db)
	categoryHandler := category.NewHandler(category.NewService(categoryRepo))

	geoRepo := geo.NewPostgresRepository(db)
	geoHandler := geo.NewHandler(geoRepo)

	itemService := item.NewService(item.NewPostgresRepository(db), categoryRepo)
	itemHandler := item.NewHandler(itemService)

	cartService := cart.NewService(cart.NewPostgresRepository(db), itemService)
	cartHandler := cart.NewHandler(cartService)

	orderService := order.NewService(order.NewPostgresRepository(db), geoRepo, itemService)
	orderHandler := order.NewHandler(orderService, cartService)

	mailer := receipt.NewHTTPMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	receiptHandler := receipt.NewHandler(receipt.NewService(orderService, mailer), cfg.Debug)

	paymentClient := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey)
	paymentHandler := payment.NewHandler(payment.NewService(orderService, paymentClient))

	appService := merchantapp.NewService(merchantapp.NewPostgresRepository(db), userService)
	appHandler := merchantapp.NewHandler(appService)

	// routes reachable without a token
	userHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	geoHandler.RegisterPublicRoutes(app)
	itemHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	// routes for any signed-in account
	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	receiptHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	appHandler.RegisterProtectedRoutes(app)

	// routes that additionally require an active mode
	merchantGuard := user.RequireMode(user.RoleMerchant)
	itemHandler.RegisterMerchantRoutes(app, merchantGuard)
	orderHandler.RegisterMerchantRoutes(app, merchantGuard)

	adminGuard := user.RequireMode(user.RoleAdmin)
	userHandler.RegisterAdminRoutes(app, adminGuard)
	appHandler.RegisterAdminRoutes(app, adminGuard)

	log.WithField("addr", cfg.Addr).Info("starting server")
	if err := app.Listen(cfg.Addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(url string) *sql.DB {
	if url == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		log.WithError(err).Fatal("could not open database")
	}
	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("could not reach database")
	}
	return db
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.WithFields(log.Fields{
		"method":   c.Method(),
		"path":     c.OriginalURL(),
		"status":   c.Response().StatusCode(),
		"duration": time.Since(start).String(),
	}).Info("request")
	return err
}
