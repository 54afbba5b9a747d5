package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cafepos/internal/config"
	"cafepos/internal/format"
	"cafepos/internal/handlers"
	"cafepos/internal/logger"
	"cafepos/internal/middleware"
	"cafepos/internal/models"
	"cafepos/internal/pos"
	"cafepos/internal/repositories"
	"cafepos/internal/services"
	"cafepos/pkg/rabbitmq"
)

func main() {
	configPath := os.Getenv("CAFEPOS_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Pretty)

	app, cleanup, err := NewApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}
	defer cleanup()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.App.Port).Str("driver", cfg.Database.Driver).Msg("starting server")
		if err := app.Listen(cfg.App.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// store bundles the repositories of one persistence backend.
type store struct {
	products   repositories.ProductRepository
	orders     repositories.OrderRepository
	users      repositories.UserRepository
	tables     repositories.TableRepository
	promotions repositories.PromotionRepository
	customers  repositories.CustomerRepository
}

func openStore(cfg *config.Config, log zerolog.Logger) (*store, error) {
	if cfg.Database.Driver == "memory" {
		return &store{
			products:   repositories.NewMemoryProductRepository(),
			orders:     repositories.NewMemoryOrderRepository(),
			users:      repositories.NewMemoryUserRepository(),
			tables:     repositories.NewMemoryTableRepository(),
			promotions: repositories.NewMemoryPromotionRepository(),
			customers:  repositories.NewMemoryCustomerRepository(),
		}, nil
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		dialector = sqlite.Open(cfg.Database.DSN)
	}
	level := gormlogger.Silent
	if log.GetLevel() <= zerolog.DebugLevel {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Database.Driver, err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.Table{}, &models.Order{}, &models.OrderDetail{},
		&models.Promotion{}, &models.Customer{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return &store{
		products:   repositories.NewGORMProductRepository(db),
		orders:     repositories.NewGORMOrderRepository(db),
		users:      repositories.NewGORMUserRepository(db),
		tables:     repositories.NewGORMTableRepository(db),
		promotions: repositories.NewGORMPromotionRepository(db),
		customers:  repositories.NewGORMCustomerRepository(db),
	}, nil
}

// NewApp wires repositories, services and handlers into a fiber app. The
// returned cleanup closes broker and cache connections.
func NewApp(cfg *config.Config, log zerolog.Logger) (*fiber.App, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn().Err(err).Msg("error during cleanup")
			}
		}
	}

	st, err := openStore(cfg, log)
	if err != nil {
		return nil, cleanup, err
	}
	seedMenu(st.products, log)
	seedTables(st.tables, log)

	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQ.Enabled {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, log)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, mqClient.Close)
		publisher = mqClient
	}

	var carts repositories.CartStore = repositories.NewMemoryCartStore()
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		closers = append(closers, client.Close)
		carts = repositories.NewRedisCartStore(client, cfg.Redis.CartTTL)
	}

	lifecycle := pos.NewLifecycle(pos.Options{TaxPercent: decimal.NewFromFloat(cfg.Pricing.TaxPercent)})

	productService := services.NewProductService(st.products)
	tableService := services.NewTableService(st.tables)
	orderService := services.NewOrderService(st.orders, st.products, st.tables, lifecycle, publisher, log)
	customerService := services.NewCustomerService(st.customers, log)
	paymentService := services.NewPaymentService(orderService, customerService)
	promotionService := services.NewPromotionService(st.promotions, orderService, log)
	receiptService := services.NewReceiptService(orderService, cfg.Receipt.ShopName)
	cartService := services.NewCartService(carts, st.products, orderService, log)
	reportService := services.NewReportService(st.orders)
	authService := services.NewAuthService(st.users, cfg.JWT.Secret, cfg.JWT.TokenTTL, log)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: os.Stdout}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"time":        time.Now().Format(time.RFC3339),
			"database":    cfg.Database.Driver,
			"rabbitmq":    mqClient != nil,
			"redis":       cfg.Redis.Enabled,
			"tax_percent": format.Percent(lifecycle.TaxPercent()),
		})
	})

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, log).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService, log))
	handlers.NewProductHandler(productService, log).RegisterRoutes(protected)
	handlers.NewTableHandler(tableService, log).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService, paymentService, log).RegisterRoutes(protected)
	handlers.NewPaymentHandler(paymentService, log).RegisterRoutes(protected)
	handlers.NewCartHandler(cartService, log).RegisterRoutes(protected)
	handlers.NewCustomerHandler(customerService, log).RegisterRoutes(protected)
	handlers.NewReceiptHandler(receiptService, log).RegisterRoutes(protected)
	managers := middleware.RequireRole(models.RoleAdmin, models.RoleManager)
	handlers.NewPromotionHandler(promotionService, log).RegisterRoutes(protected, managers)
	handlers.NewReportHandler(reportService, log).RegisterRoutes(protected, managers)

	if mqClient != nil {
		if err := mqClient.ConsumeOrderEvents(handleOrderEvent(log)); err != nil {
			log.Error().Err(err).Msg("failed to start RabbitMQ consumer")
		}
	}

	return app, cleanup, nil
}

// handleOrderEvent feeds the bar ticket log from the event queue.
func handleOrderEvent(log zerolog.Logger) func(msg amqp.Delivery) error {
	log = log.With().Str("component", "order_events").Logger()
	return func(msg amqp.Delivery) error {
		var event services.OrderEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", msg.Type, err)
		}
		ev := log.Info()
		if msg.Type == services.EventOrderStatusChanged && event.OrderStatus == models.OrderStatusPreparing {
			ev = ev.Bool("bar_ticket", true)
		}
		ev.Str("type", msg.Type).
			Str("order_number", event.OrderNumber).
			Str("table_id", event.TableID).
			Str("status", string(event.OrderStatus)).
			Str("payment", string(event.PaymentStatus)).
			Str("final_amount", event.FinalAmount.String()).
			Msg("order event")
		return nil
	}
}
