package main // Entry point package

import (
	"log" // Logging library
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/paragraph-titler/internal/config" // Internal config loader
	"github.com/iliyamo/paragraph-titler/internal/database"
	"github.com/iliyamo/paragraph-titler/internal/handler"
	"github.com/iliyamo/paragraph-titler/internal/queue"
	"github.com/iliyamo/paragraph-titler/internal/repository"
	"github.com/iliyamo/paragraph-titler/internal/router" // Internal router setup
	queue_publisher "github.com/iliyamo/paragraph-titler/internal/service"
	"github.com/iliyamo/paragraph-titler/internal/titler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using environment variables")
	}

	cfg := config.Load() // Load environment config
	sumCfg := config.LoadSummarizerConfig()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the limiter and the title cache are
	// simply disabled.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and title cache disabled")
	}

	// The summarizer client is created once and shared read-only by all
	// requests; handlers receive it by injection rather than via a global.
	gen := titler.NewCachedClient(titler.NewClient(sumCfg), rdb, sumCfg.CacheTTL)

	users := repository.NewUserRepo(db)
	results := repository.NewResultRepo(db)

	health := handler.NewHealthHandler(db, gen)
	auth := handler.NewAuthHandler(cfg, users)
	titles := handler.NewTitleHandler(gen, results)
	titles.Publish = queue_publisher.PublishTitleGenerated
	saved := handler.NewResultsHandler(results)

	// Consume title.generated events in the background when a broker is
	// configured.  The consumer has its own reconnect loop.
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		go func() {
			if err := queue.StartTitleConsumer(); err != nil {
				log.Printf("title consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e, cfg, rlCfg, rdb, health, auth, titles, saved)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
