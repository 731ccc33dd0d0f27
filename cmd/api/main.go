package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mhnazari/zarshop-golang/internal/cart"
	"github.com/mhnazari/zarshop-golang/internal/coupons"
	"github.com/mhnazari/zarshop-golang/internal/database"
	"github.com/mhnazari/zarshop-golang/internal/handlers"
	"github.com/mhnazari/zarshop-golang/internal/rates"
	"github.com/mhnazari/zarshop-golang/internal/routes"
)

func main() {
	// --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// --- Services ---
	rateStore := rates.NewStore(db)
	market := rates.NewMarketClient(os.Getenv("BRS_API_KEY"))

	// Warm the rate cache; a failure here is not fatal, the cache fills
	// on the first successful fetch.
	if _, err := rateStore.FetchRates(); err != nil {
		log.Printf("WARNING: initial rate fetch failed: %v", err)
	}

	app := &handlers.Handlers{
		DB:      db,
		Rates:   rateStore,
		Market:  market,
		Coupons: coupons.NewService(db),
		Carts:   cart.NewRegistry(),
	}

	// --- Background Worker: live rate sync ---
	// Periodically pulls market quotes and pushes rate changes into
	// product prices. Interval in minutes via RATE_SYNC_MINUTES, 0
	// disables the worker.
	syncMinutes, _ := strconv.Atoi(os.Getenv("RATE_SYNC_MINUTES"))
	if syncMinutes > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(syncMinutes) * time.Minute)
			defer ticker.Stop()

			log.Printf("Background worker started: syncing live rates every %d minutes", syncMinutes)

			for range ticker.C {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				updated, err := rateStore.SyncLiveRates(ctx, market)
				cancel()
				if err != nil {
					log.Printf("Live rate sync failed: %v", err)
					continue
				}
				log.Printf("Live rate sync finished: %d rates updated", updated)
			}
		}()
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting ZarShop API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
