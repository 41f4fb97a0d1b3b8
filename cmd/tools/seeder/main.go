package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"

	"github.com/quotedesk/backend-rfq/internal/config"
	"github.com/quotedesk/backend-rfq/internal/pricebook"
)

// Seeds the default pricebook into Redis. Run once against a fresh
// environment, or with -force to reset a drifted pricebook back to the
// factory defaults.
func main() {
	force := flag.Bool("force", false, "overwrite an existing pricebook")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.LoadRedisOnly()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := &pricebook.Store{Client: client}

	if !*force {
		exists, err := store.Exists(ctx)
		if err != nil {
			log.Fatalf("check pricebook: %v", err)
		}
		if exists {
			log.Println("pricebook already present, use -force to overwrite")
			return
		}
	}

	book := pricebook.Default()
	book.Currency = cfg.CurrencyCode
	if err := store.Save(ctx, book); err != nil {
		log.Fatalf("save pricebook: %v", err)
	}
	log.Printf("seeded pricebook with %d materials (%s)", len(book.Materials), book.Currency)
}
