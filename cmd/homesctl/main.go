// Command homesctl holds operator chores for the homes API: minting
// bearer tokens, flushing cached homes and building the Mongo indexes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/billow-homes/homes-api/cache"
	"github.com/billow-homes/homes-api/config"
	"github.com/billow-homes/homes-api/store"
	"github.com/billow-homes/homes-api/utils"
)

const usage = `usage: homesctl <command> [flags]

commands:
  token           print a bearer token signed with JWT_KEY
  flush-cache     delete every cached home from Redis
  ensure-indexes  create the homes text and street indexes
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "token":
		err = runToken(cfg, args)
	case "flush-cache":
		err = runFlushCache(ctx, cfg)
	case "ensure-indexes":
		err = runEnsureIndexes(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func runToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	user := fs.String("user", "", "user id to embed in the token")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return fmt.Errorf("-user is required")
	}

	token, err := utils.GenerateJWT([]byte(cfg.JWTKey), *user, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func runFlushCache(ctx context.Context, cfg *config.Config) error {
	if cfg.Cache.Backend != config.CacheRedis {
		return fmt.Errorf("cache backend is %q, nothing shared to flush", cfg.Cache.Backend)
	}
	client, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	n, err := cache.NewRedisCache(client).DeleteByPattern(ctx, cache.HomeKey("*"))
	if err != nil {
		return err
	}
	log.Printf("Flushed %d cached homes", n)
	return nil
}

func runEnsureIndexes(ctx context.Context, cfg *config.Config) error {
	client, err := config.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer config.CloseDBConnection(context.Background(), client)

	if err := store.NewHomeStore(client.Database(cfg.DB), cfg.MatchPolicy).EnsureIndexes(ctx); err != nil {
		return err
	}
	log.Printf("Indexes ready on %s.%s", cfg.DB, store.HomesCollection)
	return nil
}
