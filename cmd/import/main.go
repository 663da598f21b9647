// Command import loads users from a remote JSON document:
//
//	import <url> <limit>
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/emilythestrangee/favorly/backend/internal/config"
	"github.com/emilythestrangee/favorly/backend/internal/database"
	"github.com/emilythestrangee/favorly/backend/internal/importer"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s <url> <limit>", os.Args[0])
	}
	url := os.Args[1]
	limit, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatalf("invalid limit %q: %v", os.Args[2], err)
	}
	if limit < 0 {
		log.Fatalf("limit must be non-negative, got %d", limit)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbService := database.New(cfg)
	defer dbService.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Printf("Importing users from %s", url)

	users, err := importer.Fetch(ctx, http.DefaultClient, url, limit)
	if err != nil {
		log.Fatalf("Failed to fetch users: %v", err)
	}
	log.Printf("Importing %d users", len(users))

	rows, err := importer.Prepare(users)
	if err != nil {
		log.Fatalf("Failed to prepare users: %v", err)
	}

	count, err := importer.Insert(dbService.GetDB(), rows)
	if err != nil {
		log.Fatalf("Failed to insert users: %v", err)
	}

	log.Printf("Imported %d users", count)
}
