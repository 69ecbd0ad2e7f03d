// pagedump snapshots the raw source page to disk so a failing locator
// can be debugged against the exact markup the fetcher saw.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/collector"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/config"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/journal"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	jnl := journal.New(cfg.Output.JournalPath)
	jnl.Append("Starting diagnostic page dump")

	fetcher := collector.NewPageFetcher(time.Duration(cfg.Source.TimeoutSeconds) * time.Second)
	page, err := fetcher.Fetch(cfg.Source.URL)
	if err != nil {
		jnl.Append(fmt.Sprintf("FATAL: diagnostic fetch failed: %v", err))
		log.Fatalf("[FATAL] fetch %s: %v", cfg.Source.URL, err)
	}

	if err := os.WriteFile(cfg.Output.PageDumpPath, []byte(page), 0o644); err != nil {
		jnl.Append(fmt.Sprintf("FATAL: write page dump: %v", err))
		log.Fatalf("[FATAL] write %s: %v", cfg.Output.PageDumpPath, err)
	}

	jnl.Append(fmt.Sprintf("Saved page source to %s", cfg.Output.PageDumpPath))
	log.Printf("[INFO] page source saved to %s (%d bytes)", cfg.Output.PageDumpPath, len(page))
}
