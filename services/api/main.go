package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/config"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/db"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/feed"
	httpserver "github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/http"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loader := pipeline.Loader{
		EC:     feed.FileSource{Path: cfg.ECFeedPath},
		PH:     feed.FileSource{Path: cfg.PHFeedPath},
		Parser: cfg.Parser(),
	}

	if cfg.UseDatabase() {
		store, err := db.New(ctx, cfg.FeedDatabaseURL)
		if err != nil {
			log.Fatalf("db connection error: %v", err)
		}
		defer store.Close()

		loader.EC = db.TableSource{Store: store, Table: cfg.ECFeedTable, Columns: db.ECColumns}
		loader.PH = db.TableSource{Store: store, Table: cfg.PHFeedTable, Columns: db.PHColumns}
		log.Printf("reading feeds from database tables %s, %s", cfg.ECFeedTable, cfg.PHFeedTable)
	}

	data := pipeline.NewHolder(loader.Load(ctx))

	srv := httpserver.New(cfg, data, loader)
	log.Printf("REST API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
