// Command server loads the routing grid from Postgres and serves it over
// HTTP, wiring internal/store, internal/graphbuild, internal/engine, and
// internal/api together: a pgx connection pool, a model loader, the graph
// builder, the engine, and the chi router.
package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antigravity/gridrail/internal/api"
	"github.com/antigravity/gridrail/internal/config"
	"github.com/antigravity/gridrail/internal/engine"
	"github.com/antigravity/gridrail/internal/graphbuild"
	"github.com/antigravity/gridrail/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatal("unable to parse DB URL: ", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatal("unable to create connection pool: ", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("unable to connect to database: ", err)
	}
	log.Println("connected to database")

	loader := store.NewLoader(pool)
	model, err := loader.LoadModel(context.Background())
	if err != nil {
		log.Fatal("failed to load grid model: ", err)
	}

	graph, err := graphbuild.Build(model)
	if err != nil {
		log.Fatal("failed to build graph: ", err)
	}

	eng := engine.New(graph)
	eng.Limits = cfg.Limits.Apply(eng.Limits)

	requestTimeout := time.Duration(cfg.Server.RequestTimeout) * time.Second
	router := api.NewRouter(eng, requestTimeout)

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	log.Printf("server starting on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}
