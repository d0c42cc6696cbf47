package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"oncosurv/adapters/snapstore"
	"oncosurv/app"
	"oncosurv/internal/api"
	"oncosurv/internal/config"
	"oncosurv/ports"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatalBootstrap("load configuration", err)
	}

	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr"}
	log, err := logCfg.Build()
	if err != nil {
		fatalBootstrap("build logger", err)
	}
	defer log.Sync()

	store, closeStore, err := buildStore(cfg, log)
	if err != nil {
		log.Fatal("snapshot store unavailable", zap.Error(err))
	}
	defer closeStore()

	svc, err := app.LoadPredictionService(context.Background(), store, cfg.Snapshot.Name, log)
	if err != nil {
		log.Fatal("snapshot load failed, train a model first",
			zap.String("model", cfg.Snapshot.Name),
			zap.Error(err))
	}

	gin.SetMode(cfg.Server.GinMode)
	if err := api.NewServer(svc, log).Run(cfg.Server.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func buildStore(cfg *config.Config, log *zap.Logger) (ports.SnapshotStore, func(), error) {
	if cfg.Snapshot.Backend == "sql" {
		store, err := snapstore.NewSQLStore(cfg.Snapshot.Driver, cfg.Snapshot.DSN, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	store, err := snapstore.NewFileStore(cfg.Snapshot.Dir, log)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

func fatalBootstrap(stage string, err error) {
	os.Stderr.WriteString(stage + ": " + err.Error() + "\n")
	os.Exit(1)
}
