package main

import (
	"context"
	"log"

	"dancestudio/internal/config"
	"dancestudio/internal/database"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/logger"
	"dancestudio/internal/repository"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "dancestudio-seed")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate database", zap.Error(err))
	}

	repos := repository.NewRepositories(db, nil)
	s := &seeder{
		repos:      repos,
		coord:      mutation.New(db, repos),
		log:        zl,
		bcryptCost: cfg.BcryptCost,
	}
	if err := s.run(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		zl.Fatal("seed", zap.Error(err))
	}
	zl.Info("seed complete")
}
