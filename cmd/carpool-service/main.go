package main

import (
	"fmt"
	"os"

	"github.com/linchh/campus-carpool/internal/auth"
	"github.com/linchh/campus-carpool/internal/config"
	"github.com/linchh/campus-carpool/internal/db"
	"github.com/linchh/campus-carpool/internal/excel"
	httphandler "github.com/linchh/campus-carpool/internal/http"
	"github.com/linchh/campus-carpool/internal/http/middleware"
	"github.com/linchh/campus-carpool/internal/logger"
	"github.com/linchh/campus-carpool/internal/pdf"
	"github.com/linchh/campus-carpool/internal/repository"
	"github.com/linchh/campus-carpool/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	userRepo := repository.NewUserRepository(database)
	carpoolRepo := repository.NewCarpoolRepository(database)
	fareRepo := repository.NewFareRepository(database)
	reviewRepo := repository.NewReviewRepository(database)

	pdfGenerator := pdf.NewGenerator()
	excelGenerator := excel.NewGenerator()

	tokens := auth.NewManager(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)

	accountService := service.NewAccountService(userRepo, tokens)
	carpoolService := service.NewCarpoolService(carpoolRepo, userRepo, fareRepo, excelGenerator, cfg)
	fareService := service.NewFareService(fareRepo, pdfGenerator)
	reviewService := service.NewReviewService(reviewRepo, carpoolRepo, userRepo)

	handler := httphandler.NewHandler(accountService, carpoolService, fareService, reviewService, log)
	authMiddleware := middleware.Auth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)
	router := httphandler.NewRouter(handler, authMiddleware, optionalAuth, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting carpool service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
