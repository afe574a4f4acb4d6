package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surface-inspector/config"
	telegram "surface-inspector/internal/api"
	"surface-inspector/internal/container"
	"surface-inspector/internal/httpserver"
	"surface-inspector/internal/infrastructure/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Журнал инспекций в SQLite
	inspectionRepo, err := storage.NewSQLiteInspectionRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open inspection database: %v", err)
	}
	defer inspectionRepo.Close()

	// Хранилище отчётов на диске
	reportStore, err := storage.NewFileReportStore(cfg.ReportsDir)
	if err != nil {
		log.Fatalf("Failed to create report store: %v", err)
	}

	// Состояния пользователей бота
	userRepo := storage.NewMemoryUserRepository()

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg, userRepo, inspectionRepo, reportStore)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}

	// HTTP-интерфейс
	srv := httpserver.New(cfg.HTTPAddr, appContainer.InspectionService, appContainer.ReportService, inspectionRepo)
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Telegram-бот запускается только при заданном токене
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.InspectionService)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}

		go func() {
			log.Println("Bot is running...")
			if err := bot.Run(); err != nil {
				log.Fatalf("Bot error: %v", err)
			}
		}()
	} else {
		log.Println("TELEGRAM_TOKEN is not set, bot is disabled")
	}

	// Ожидаем сигнал остановки
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	log.Println("Shutdown complete")
}
