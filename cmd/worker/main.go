package main

import (
	"SwiftShare/config"
	"SwiftShare/internal/repo"
	"SwiftShare/internal/storage"
	"SwiftShare/internal/worker"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("reclaim worker started")
	if err := worker.RunReclaimWorker(ctx); err != nil {
		log.Fatalf("reclaim worker stopped: %v", err)
	}
}
