package main

import (
	"SwiftShare/config"
	"SwiftShare/internal/repo"
	"SwiftShare/internal/service"
	"SwiftShare/internal/storage"
	"SwiftShare/internal/task"
	"SwiftShare/router"
	"context"
	"log"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()

	// Expired files are handed to the reclaim queue; the sweep covers any
	// notification the queue drops.
	repo.FileExpiredHook = task.PublishReclaim

	ctx := context.Background()
	if err := repo.EnableKeyspaceNotifications(ctx); err != nil {
		log.Printf("enable redis keyspace notifications failed: %v", err)
	} else {
		ready := make(chan struct{})
		go repo.ListenRedisExpired(ctx, repo.Redis, ready)
		<-ready
	}

	go service.RunSweeper(ctx)

	router := router.InitRouter()

	router.Run(":8000")
}
