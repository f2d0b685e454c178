package main

import (
	"fmt"
	"log"

	"roleadmin/internal/bootstrap"
	"roleadmin/internal/config"
	"roleadmin/internal/database"
	"roleadmin/internal/identity"
	"roleadmin/internal/server"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}

	svc := identity.New(db, cfg.BcryptCost)

	if err := bootstrap.Run(db, svc); err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	r := server.NewRouter(cfg, db, svc)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
