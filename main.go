package main

import (
	"log"
	"os"

	"healthsync/configuration"
	"healthsync/routes"
	"healthsync/seed"
)

func Init() {
	configuration.LoadEnv()
	configuration.ConfigDB()
	configuration.InitRedis()

	if os.Getenv("SEED") == "true" {
		if err := seed.Run(configuration.DB); err != nil {
			log.Fatal("Failed to seed database: ", err)
		}
	}
}

func main() {
	// Perform application initialization
	Init()
	r := routes.SetupRoutes()

	// Run the engine in default port
	if err := r.Run(); err != nil {
		panic(err)
	}
}
