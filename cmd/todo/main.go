package main

import (
	"log"
	"os"

	"github.com/taskmaster/todo/cmd/todo/commands"
)

// @title Todo API
// @version 1.0
// @description Local single-user task tracker

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
