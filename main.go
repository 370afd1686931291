/*
Copyright © 2025 thiiagovboas
*/
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/thiiagovboas/eureca-assistant/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}
