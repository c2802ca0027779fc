package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/rsconstruction/constructhub-api/cmd/app"
)

// @contact.name   RS Construction Shop
// @contact.email  support@rsconstruction.shop
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
