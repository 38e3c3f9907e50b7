package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rogerio-castellano/catalog-manager/internal/cli"
)

// @title Catalog Manager API
// @version 1.0
// @description REST API for managing a product catalog: categories, products, export and dashboard metrics.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
