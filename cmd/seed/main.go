package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/catalog"
	"github.com/ikkim/foodgram-backend/internal/db"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer file.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	c, err := catalog.Read(file)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Ingredients: %d, tags: %d, skipped rows: %d\n", len(c.Ingredients), len(c.Tags), c.Skipped)

	if err := db.SeedTags(db.GetDB(), c.Tags); err != nil {
		log.Fatal("Failed to import tags:", err)
	}
	inserted, err := db.SeedIngredients(db.GetDB(), c.Ingredients)
	if err != nil {
		log.Fatal("Failed to import ingredients:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("New ingredients: %d (existing pairs left untouched)\n", inserted)
}
