package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"loan-backend/internal/config"
	"loan-backend/internal/db"
)

// Tables are listed child first; RESTART IDENTITY resets the id sequences.
var resetTables = []string{"loans", "customers"}

func main() {
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("   Reset Loan Database")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("⚠️  WARNING: This will DELETE ALL CUSTOMERS AND LOANS!")
	fmt.Println()

	if !*yes {
		fmt.Print("Type 'yes' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Reset cancelled.")
			return
		}
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("🔄 Resetting database...")

	for _, table := range resetTables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  ✓ Cleared %s\n", table)
	}

	fmt.Println()
	fmt.Println("✅ Database reset complete. Restart the server to reload seed data.")
}
