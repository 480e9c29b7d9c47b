package main

import (
	"fmt"
	"log"
	"os"

	"go-easyapply-automation/internal/config"
)

func main() {
	fmt.Println("🔧 Testing config loading...")
	cfg, err := config.Load(config.DefaultPath, &config.StdinPrompter{In: os.Stdin, Out: os.Stdout})
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Base URL: %s (headless=%t)\n", cfg.BaseURL, cfg.Headless)
	fmt.Printf("   Search: %q in %q\n", cfg.PositionTitle, cfg.Location)
	fmt.Printf("   Applicant: %s <%s>\n", cfg.Applicant.FullName(), cfg.Applicant.Email)
	fmt.Printf("   Resume: %s\n", cfg.Applicant.ResumePath)
	fmt.Printf("   Include keyword: %q, %d stopwords\n", cfg.Filter.Include, len(cfg.Filter.Stopwords))
	fmt.Printf("   Timeouts: navigation=%s field=%s\n", cfg.NavigationTimeout, cfg.FieldTimeout)
	fmt.Printf("   Session: %s\n", cfg.SessionPath)
	fmt.Printf("   Exports: %s\n", cfg.ExportDir)
	fmt.Printf("   PostgreSQL: %t, Telegram: %t\n", cfg.DatabaseURL != "", cfg.TelegramEnabled())
}
