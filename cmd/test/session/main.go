package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"go-easyapply-automation/internal/browser"
)

func main() {
	path := flag.String("path", "playwright/.auth/state.json", "session file")
	cookies := flag.String("cookies", "", "also parse an exported cookie array")
	flag.Parse()

	fmt.Println("🍪 Testing session loading...")

	state, err := browser.NewSessionStore(*path).Load()
	if err != nil {
		log.Fatalf("Failed to load session: %v", err)
	}
	if state == nil {
		fmt.Printf("⚠️ No session at %s, run `jobdriver login` first\n", *path)
	} else {
		fmt.Printf("✅ Loaded %d cookies, %d origins\n", len(state.Cookies), len(state.Origins))
		now := float64(time.Now().Unix())
		for _, c := range state.Cookies {
			status := "session"
			if c.Expires > 0 {
				status = time.Unix(int64(c.Expires), 0).Format(time.DateOnly)
				if c.Expires < now {
					status += " (expired)"
				}
			}
			fmt.Printf("   %-30s %-25s %s\n", c.Name, c.Domain, status)
		}
	}

	if *cookies != "" {
		list, err := browser.LoadCookies(*cookies)
		if err != nil {
			log.Fatalf("Failed to load cookies: %v", err)
		}
		fmt.Printf("✅ Parsed %d cookies from %s\n", len(list), *cookies)
	}
}
