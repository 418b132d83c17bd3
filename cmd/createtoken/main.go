package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"attendly.com/attendly/core"
	"attendly.com/attendly/infrastructure/devops"
	"attendly.com/attendly/security"
)

// Prints today's QR payload for a branch, for kiosks without API access
// and for poking the scan endpoint by hand.
func main() {
	branchID := flag.Int("branch", 0, "branch id")
	secret := flag.String("secret", "", "branch QR secret; looked up from the database when empty")
	flag.Parse()

	if *branchID <= 0 {
		log.Fatal("a positive -branch id is required")
	}

	if *secret == "" {
		godotenv.Load()
		cfg, err := devops.Load()
		if err != nil {
			log.Fatalf("configuration: %v", err)
		}
		db := core.ConnectDB(cfg.DSN)
		branch, err := core.FindBranchByID(db, *branchID)
		if err != nil {
			log.Fatalf("look up branch: %v", err)
		}
		if branch == nil {
			log.Fatalf("branch %d not found", *branchID)
		}
		*secret = branch.QRSecret
	}

	token := security.GenerateDailyToken(*branchID, *secret, time.Now())
	payload, _ := json.Marshal(map[string]interface{}{
		"branch_id": *branchID,
		"token":     token,
	})
	fmt.Println(string(payload))
}
