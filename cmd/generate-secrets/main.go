// Command generate-secrets prints fresh values for the secret
// environment variables the server needs. Pass the admin password as
// the only argument to also get its bcrypt hash.
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/magicdayconcierge/booking-backend/internal/utils"
)

func main() {
	jwtSecret, err := utils.GenerateSecret(32)
	if err != nil {
		log.Fatalf("Failed to generate JWT secret: %v", err)
	}

	fmt.Println("Add these to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", jwtSecret)

	if len(os.Args) > 1 {
		hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", string(hash))
	} else {
		fmt.Println()
		fmt.Println("Pass the admin password as an argument to also generate ADMIN_PASSWORD_HASH.")
	}

	fmt.Println()
	fmt.Println("SHOPIFY_HOOK_HMAC comes from the store's webhook settings, not from this tool.")
}
