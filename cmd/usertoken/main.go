// Command usertoken mints an operator bearer token for the mutating user routes.
//
//	usertoken -operator ops@example.com -ttl 24h
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"user-directory-api/config"
	"user-directory-api/internal/infrastructure/jwt"
)

func main() {
	operator := flag.String("operator", "", "operator identity stored as the token subject")
	role := flag.String("role", "operator", "role claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *operator == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.Load()

	token, err := jwt.New(cfg.App.JWTSecret).GenerateJWT(*operator, *role, *ttl)
	if err != nil {
		log.Fatalf("mint token: %v", err)
	}

	fmt.Println(token)
}
