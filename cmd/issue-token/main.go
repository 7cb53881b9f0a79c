package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/pkg/config"
	"go-inventory-ledger/pkg/jwt"
	"go-inventory-ledger/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// issue-token mints a development bearer token signed with JWT_SECRET.
// In production tokens come from the auth service.
func main() {
	tenant := flag.String("tenant", "", "tenant id (required)")
	user := flag.String("user", "", "user id (random when empty)")
	name := flag.String("name", "Developer", "display name")
	email := flag.String("email", "dev@example.com", "email")
	privileges := flag.String("privileges", "", "comma separated privilege codes (all when empty)")
	flag.Parse()

	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log := logger.Init(cfg)
	defer log.Sync()

	if *tenant == "" {
		log.Fatal("-tenant is required")
	}

	userID := uuid.New()
	if *user != "" {
		if userID, err = uuid.Parse(*user); err != nil {
			log.Fatal("Invalid -user", zap.Error(err))
		}
	}

	privs := middleware.DefaultPrivileges
	if *privileges != "" {
		privs = strings.Split(*privileges, ",")
	}

	signer := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	token, err := signer.GenerateToken(userID, *tenant, *email, *name, privs)
	if err != nil {
		log.Fatal("Failed to sign token", zap.Error(err))
	}

	log.Info("Token issued",
		zap.String("tenant_id", *tenant),
		zap.String("user_id", userID.String()),
		zap.Duration("expires_in", cfg.JWT.Expiration))
	fmt.Fprintln(os.Stdout, token)
}
