// seed bootstraps the first ADMIN account. Client onboarding via the API
// requires an ADMIN credential, so the first admin has to exist out-of-band.
// Idempotent: skips the insert when the admin email is already registered.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"

	"sitescope/backend/internal/config"
	"sitescope/backend/internal/db"
	"sitescope/backend/internal/security"
	userdomain "sitescope/backend/internal/user/domain"
	userrepo "sitescope/backend/internal/user/repository"
)

func main() {
	email := flag.String("email", "admin@example.com", "Admin account email")
	password := flag.String("password", "", "Admin account password (required)")
	name := flag.String("name", "Administrator", "Admin display name")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := userrepo.NewPostgresRepository(conn)
	existing, err := users.GetByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("lookup admin: %v", err)
	}
	if existing != nil {
		log.Printf("admin %s already exists, nothing to do", *email)
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	hashed, err := hasher.Hash([]byte(*password))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	admin := &userdomain.User{
		ID:           uuid.New().String(),
		Name:         *name,
		Email:        *email,
		PasswordHash: hashed,
		Role:         userdomain.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("seeded admin %s (%s)", *email, admin.ID)
}
