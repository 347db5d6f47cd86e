package main

import (
	"context"
	"flag"
	"log"

	"github.com/campusfound/lostfound-backend/internal/config"
	"github.com/campusfound/lostfound-backend/internal/db"
	"github.com/campusfound/lostfound-backend/internal/repository"
	"github.com/campusfound/lostfound-backend/internal/service"
)

// createadmin grants the admin role from the command line. Registration
// always produces regular users, so a fresh deployment bootstraps its first
// admin with this tool. Run with -email and -password; an existing account
// with the email is promoted instead of recreated.
func main() {
	email := flag.String("email", "", "admin email on the allowed campus domain")
	name := flag.String("name", "System Admin", "display name for a newly created account")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("createadmin: config load failed: %v", err)
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("createadmin: database connection failed: %v", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Printf("createadmin: database close: %v", err)
		}
	}()

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("createadmin: migrations failed: %v", err)
	}

	userRepo := repository.NewUserRepository(dbConn)
	authService := service.NewAuthService(userRepo, nil, nil, cfg.AllowedEmailDomain)

	user, err := authService.BootstrapAdmin(ctx, service.RegisterInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		log.Fatalf("createadmin: %v", err)
	}

	log.Printf("createadmin: %s now has the admin role", user.Email)
}
