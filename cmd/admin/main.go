package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-backend/config"
	authrepo "github.com/showcase-labs/showcase-backend/internal/auth/repository"
	authservice "github.com/showcase-labs/showcase-backend/internal/auth/service"
	"github.com/showcase-labs/showcase-backend/internal/auth/token"
	"github.com/showcase-labs/showcase-backend/internal/db"
	"github.com/showcase-labs/showcase-backend/internal/logging"
)

const usage = `usage:
  admin create-user <username> [password]
  admin set-password <username> [password]
  admin schema

When password is omitted it is taken from ADMIN_PASSWORD, or read as one
line from stdin:
  printf '%s\n' "$PW" | admin create-user alice`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "%s\n", usage)
		os.Exit(2)
	}

	cfg, err := config.LoadForAdmin()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.App.LogLevel, cfg.App.LogFormat, cfg.App.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Open(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer pool.Close()

	// the issuer only signs on login, which the CLI never does
	issuer := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	users, err := authservice.NewAuthService(authrepo.NewUserRepository(pool.Pool), issuer, authservice.DefaultBcryptCost)
	if err != nil {
		log.Fatal("init auth service", zap.Error(err))
	}

	pw := passwordSource{env: os.Getenv, stdin: os.Stdin}
	args := os.Args[2:]
	switch os.Args[1] {
	case "create-user":
		err = runCreateUser(ctx, users, args, pw, log)
	case "set-password":
		err = runSetPassword(ctx, users, args, pw, log)
	case "schema":
		err = runSchema(ctx, pool, log)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n%s\n", os.Args[1], usage)
		pool.Close()
		os.Exit(2)
	}

	if err != nil {
		log.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		pool.Close()
		os.Exit(1)
	}
}
