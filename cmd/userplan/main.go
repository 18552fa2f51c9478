package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"neuronix/internal/adapter/repo"
	"neuronix/internal/domain"
	"neuronix/internal/entitlement"
)

func main() {
	var (
		idFlag    string
		emailFlag string
		planFlag  string
	)

	flag.StringVar(&idFlag, "id", "", "account ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "account email to update")
	flag.StringVar(&planFlag, "plan", "pro", "plan to assign (pro)")
	flag.Parse()

	accountID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	plan := strings.TrimSpace(strings.ToLower(planFlag))

	if accountID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	// The plan ladder is one-way. Downgrades are not supported, so the only
	// assignable plan is pro.
	if plan != string(domain.PlanPro) {
		exitWithError(fmt.Errorf("unsupported plan %q", plan))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	accounts := repo.NewAccountRepository(pool)
	engine := entitlement.NewEngine(accounts)

	lookupCtx, cancelLookup := context.WithTimeout(context.Background(), 5*time.Second)
	var account *domain.Account
	if accountID != "" {
		account, err = accounts.GetByID(lookupCtx, accountID)
	} else {
		account, err = accounts.GetByEmail(lookupCtx, email)
	}
	cancelLookup()
	if err != nil {
		exitWithError(fmt.Errorf("failed to load account: %w", err))
	}

	updateCtx, cancelUpdate := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelUpdate()
	updated, err := engine.Upgrade(updateCtx, account.ID)
	if err != nil {
		exitWithError(fmt.Errorf("failed to upgrade account: %w", err))
	}

	fmt.Printf("Account %s (%s) updated to plan %s\n", updated.ID, updated.Email, updated.Plan)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
