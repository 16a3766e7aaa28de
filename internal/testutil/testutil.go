// Package testutil provides helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rosterd/rosterd/internal/auth"
	"github.com/rosterd/rosterd/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 741741

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// resetSchema reapplies a migration pair by name, e.g. "000001_accounts".
func resetSchema(ctx context.Context, pool *pgxpool.Pool, migration string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downSQL, err := os.ReadFile(filepath.Join(root, "migrations", migration+".down.sql"))
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(filepath.Join(root, "migrations", migration+".up.sql"))
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// ResetAccountsSchema drops and recreates the accounts schema for tests.
func ResetAccountsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000001_accounts")
}

// ResetStudentsSchema drops and recreates the students schema for tests.
func ResetStudentsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_students")
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// UniqueEmail returns an email address unique across a test run.
func UniqueEmail(t testing.TB) string {
	t.Helper()
	return fmt.Sprintf("test-%s@example.com", ulid.Make().String())
}

// NewTestAccount creates a local-password test account with sensible defaults.
func NewTestAccount(t testing.TB, email string) *model.Account {
	t.Helper()
	hash, err := auth.HashPassword("test-password-123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &model.Account{
		ID:           ulid.Make().String(),
		Name:         "Test Account",
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestFederatedAccount creates a test account without a usable password.
func NewTestFederatedAccount(t testing.TB, email string) *model.Account {
	t.Helper()
	account := NewTestAccount(t, email)
	account.PasswordHash = auth.SentinelFederatedHash
	return account
}

// NewTestStudent creates a test student record with sensible defaults.
func NewTestStudent(t testing.TB, studentNo string) *model.Student {
	t.Helper()
	now := time.Now().UTC()
	return &model.Student{
		ID:        ulid.Make().String(),
		Name:      "Test Student",
		Email:     fmt.Sprintf("student-%s@example.com", studentNo),
		DOB:       "2004-09-01",
		Gender:    "other",
		StudentNo: studentNo,
		Dept:      "Computer Science",
		Year:      "2",
		Phone:     "+1-555-0100",
		Address:   "1 Campus Way",
		GPA:       3.4,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
