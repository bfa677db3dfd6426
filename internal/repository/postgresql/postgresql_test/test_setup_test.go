package postgresql_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/database"
	"github.com/absensi-app/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

var (
	setupOnce sync.Once
	testDB    *database.DB
	setupErr  error
)

// openTestDB connects to TEST_DATABASE_URL and applies the migrations once.
// Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	setupOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		testDB, setupErr = database.NewPostgreSQLDB(ctx, dsn)
		if setupErr != nil {
			return
		}
		setupErr = database.RunMigrations(testDB, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	})
	require.NoError(t, setupErr)

	truncate(t, testDB)
	return testDB
}

// truncate clears everything except the seeded shifts.
func truncate(t *testing.T, db *database.DB) {
	t.Helper()
	_, err := db.Exec(context.Background(), "TRUNCATE TABLE attendances, user_shifts, users CASCADE")
	require.NoError(t, err)
}

func createUser(t *testing.T, db *database.DB, name string, role user.Role) user.User {
	t.Helper()
	u, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		Name:         name,
		Email:        name + "@absensi.test",
		PasswordHash: "x",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}
