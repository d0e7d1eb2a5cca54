//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/db/migrate"
	database "github.com/quicktrack/fleetcontrol-service-go/pkg/db/postgres"
)

// create a pg connection pool for the fleetcontrol testdatabase
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("fleetcontrol-service-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDb(dbURL); err != nil {
		log.Fatal(err)
	}

	return database.InitWithURL(dbURL)
}

// SetupExternalTestDb connects to the database named by TESTDB_URL and
// migrates it. Useful on CI runners that provide their own postgres.
func SetupExternalTestDb() *pgxpool.Pool {
	dbURL := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDb(dbURL); err != nil {
		log.Fatal(err)
	}
	return database.InitWithURL(dbURL)
}

func ClearPositionTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from positions")
}

func ClearDeviceTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from devices")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearPositionTable(pool)
	ClearDeviceTable(pool)
}
