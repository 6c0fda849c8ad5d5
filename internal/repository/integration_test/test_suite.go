//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/postgres"
	"orderflow/pkg/logger/zap_adapter"
	"orderflow/pkg/querier"
)

var (
	querierInstance *querier.Querier
	pool            *pgxpool.Pool
	container       *tcpostgres.PostgresContainer
	startOnce       sync.Once
	startErr        error
)

// Run для TestMain пакета: поднимает postgres (или берет POSTGRES_* из окружения),
// применяет миграции, после тестов все гасит.
func Run(m *testing.M) int {
	ctx := context.Background()

	startOnce.Do(func() {
		startErr = start(ctx)
	})
	if startErr != nil {
		log.Printf("integration setup: %v", startErr)
		return 1
	}

	code := m.Run()

	pool.Close()
	if container != nil {
		if err := testcontainers.TerminateContainer(container); err != nil {
			log.Printf("failed to terminate postgres container: %v", err)
		}
	}
	return code
}

func start(ctx context.Context) error {
	zapLogger, err := zap_adapter.NewZapAdapter("warn", "integration-test")
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	dsn, err := dsnFromEnvOrContainer(ctx)
	if err != nil {
		return err
	}

	pool, err = postgres.NewConnPoolFromDSN(ctx, zapLogger, dsn)
	if err != nil {
		return fmt.Errorf("pool: %w", err)
	}

	err = postgres.Migrate(ctx, zapLogger, pool)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	querierInstance = querier.New(pool, pgxv5.DefaultCtxGetter)
	return nil
}

// dsnFromEnvOrContainer: в CI Makefile экспортирует POSTGRES_*, локально поднимаем контейнер.
func dsnFromEnvOrContainer(ctx context.Context) (string, error) {
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		return postgres.NewDSN(&config.Database{
			Host:     host,
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		}), nil
	}

	var err error
	container, err = tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("orderflow_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("container connection string: %w", err)
	}
	return dsn, nil
}

func GetQuerier() *querier.Querier {
	return querierInstance
}

func SetupDB(t *testing.T, setupSql string) {
	t.Helper()

	if setupSql == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, setupSql)
	require.NoError(t, err)
}

func TeardownDB(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, `
		TRUNCATE TABLE orders, couriers, dead_letters;
	`)
	require.NoError(t, err)
}
