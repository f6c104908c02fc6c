package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/repo"
	"github.com/light-bringer/priceopt-service/internal/pkg/config"
)

var (
	configPath = flag.String("config", "", "Path to the YAML configuration file")
	migrateDir = flag.String("migrations", "migrations", "Directory containing Spanner migration SQL files")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully!")
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.Storage.Backend == config.BackendSQLite {
		log.Printf("Applying SQLite schema to %s...", cfg.Storage.SQLitePath)
		store, err := repo.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open SQLite store: %w", err)
		}
		return store.Close()
	}

	db, err := parseDatabasePath(cfg.Storage.SpannerDatabase)
	if err != nil {
		return err
	}
	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		log.Printf("Using Spanner emulator at %s", host)
		if err := ensureInstance(ctx, db); err != nil {
			return fmt.Errorf("failed to ensure instance: %w", err)
		}
	}
	if err := ensureDatabase(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// databasePath is a parsed projects/P/instances/I/databases/D name.
type databasePath struct {
	Project  string
	Instance string
	Database string
}

func (d databasePath) instanceName() string {
	return fmt.Sprintf("projects/%s/instances/%s", d.Project, d.Instance)
}

func (d databasePath) String() string {
	return fmt.Sprintf("%s/databases/%s", d.instanceName(), d.Database)
}

func parseDatabasePath(name string) (databasePath, error) {
	parts := strings.Split(name, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" ||
		parts[1] == "" || parts[3] == "" || parts[5] == "" {
		return databasePath{}, fmt.Errorf("invalid Spanner database name %q", name)
	}
	return databasePath{Project: parts[1], Instance: parts[3], Database: parts[5]}, nil
}

// ensureInstance creates the emulator instance when it is missing.
func ensureInstance(ctx context.Context, db databasePath) error {
	log.Printf("Ensuring instance %s exists...", db.Instance)

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: db.instanceName()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check instance: %w", err)
	}

	log.Println("Creating instance...")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + db.Project,
		InstanceId: db.Instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", db.Project),
			DisplayName: "Price Optimization",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Printf("Warning during instance creation: %v", err)
	}
	return nil
}

func ensureDatabase(ctx context.Context, db databasePath) error {
	log.Printf("Ensuring database %s exists...", db.Database)

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: db.String()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check database: %w", err)
	}

	log.Println("Creating database...")
	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          db.instanceName(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", db.Database),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}

// applyMigrations runs every file in lexical order, skipping objects the
// database already has.
func applyMigrations(ctx context.Context, db databasePath) error {
	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	files, err := filepath.Glob(filepath.Join(*migrateDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		log.Println("No migration files found")
		return nil
	}

	for _, file := range files {
		name := filepath.Base(file)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		current, err := adminClient.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: db.String()})
		if err != nil {
			return fmt.Errorf("failed to read current schema: %w", err)
		}

		statements := pendingStatements(splitDDLStatements(string(content)), current.GetStatements())
		if len(statements) == 0 {
			log.Printf("%s already applied", name)
			continue
		}

		log.Printf("Applying %s (%d statements)...", name, len(statements))
		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   db.String(),
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
	}
	return nil
}
