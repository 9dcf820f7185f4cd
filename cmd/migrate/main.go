package main

import (
	"flag"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/config"
	"github.com/ortoclub/platform-api/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(&cfg.App)

	var (
		command = flag.String("command", "up", "Migration command (up, down, force)")
		version = flag.Int("version", 1, "Version for the force command")
		source  = flag.String("source", "file://migrations", "Migration source")
	)
	flag.Parse()

	pgxCfg, err := pgx.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse database config")
	}
	db := stdlib.OpenDB(*pgxCfg)
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance(*source, "postgres", driver)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create migrator")
	}

	switch *command {
	case "up":
		log.Info().Msg("applying migrations")
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
		log.Info().Msg("migrations applied")
	case "down":
		log.Info().Msg("reverting migrations")
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatal().Err(err).Msg("failed to revert migrations")
		}
		log.Info().Msg("migrations reverted")
	case "force":
		if err := m.Force(*version); err != nil {
			log.Fatal().Err(err).Msg("failed to force migration version")
		}
		log.Info().Int("version", *version).Msg("migration version forced")
	default:
		log.Fatal().Msgf("unknown command: %s", *command)
	}
}
