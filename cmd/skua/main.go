package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/logrusorgru/aurora/v3"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/skua-db/skua"
	"github.com/xo/dburl"
	"gopkg.in/yaml.v2"
)

// The CLI cannot run application-defined steps (those are Go functions
// compiled into the application), so it is an inspection and bootstrap
// tool: show the store's version state, dump its migration history, or
// initialize the version table ahead of the first application start.

type config struct {
	DatabaseURL  string `yaml:"database_url"`
	VersionTable string `yaml:"version_table"`
}

func loadConfig(path string) (config, error) {
	var cfg config

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "could not read config file [%s]", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "could not parse config file [%s]", path)
	}

	return cfg, nil
}

func createMigrator(ctx context.Context, cfg config) (*skua.Migrator, skua.CloserFunc, error) {
	u, err := dburl.Parse(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not parse database url [%s]", cfg.DatabaseURL)
	}

	db, err := sqlx.Open(u.Driver, u.DSN)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not open [%s] database", u.Driver)
	}

	var opts []skua.OptionFunc

	switch u.Driver {
	case "sqlite3":
		opts = append(opts, skua.UseSqlite(db.DB))
	case "mysql":
		opts = append(opts, skua.UseMySQL(db.DB))
	case "postgres":
		opts = append(opts, skua.UsePostgres(db.DB))
	default:
		return nil, nil, errors.Errorf("driver [%s] is not supported", u.Driver)
	}

	opts = append(
		opts,
		skua.WithoutAutoUpdate(),
		skua.UseColorLogger(log.New(os.Stdout, "", 0), false, false),
	)

	if cfg.VersionTable != "" {
		opts = append(opts, skua.WithVersionTable(cfg.VersionTable))
	}

	// the CLI carries no steps of its own
	return skua.New(ctx, skua.StepList(nil), opts...)
}

func status(ctx context.Context, m *skua.Migrator) error {
	current, ok, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	if !ok {
		fmt.Println(aurora.Yellow("store is not initialized"))
		return nil
	}

	fmt.Printf("version table: %s\ncurrent version: %d\n", m.VersionTable(), current)

	return nil
}

func history(ctx context.Context, m *skua.Migrator) error {
	records, err := m.History(ctx)
	if err != nil {
		return err
	}

	for _, r := range records {
		fmt.Printf("%4d  %s\n", r.Version, r.UpdatedAt.Format(time.RFC3339))
	}

	return nil
}

func initialize(ctx context.Context, m *skua.Migrator) error {
	// with an empty registry Up only creates the version table and records
	// version 0
	return m.Up(ctx)
}

func main() {
	statusCmd := flag.Bool("status", false, "show current and latest version")
	historyCmd := flag.Bool("history", false, "print the applied version log")
	initCmd := flag.Bool("init", false, "initialize the version table at version 0")

	databaseURL := flag.String("db", "", "database URL")
	configPath := flag.String("config", "", "path to a YAML config file")
	table := flag.String("table", "", "version table name override")

	flag.Parse()

	var cfg config
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			fmt.Println(aurora.Red("skua-cli: "), err.Error())
			os.Exit(1)
		}

		cfg = loaded
	}

	if *databaseURL != "" {
		cfg.DatabaseURL = *databaseURL
	}

	if *table != "" {
		cfg.VersionTable = *table
	}

	if cfg.DatabaseURL == "" {
		fmt.Println(aurora.Red("skua-cli: "), "database not specified")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	m, closer, err := createMigrator(ctx, cfg)
	if err != nil {
		fmt.Println(aurora.Red("skua-cli: "), err.Error())
		os.Exit(1)
	}

	defer func() {
		if closeErr := closer(); closeErr != nil {
			fmt.Println(aurora.Red("skua-cli: "), closeErr.Error())
		}
	}()

	var cmdErr error
	switch {
	case *statusCmd:
		cmdErr = status(ctx, m)
	case *historyCmd:
		cmdErr = history(ctx, m)
	case *initCmd:
		cmdErr = initialize(ctx, m)
	default:
		fmt.Println(aurora.Red("skua-cli: "), "unknown command")
		os.Exit(1)
	}

	if cmdErr != nil {
		fmt.Println(aurora.Red("skua-cli: "), cmdErr.Error())
		os.Exit(1)
	}

	fmt.Println(aurora.Green("skua-cli: "), "all done")
}
