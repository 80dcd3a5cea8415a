package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "HOLDING_"

// listKeys are read from the environment as comma separated lists.
var listKeys = map[string]bool{
	"catalog.units":      true,
	"catalog.categories": true,
}

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

type Application struct {
	Host      string    `koanf:"host"`
	Port      int       `koanf:"port"`
	Currency  string    `koanf:"currency"`
	Catalog   Catalog   `koanf:"catalog"`
	Valuation Valuation `koanf:"valuation"`
	Dashboard Dashboard `koanf:"dashboard"`
	Ledger    Ledger    `koanf:"ledger"`
	Database  Database  `koanf:"db"`
	SQLite    SQLite    `koanf:"sqlite"`
	AMQP      AMQP      `koanf:"amqp"`
}

type Catalog struct {
	Units              []string `koanf:"units"`
	PersonalUnit       string   `koanf:"personalunit"`
	Categories         []string `koanf:"categories"`
	AllocationCategory string   `koanf:"allocationcategory"`
	StrictCategories   bool     `koanf:"strictcategories"`
}

type Valuation struct {
	// Multiplier applied to the net result, a decimal string.
	Multiplier string `koanf:"multiplier"`
}

type Dashboard struct {
	MonthsAhead int    `koanf:"monthsahead"`
	Granularity string `koanf:"granularity"`
}

type Ledger struct {
	Backend  Backend `koanf:"backend"`
	SeedDemo bool    `koanf:"seeddemo"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type SQLite struct {
	Path string `koanf:"path"`
}

// AMQP publishing of ledger events is disabled while Url is empty.
type AMQP struct {
	Url        string `koanf:"url"`
	Exchange   string `koanf:"exchange"`
	RoutingKey string `koanf:"routingkey"`
}

func defaults() Application {
	catalog := transaction.DefaultCatalog()
	units := make([]string, len(catalog.Units))
	for i, u := range catalog.Units {
		units[i] = string(u)
	}
	return Application{
		Host:     "http://localhost:8181",
		Port:     8181,
		Currency: "TRY",
		Catalog: Catalog{
			Units:              units,
			PersonalUnit:       string(catalog.PersonalUnit),
			Categories:         catalog.Categories,
			AllocationCategory: catalog.AllocationCategory,
		},
		Valuation: Valuation{Multiplier: "5"},
		Dashboard: Dashboard{MonthsAhead: 3, Granularity: "monthly"},
		Ledger:    Ledger{Backend: BackendMemory},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "holding",
			Pass:   "",
			Name:   "holding",
			Schema: "holding",
		},
		SQLite: SQLite{Path: "holding.db"},
		AMQP: AMQP{
			Exchange:   "holding.ledger",
			RoutingKey: "holding",
		},
	}
}

// LoadDotEnv loads variables from the given .env files, skipping missing ones.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("could not load %s: %w", p, err)
		}
		log.Infof("Loaded environment from %s", p)
	}
	return nil
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			if listKeys[k] {
				return k, strings.Split(v, ",")
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	if err := app.validate(); err != nil {
		return Application{}, err
	}

	return app, nil
}

func (a Application) validate() error {
	switch a.Ledger.Backend {
	case BackendMemory, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("unknown ledger backend %q", a.Ledger.Backend)
	}
	if len(a.Catalog.Units) == 0 {
		return errors.New("catalog must list at least one unit")
	}
	if _, err := a.ValuationMultiplier(); err != nil {
		return err
	}
	if a.Dashboard.MonthsAhead < 0 {
		return fmt.Errorf("dashboard months ahead must not be negative, got %d", a.Dashboard.MonthsAhead)
	}
	return nil
}

func (a Application) ValuationMultiplier() (decimal.Decimal, error) {
	m, err := decimal.NewFromString(strings.TrimSpace(a.Valuation.Multiplier))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid valuation multiplier %q: %w", a.Valuation.Multiplier, err)
	}
	return m, nil
}

// TransactionCatalog converts the configured lists to the catalog used for validation.
func (a Application) TransactionCatalog() transaction.Catalog {
	units := make([]transaction.Unit, 0, len(a.Catalog.Units))
	for _, u := range a.Catalog.Units {
		if u = strings.TrimSpace(u); u != "" {
			units = append(units, transaction.Unit(u))
		}
	}
	categories := make([]string, 0, len(a.Catalog.Categories))
	for _, c := range a.Catalog.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	return transaction.Catalog{
		Units:              units,
		PersonalUnit:       transaction.Unit(strings.TrimSpace(a.Catalog.PersonalUnit)),
		Categories:         categories,
		AllocationCategory: a.Catalog.AllocationCategory,
		StrictCategories:   a.Catalog.StrictCategories,
	}
}
