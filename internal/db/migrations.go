package db

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/daybook/migrations"
	"gorm.io/gorm"
)

// ADD COLUMN has no IF NOT EXISTS in SQLite, so such statements are skipped
// by hand when the column is already there.
var addColumnPattern = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)

var migrationDirectories = map[string]string{
	TypeSQLite:   "sqlite",
	TypePostgres: "postgres",
}

type migration struct {
	version    string
	order      int
	name       string
	statements []string
}

type migrator struct {
	database *gorm.DB
	dialect  string
}

// migrate applies every embedded migration for the connection's dialect that
// schema_migrations does not list yet, each one in its own transaction.
func migrate(database *gorm.DB) error {
	runner := migrator{database: database, dialect: database.Dialector.Name()}

	pending, err := readMigrations(runner.dialect)
	if err != nil {
		return err
	}
	if err := runner.ensureLedger(); err != nil {
		return err
	}
	applied, err := runner.appliedVersions()
	if err != nil {
		return err
	}

	for _, next := range pending {
		if _, done := applied[next.version]; done {
			continue
		}
		if err := runner.apply(next); err != nil {
			return err
		}
	}
	return nil
}

func readMigrations(dialect string) ([]migration, error) {
	directory, ok := migrationDirectories[dialect]
	if !ok {
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}

	files, err := fs.Glob(embeddedmigrations.Files, path.Join(directory, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("list embedded migrations: %w", err)
	}

	result := make([]migration, 0, len(files))
	byVersion := make(map[string]string, len(files))
	for _, file := range files {
		name := path.Base(file)
		version, _, found := strings.Cut(name, "_")
		order, err := strconv.Atoi(version)
		if !found || err != nil {
			return nil, fmt.Errorf("migration %s must start with a numeric version", name)
		}
		if previous, duplicate := byVersion[version]; duplicate {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, previous, name)
		}
		byVersion[version] = name

		body, err := fs.ReadFile(embeddedmigrations.Files, file)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		statements := splitSQLStatements(string(body))
		if len(statements) == 0 {
			return nil, fmt.Errorf("migration %s has no SQL statements", name)
		}

		result = append(result, migration{version: version, order: order, name: name, statements: statements})
	}

	slices.SortFunc(result, func(left, right migration) int {
		return cmp.Or(cmp.Compare(left.order, right.order), strings.Compare(left.name, right.name))
	})
	return result, nil
}

func (runner migrator) ensureLedger() error {
	err := runner.database.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error
	if err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

func (runner migrator) appliedVersions() (map[string]struct{}, error) {
	var versions []string
	if err := runner.database.Table("schema_migrations").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}

	applied := make(map[string]struct{}, len(versions))
	for _, version := range versions {
		applied[version] = struct{}{}
	}
	return applied, nil
}

func (runner migrator) apply(next migration) error {
	return runner.database.Transaction(func(tx *gorm.DB) error {
		scoped := migrator{database: tx, dialect: runner.dialect}
		for _, statement := range next.statements {
			redundant, err := scoped.redundant(statement)
			if err != nil {
				return fmt.Errorf("inspect migration %s: %w", next.name, err)
			}
			if redundant {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", next.name, statement, err)
			}
		}

		if err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`, next.version, next.name).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", next.name, err)
		}
		return nil
	})
}

// redundant reports whether statement adds a column that already exists.
func (runner migrator) redundant(statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(strings.TrimSpace(statement))
	if matches == nil {
		return false, nil
	}
	return runner.columnExists(unquoteIdentifier(matches[1]), unquoteIdentifier(matches[2]))
}

func (runner migrator) columnExists(table string, column string) (bool, error) {
	var query string
	switch runner.dialect {
	case TypePostgres:
		query = `SELECT count(*) FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = ? AND column_name = ?`
	case TypeSQLite:
		query = `SELECT count(*) FROM pragma_table_info(?) WHERE lower(name) = ?`
	default:
		return false, errors.New("column lookup is not supported for " + runner.dialect)
	}

	var matched int64
	if err := runner.database.Raw(query, strings.ToLower(table), strings.ToLower(column)).Scan(&matched).Error; err != nil {
		return false, fmt.Errorf("load columns for %s: %w", table, err)
	}
	return matched > 0, nil
}

func splitSQLStatements(sqlText string) []string {
	statements := make([]string, 0)
	for part := range strings.SplitSeq(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

func unquoteIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}
