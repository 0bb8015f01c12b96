package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tordrt/prismaschema"
	"github.com/tordrt/prismaschema/internal/db"
	"github.com/tordrt/prismaschema/internal/schema"
)

const successMessage = "The schema.prisma file has been generated successfully"

// sourceFlags holds every flag that can name where models come from
type sourceFlags struct {
	entities   string
	dbURL      string
	mysqlURL   string
	sqlitePath string
	host       string
	port       string
	username   string
	password   string
	database   string
}

// source is the resolved origin of the models: a descriptor file or a database URL
type source struct {
	entitiesPath string
	databaseURL  string
}

var (
	src               sourceFlags
	schemaPath        string
	schemaName        string
	tables            string
	exclude           string
	optionalCompanyID bool
	provider          string
	toStdout          bool
	verbose           bool
)

var rootCmd = &cobra.Command{
	Use:   "prismaschema",
	Short: "Generate a Prisma schema from a database or model descriptors",
	Long: `PrismaSchema introspects PostgreSQL, MySQL or SQLite databases, or reads JSON/YAML
model descriptor files, and writes an equivalent schema.prisma file.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&src.entities, "entities", "e", "", "Model descriptor file (.json, .yaml or .yml)")
	rootCmd.Flags().StringVar(&src.dbURL, "db-url", "", "PostgreSQL connection string")
	rootCmd.Flags().StringVar(&src.mysqlURL, "mysql-url", "", "MySQL connection string")
	rootCmd.Flags().StringVar(&src.sqlitePath, "sqlite", "", "SQLite database file path")
	rootCmd.Flags().StringVarP(&src.host, "db-host", "h", "", "PostgreSQL host (env: POSTGRES_HOST)")
	rootCmd.Flags().StringVar(&src.port, "db-port", "", "PostgreSQL port (env: POSTGRES_PORT, default: 5432)")
	rootCmd.Flags().StringVarP(&src.username, "db-username", "u", "", "PostgreSQL username (env: POSTGRES_USERNAME)")
	rootCmd.Flags().StringVarP(&src.password, "db-password", "p", "", "PostgreSQL password (env: POSTGRES_PASSWORD)")
	rootCmd.Flags().StringVarP(&src.database, "db-database", "d", "", "PostgreSQL database (env: POSTGRES_DB)")
	rootCmd.Flags().StringVarP(&schemaPath, "schema-path", "s", "", "Output directory for schema.prisma (default: current directory)")
	rootCmd.Flags().StringVar(&schemaName, "schema", "public", "Database schema name (default: public for PostgreSQL)")
	rootCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	rootCmd.Flags().StringVar(&exclude, "exclude", "", "Tables or models to leave out (comma-separated)")
	rootCmd.Flags().BoolVar(&optionalCompanyID, "optional-company-id", false, "Render every companyId field as optional")
	rootCmd.Flags().StringVar(&provider, "provider", "", "Datasource provider (default: derived from the source)")
	rootCmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the schema to stdout instead of a file")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Log progress to stderr")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	resolved, err := src.resolve(os.Getenv)
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	opts := &prismaschema.Options{
		Tables:            parseTableList(tables),
		ExcludeTables:     parseTableList(exclude),
		OptionalCompanyID: optionalCompanyID,
		Provider:          provider,
		Logger:            logger,
	}
	if src.mysqlURL == "" {
		opts.SchemaName = schemaName
	}

	outOpts := &prismaschema.OutputOptions{OutputDir: schemaPath}
	if toStdout {
		outOpts = &prismaschema.OutputOptions{Writer: os.Stdout}
	}

	if resolved.entitiesPath != "" {
		logger.Info("loading model descriptors", "path", resolved.entitiesPath)
		var s *schema.Schema
		s, err = prismaschema.LoadSchema(resolved.entitiesPath)
		if err != nil {
			return err
		}
		err = prismaschema.GenerateSchema(s, opts, outOpts)
	} else {
		logger.Info("extracting database schema")
		err = prismaschema.ExtractAndGenerate(ctx, resolved.databaseURL, opts, outOpts)
	}
	if err != nil {
		return err
	}

	// Keep stdout clean when it carries the schema
	if toStdout {
		fmt.Fprintln(os.Stderr, successMessage)
	} else {
		fmt.Println(successMessage)
	}
	return nil
}

// resolve picks exactly one model source. Connection parameters missing from
// the flags are looked up in the environment.
func (f sourceFlags) resolve(getenv func(string) string) (source, error) {
	hostGiven := f.host != "" || f.port != "" || f.username != "" || f.password != "" || f.database != ""

	count := 0
	for _, v := range []string{f.entities, f.dbURL, f.mysqlURL, f.sqlitePath} {
		if v != "" {
			count++
		}
	}
	if hostGiven {
		count++
	}
	if count > 1 {
		return source{}, fmt.Errorf("only one of --entities, --db-url, --mysql-url, --sqlite or database connection parameters can be specified")
	}

	switch {
	case f.entities != "":
		return source{entitiesPath: f.entities}, nil
	case f.dbURL != "":
		return source{databaseURL: f.dbURL}, nil
	case f.mysqlURL != "":
		return source{databaseURL: withScheme(f.mysqlURL, "mysql://")}, nil
	case f.sqlitePath != "":
		return source{databaseURL: withScheme(f.sqlitePath, "sqlite://")}, nil
	}

	params := f.withEnv(getenv)
	if !hostGiven && params.host == "" && params.username == "" && params.password == "" && params.database == "" {
		return source{}, fmt.Errorf("one of --entities, --db-url, --mysql-url, --sqlite or database connection parameters must be specified")
	}

	var missing []string
	if params.host == "" {
		missing = append(missing, "host")
	}
	if params.username == "" {
		missing = append(missing, "username")
	}
	if params.password == "" {
		missing = append(missing, "password")
	}
	if params.database == "" {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return source{}, fmt.Errorf("missing database connection parameters: %s", strings.Join(missing, ", "))
	}

	return source{databaseURL: db.PostgresURL(params.host, params.port, params.username, params.password, params.database)}, nil
}

// withEnv fills empty connection parameters from POSTGRES_* variables
func (f sourceFlags) withEnv(getenv func(string) string) sourceFlags {
	fill := func(v *string, key string) {
		if *v == "" {
			*v = getenv(key)
		}
	}
	fill(&f.host, "POSTGRES_HOST")
	fill(&f.port, "POSTGRES_PORT")
	fill(&f.username, "POSTGRES_USERNAME")
	fill(&f.password, "POSTGRES_PASSWORD")
	fill(&f.database, "POSTGRES_DB")
	if f.port == "" {
		f.port = "5432"
	}
	return f
}

func withScheme(s, scheme string) string {
	if strings.HasPrefix(s, scheme) {
		return s
	}
	return scheme + s
}

// parseTableList splits a comma-separated flag value, dropping empty entries
func parseTableList(value string) []string {
	if value == "" {
		return nil
	}

	var list []string
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			list = append(list, t)
		}
	}
	return list
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
