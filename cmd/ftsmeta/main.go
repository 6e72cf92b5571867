// Command ftsmeta parses CMS File Transfer Summary documents into a
// YAML schema mapping, and optionally a fixed-width decode descriptor
// and the DDL to create the described tables.
//
// Sources and the database are configured through the environment (or a
// .env file); see internal/config. Typical runs:
//
//	ftsmeta -type medpar > medpar.yaml
//	ftsmeta -file 2015/medpar_2015.fts -fwf medpar_2015_fwf.yaml -data medpar_2015.dat
//	ftsmeta -family medicaid -type ps -ddl ps.sql
//	ftsmeta -type mbsf_abcd -apply -verify
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"

	"github.com/openmedex/ftsmeta/internal/config"
	"github.com/openmedex/ftsmeta/internal/database"
	"github.com/openmedex/ftsmeta/internal/database/mysql"
	"github.com/openmedex/ftsmeta/internal/database/postgres"
	"github.com/openmedex/ftsmeta/internal/ddl"
	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/filestore"
	"github.com/openmedex/ftsmeta/internal/filestore/local"
	"github.com/openmedex/ftsmeta/internal/filestore/minio"
	"github.com/openmedex/ftsmeta/internal/fts"
	"github.com/openmedex/ftsmeta/internal/logger"
	"github.com/openmedex/ftsmeta/internal/schema"
)

type options struct {
	family  string
	typ     string
	file    string
	out     string
	fwfOut  string
	data    string
	ddlOut  string
	dialect string
	apply   bool
	verify  bool
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.family, "family", "medicare", "source family: medicare or medicaid")
	flag.StringVar(&opts.typ, "type", "", "table type (medpar, mbsf_ab, ...; ps, ip); inferred from -file for medicare")
	flag.StringVar(&opts.file, "file", "", "parse a single document at this key instead of discovering by pattern")
	flag.StringVar(&opts.out, "out", "", "write the YAML schema mapping to this file (default stdout)")
	flag.StringVar(&opts.fwfOut, "fwf", "", "write the fixed-width decode descriptor to this file")
	flag.StringVar(&opts.data, "data", "", "data file path recorded in the decode descriptor")
	flag.StringVar(&opts.ddlOut, "ddl", "", "write the rendered DDL statements to this file")
	flag.StringVar(&opts.dialect, "dialect", "", "SQL dialect for DDL (default: the configured database driver)")
	flag.BoolVar(&opts.apply, "apply", false, "execute the DDL against the configured database")
	flag.BoolVar(&opts.verify, "verify", false, "check the live schema against the mapping")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	// .env is optional; when present it overrides the environment so a
	// project-local file wins over stale shell exports.
	envLoaded := godotenv.Overload() == nil

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ftsmeta:", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout carries the mapping when -out is unset.
	log := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	if envLoaded {
		log.Debug("loaded .env file")
	}

	if err := run(context.Background(), opts, cfg, log); err != nil {
		log.ErrorWith("ftsmeta failed", err, nil)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options, cfg *config.Config, log *logger.Logger) error {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	table, err := parse(ctx, opts, store, log)
	if err != nil {
		return err
	}

	mapping, err := table.Mapping()
	if err != nil {
		return err
	}
	if err := writeMapping(opts.out, mapping); err != nil {
		return err
	}
	log.InfoWith("schema mapping generated", map[string]interface{}{
		"table":   table.Name,
		"columns": len(table.Columns),
	})

	if opts.fwfOut != "" {
		if err := writeFWF(opts, table); err != nil {
			return err
		}
		log.InfoWith("decode descriptor generated", map[string]interface{}{
			"table": table.Name,
			"path":  opts.fwfOut,
		})
	}

	return runDDL(ctx, opts, cfg, log, mapping)
}

// parse builds the family parser and feeds it either the single -file
// document or every document matching the family pattern.
func parse(ctx context.Context, opts *options, store filestore.Store, log *logger.Logger) (*fts.Table, error) {
	conv := fts.DefaultConventions()

	typ := opts.typ
	if typ == "" {
		if opts.family != "medicare" || opts.file == "" {
			return nil, errs.New(errs.ErrKindInvalidInput, "-type is required")
		}
		// Medicare file names start with their table type.
		name := path.Base(strings.TrimSuffix(opts.file, ".gz"))
		inferred, err := conv.MedicareFileType(name)
		if err != nil {
			return nil, err
		}
		typ = inferred
	}

	var p *fts.Parser
	var err error
	switch opts.family {
	case "medicare":
		p, err = fts.NewMedicare(typ, conv, log)
	case "medicaid":
		p, err = fts.NewMedicaid(typ, conv, log)
	default:
		return nil, errs.New(errs.ErrKindInvalidInput,
			"unknown family: "+opts.family)
	}
	if err != nil {
		return nil, err
	}

	if opts.file != "" {
		if err := fts.ParseOne(ctx, store, p, opts.file); err != nil {
			return nil, err
		}
		return p.Table(), nil
	}
	return fts.ParseAll(ctx, store, p)
}

func newStore(ctx context.Context, cfg *config.Config) (filestore.Store, error) {
	if cfg.Source.Provider == "minio" {
		return minio.New(ctx, &filestore.Config{
			Provider:  filestore.ProviderMinIO,
			Endpoint:  cfg.Source.Endpoint,
			AccessKey: cfg.Source.AccessKey,
			SecretKey: cfg.Source.SecretKey,
			UseSSL:    cfg.Source.UseSSL,
			Region:    cfg.Source.Region,
			Bucket:    cfg.Source.Bucket,
		})
	}
	return local.New(filestore.DefaultConfig(cfg.Source.Root))
}

func writeMapping(out string, mapping schema.Mapping) error {
	data, err := mapping.Encode()
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "encode mapping", err)
	}
	if out == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "write "+out, err)
	}
	return nil
}

func writeFWF(opts *options, table *fts.Table) error {
	meta, err := table.FWFMeta(opts.data)
	if err != nil {
		return err
	}
	data, err := meta.Encode()
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "encode decode descriptor", err)
	}
	if err := os.WriteFile(opts.fwfOut, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "write "+opts.fwfOut, err)
	}
	return nil
}

// runDDL renders, optionally writes, applies, and verifies the DDL,
// depending on which of -ddl, -apply, -verify are set.
func runDDL(ctx context.Context, opts *options, cfg *config.Config, log *logger.Logger, mapping schema.Mapping) error {
	if opts.ddlOut == "" && !opts.apply && !opts.verify {
		return nil
	}

	name := opts.dialect
	if name == "" {
		name = cfg.Database.Driver
	}
	dialect, err := ddl.ParseDialect(name)
	if err != nil {
		return err
	}
	stmts, err := ddl.Statements(mapping, dialect)
	if err != nil {
		return err
	}

	if opts.ddlOut != "" {
		script := strings.Join(stmts, ";\n\n") + ";\n"
		if err := os.WriteFile(opts.ddlOut, []byte(script), 0o644); err != nil {
			return errs.Wrap(errs.ErrKindInvalidInput, "write "+opts.ddlOut, err)
		}
		log.InfoWith("DDL written", map[string]interface{}{
			"path":       opts.ddlOut,
			"statements": len(stmts),
		})
	}

	if !opts.apply && !opts.verify {
		return nil
	}

	db, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.apply {
		if err := ddl.Apply(ctx, db, stmts); err != nil {
			return err
		}
		log.InfoWith("DDL applied", map[string]interface{}{
			"statements": len(stmts),
		})
	}
	if opts.verify {
		if err := ddl.Verify(ctx, db, mapping); err != nil {
			return err
		}
		log.Info("live schema matches the mapping")
	}
	return nil
}

func connect(ctx context.Context, cfg *config.Config) (database.DB, error) {
	if cfg.Database.URL == "" {
		return nil, errs.New(errs.ErrKindInvalidInput,
			"DATABASE_URL is required for -apply and -verify")
	}

	dbCfg := database.DefaultConfig(cfg.Database.URL)
	dbCfg.Driver = database.Driver(cfg.Database.Driver)
	dbCfg.MaxConns = int32(cfg.Database.MaxConns)
	dbCfg.MinConns = int32(cfg.Database.MinConns)
	dbCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
	dbCfg.MaxConnIdleTime = cfg.Database.MaxConnIdleTime
	dbCfg.ConnectTimeout = cfg.Database.ConnectTimeout
	dbCfg.QueryTimeout = cfg.Database.QueryTimeout

	if dbCfg.Driver == database.DriverMySQL {
		return mysql.New(ctx, dbCfg)
	}
	return postgres.New(ctx, dbCfg)
}
