// Command pgconvert reads rows from a PostgreSQL table or query and converts
// them to JSON, CSV, SQL statements, MongoDB documents, a SQLite database or
// an XLSX workbook.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pgconvert/config"
	"pgconvert/converters"
	_ "pgconvert/converters/all"
	"pgconvert/converters/common"
	"pgconvert/converters/mongodb"
	"pgconvert/db"
	"pgconvert/logger"

	"github.com/urfave/cli-altsrc/v3"
	yamlsrc "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

func main() {
	var (
		configPath string
		format     string
		table      string
		query      string
		output     string
		verbose    bool
	)

	cmd := &cli.Command{
		Name:  "pgconvert",
		Usage: "convert PostgreSQL data to json, csv, sql, mongodb, sqlite or xlsx",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Value:       "config/default_config.yaml",
				Usage:       "path to the YAML configuration file",
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format: " + strings.Join(converters.Formats(), ", "),
				Destination: &format,
				Sources: cli.NewValueSourceChain(
					yamlsrc.YAML("output.default_format", altsrc.NewStringPtrSourcer(&configPath))),
			},
			&cli.StringFlag{
				Name:        "output",
				Usage:       "output file path (or a mongodb:// URI for direct import)",
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "enable debug logging",
				Destination: &verbose,
			},
		},
		MutuallyExclusiveFlags: []cli.MutuallyExclusiveFlags{{
			Flags: [][]cli.Flag{
				{
					&cli.StringFlag{
						Name:        "table",
						Usage:       "PostgreSQL table to extract",
						Destination: &table,
					},
				},
				{
					&cli.StringFlag{
						Name:        "query",
						Usage:       "SQL query to extract",
						Destination: &query,
					},
				},
			},
		}},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := logger.Setup(cfg.Logging, verbose); err != nil {
				return err
			}

			if format == "" {
				format = cfg.Output.DefaultFormat
			}
			converter, err := converters.Lookup(format)
			if err != nil {
				return err
			}
			if table == "" && query == "" {
				return fmt.Errorf("no table or query specified")
			}
			if output == "" {
				output = filepath.Join(cfg.Output.OutputDir, "output."+format)
			}

			return run(ctx, cfg, converter, &common.Request{
				Format:          format,
				Table:           table,
				Query:           query,
				Output:          output,
				TableName:       cfg.SQL.TableName,
				Compact:         cfg.JSON.Compact,
				Delimiter:       cfg.DelimiterRune(),
				SQLBatchSize:    sqlBatchSize(cfg),
				MongoURI:        cfg.MongoDB.URI,
				MongoDatabase:   cfg.MongoDB.Database,
				MongoCollection: cfg.MongoDB.Collection,
				MongoDateTags:   cfg.MongoDB.DateTags,
			})
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pgconvert: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, converter common.Converter, req *common.Request) error {
	slog.Info("Starting conversion", "format", req.Format)

	connector, err := db.Connect(ctx, cfg.PostgreSQL)
	if err != nil {
		return err
	}
	defer connector.Close()

	var rs *common.ResultSet
	if req.Query != "" {
		slog.Info("Executing custom query", "query", req.Query)
		rs, err = connector.FetchQuery(ctx, req.Query)
	} else {
		slog.Info("Extracting table", "table", req.Table)
		rs, err = connector.FetchTable(ctx, req.Table)
	}
	if err != nil {
		return err
	}

	rs = converter.Preprocess(rs, req)

	if isMongoURI(req.Output) {
		return directImport(ctx, rs, req)
	}

	artifact, err := converter.Convert(rs, req)
	if err != nil {
		return err
	}
	if err := converters.WriteArtifact(artifact, req.Output); err != nil {
		return err
	}

	slog.Info("Conversion completed", "rows", len(rs.Rows), "output", req.Output)
	return nil
}

// directImport hands the converted documents to a live MongoDB collection
// instead of writing a file. Only the mongodb format supports it.
func directImport(ctx context.Context, rs *common.ResultSet, req *common.Request) error {
	if req.Format != "mongodb" {
		return fmt.Errorf("format %q cannot write to a mongodb:// destination", req.Format)
	}

	sink, err := mongodb.NewSink(ctx, req.Output, req.MongoDatabase, req.MongoCollection)
	if err != nil {
		return err
	}
	defer sink.Close(ctx)

	docs := mongodb.BuildDocuments(rs, req)
	if err := mongodb.Import(ctx, sink, docs); err != nil {
		return err
	}

	slog.Info("Direct import completed", "documents", len(docs), "collection", req.MongoCollection)
	return nil
}

func isMongoURI(dest string) bool {
	return strings.HasPrefix(dest, "mongodb://") || strings.HasPrefix(dest, "mongodb+srv://")
}

func sqlBatchSize(cfg *config.Config) int {
	if cfg.SQL.UseBatchInsert {
		return cfg.SQL.BatchSize
	}
	return 1
}
