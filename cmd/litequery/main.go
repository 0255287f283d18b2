// Command litequery is the CLI front end for the query engine: a
// ".dbinfo"/".tables" pair of introspection commands plus a generic SQL
// command.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hgye/litequery/internal/query"
	"github.com/hgye/litequery/internal/sqlast"
)

var log = logrus.New()

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "litequery <database-file> <command>",
		Short:         "Read-only query engine for SQLite file-format databases",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], strings.Join(args[1:], " "))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return root
}

func run(dbPath, command string) error {
	log.WithFields(logrus.Fields{"db": dbPath, "command": command}).Debug("opening database")

	db, err := query.Open(dbPath)
	if err != nil {
		return fmt.Errorf("litequery: open %s: %w", dbPath, err)
	}
	defer db.Close()

	switch {
	case command == ".dbinfo":
		return runDBInfo(db)
	case command == ".tables":
		return runTables(db)
	default:
		return runSQL(db, command)
	}
}

func runDBInfo(db *query.Database) error {
	h := db.Header()
	fmt.Printf("database page size: %v\n", h.PageSize)

	tables, err := db.Run(context.Background(), "SELECT name FROM sqlite_schema")
	if err != nil {
		return err
	}
	fmt.Printf("number of tables: %v\n", len(tables[0].Rows))
	return nil
}

func runTables(db *query.Database) error {
	tables, err := db.Run(context.Background(), "SELECT name FROM sqlite_schema")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(tables[0].Rows))
	for _, row := range tables[0].Rows {
		names = append(names, row.Values[0].String())
	}
	fmt.Println(strings.Join(names, " "))
	return nil
}

func runSQL(db *query.Database, sql string) error {
	if log.IsLevelEnabled(logrus.DebugLevel) {
		if stmts, err := sqlast.Parse(sql); err == nil {
			var buf strings.Builder
			p := sqlast.NewPrinter(&buf)
			for _, s := range stmts {
				p.Print(s)
			}
			log.WithField("ast", buf.String()).Debug("parsed statement")
		}
	}

	tables, err := db.Run(context.Background(), sql)
	for _, table := range tables {
		printTable(table)
	}
	return err
}

// printTable renders one result set: a tab-pipe-tab separated header
// line, then one row per line with the same separator.
func printTable(table query.Table) {
	names := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		names[i] = col.Name
	}
	fmt.Println(strings.Join(names, "\t|\t"))
	for _, row := range table.Rows {
		parts := make([]string, len(row.Values))
		for i, v := range row.Values {
			parts[i] = v.String()
		}
		fmt.Println(strings.Join(parts, "\t|\t"))
	}
}
