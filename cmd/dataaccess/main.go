/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command dataaccess keeps notes in the configured store.
//
//	dataaccess [-config file] add [-body text] [-pin] <title>
//	dataaccess list [-where expr] [-sort field] [-desc] [-limit n] [-offset n] [-json]
//	dataaccess count [-where expr]
//	dataaccess get <id>
//	dataaccess pin <id>
//	dataaccess delete <id>
//
// A where expression is "<field><op><value>" with op one of
// == != <= >= < > ~= (contains) ^= (begins with).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/suparena/dataaccess"
	"github.com/suparena/dataaccess/config"
	"github.com/suparena/dataaccess/execution"
	"github.com/suparena/dataaccess/query"
	"github.com/suparena/dataaccess/telemetry"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dataaccess", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the config file")
	versionFlag := fs.Bool("version", false, "Show version information")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *versionFlag {
		info := dataaccess.GetVersionInfo()
		fmt.Fprintf(stdout, "dataaccess version %s\n", info.Version)
		fmt.Fprintf(stdout, "Git commit: %s\n", info.GitCommit)
		fmt.Fprintf(stdout, "Build date: %s\n", info.BuildDate)
		fmt.Fprintf(stdout, "Go version: %s\n", info.GoVersion)
		return 0
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: dataaccess [-config file] add|list|count|get|pin|delete ...")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	logger := cfg.Log.NewLogger()
	slog.SetDefault(logger)

	shutdown, err := telemetry.Setup(cfg.Tracing.Endpoint, cfg.Tracing.Service)
	if err != nil {
		logger.Error("telemetry setup failed", slog.Any("error", err))
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	store, closeStore, err := dataaccess.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store failed", slog.String("backend", cfg.Backend), slog.Any("error", err))
		return 1
	}
	defer closeStore()

	catalog := dataaccess.NewCatalog(execution.New(store, execution.WithLogger(logger)))
	cli := &notesCLI{
		notes:  dataaccess.RepositoryFor[*Note](catalog),
		stdout: stdout,
	}

	if err := cli.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}
	return 0
}

type notesCLI struct {
	notes  *dataaccess.Repository[*Note]
	stdout io.Writer
}

func (c *notesCLI) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "add":
		return c.add(ctx, args)
	case "list":
		return c.list(ctx, args)
	case "count":
		return c.count(ctx, args)
	case "get":
		return c.get(ctx, args)
	case "pin":
		return c.pin(ctx, args)
	case "delete":
		return c.delete(ctx, args)
	}
	return fmt.Errorf("unknown command")
}

func (c *notesCLI) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	body := fs.String("body", "", "Note body")
	pin := fs.Bool("pin", false, "Pin the note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("title required")
	}

	note, err := c.notes.CreateNewInstance(ctx)
	if err != nil {
		return err
	}
	note.ID = uuid.New()
	note.Title = strings.Join(fs.Args(), " ")
	note.Body = *body
	note.Pinned = *pin
	note.CreatedAt = strfmt.DateTime(time.Now().UTC())
	if err := c.notes.Save(ctx, note); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, note.ID)
	return nil
}

func (c *notesCLI) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	where := fs.String("where", "", "Filter expression")
	sortField := fs.String("sort", "createdAt", "Sort field")
	desc := fs.Bool("desc", false, "Sort descending")
	limit := fs.Int("limit", -1, "Maximum number of notes")
	offset := fs.Int("offset", 0, "Notes to skip")
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := []query.Option{query.Offset(*offset)}
	if *limit >= 0 {
		opts = append(opts, query.Limit(*limit))
	}
	if *where != "" {
		p, err := parseWhere(*where)
		if err != nil {
			return err
		}
		opts = append(opts, query.Where(p))
	}
	sort := query.Asc(*sortField)
	if *desc {
		sort = query.Desc(*sortField)
	}
	opts = append(opts, query.OrderBy(sort))

	views, err := dataaccess.FetchModels[NoteView](ctx, c.notes, query.NewParams(opts...))
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPINNED\tCREATED\tTITLE")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", v.ID, v.Pinned, v.Created.Format(time.RFC3339), v.Title)
	}
	return tw.Flush()
}

func (c *notesCLI) count(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	where := fs.String("where", "", "Filter expression")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var p *query.Predicate
	if *where != "" {
		var err error
		if p, err = parseWhere(*where); err != nil {
			return err
		}
	}
	n, err := c.notes.FetchCount(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, n)
	return nil
}

func (c *notesCLI) lookup(ctx context.Context, args []string) (*Note, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one note id")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	note, found, err := c.notes.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("note %s not found", id)
	}
	return note, nil
}

func (c *notesCLI) get(ctx context.Context, args []string) error {
	note, err := c.lookup(ctx, args)
	if err != nil {
		return err
	}
	view, err := note.ToModel()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func (c *notesCLI) pin(ctx context.Context, args []string) error {
	note, err := c.lookup(ctx, args)
	if err != nil {
		return err
	}
	note.Pinned = true
	return c.notes.Save(ctx, note)
}

func (c *notesCLI) delete(ctx context.Context, args []string) error {
	note, err := c.lookup(ctx, args)
	if err != nil {
		return err
	}
	return c.notes.Delete(ctx, note)
}

// Longer operators first so "<=" is not read as "<".
var whereOperators = []struct {
	token string
	op    query.Operator
}{
	{"==", query.Equal},
	{"!=", query.NotEqual},
	{"<=", query.LessThanOrEqual},
	{">=", query.GreaterThanOrEqual},
	{"~=", query.Contains},
	{"^=", query.BeginsWith},
	{"<", query.LessThan},
	{">", query.GreaterThan},
}

// parseWhere reads "<field><op><value>".
func parseWhere(expr string) (*query.Predicate, error) {
	best, bestAt := -1, len(expr)
	for i, w := range whereOperators {
		if at := strings.Index(expr, w.token); at >= 0 && at < bestAt {
			best, bestAt = i, at
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("no operator in %q", expr)
	}
	field := strings.TrimSpace(expr[:bestAt])
	if field == "" {
		return nil, fmt.Errorf("no field in %q", expr)
	}
	value := strings.TrimSpace(expr[bestAt+len(whereOperators[best].token):])
	return &query.Predicate{Field: field, Operator: whereOperators[best].op, Value: value}, nil
}
