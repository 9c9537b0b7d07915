package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/metalagman/fitgenius/internal/api"
	"github.com/metalagman/fitgenius/internal/catalog"
	"github.com/metalagman/fitgenius/internal/config"
	"github.com/metalagman/fitgenius/internal/db"
	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/model"
	"github.com/metalagman/fitgenius/internal/schema"
)

// runtime bundles what a command needs to execute flows.
type runtime struct {
	catalog *catalog.Catalog
	store   *db.Store
	closeFn func() error
}

func (r *runtime) Close() error {
	if r.closeFn == nil {
		return nil
	}
	return r.closeFn()
}

// history returns the store as an api.History, or nil when history is disabled.
func (r *runtime) history() api.History {
	if r.store == nil {
		return nil
	}
	return r.store
}

// newRuntime builds the model invoker, opens the history store when
// store.path is set and assembles the catalog around them.
func newRuntime(ctx context.Context, c config.Config) (*runtime, error) {
	inv, err := model.New(ctx, c.Model)
	if err != nil {
		return nil, fmt.Errorf("init model: %w", err)
	}
	rt := &runtime{}
	var opts []flow.Option
	if c.Store.Path != "" {
		store, closeFn, err := openStore(ctx, c)
		if err != nil {
			return nil, err
		}
		rt.store = store
		rt.closeFn = closeFn
		opts = append(opts, flow.WithObserver(store))
	}
	cat, err := catalog.New(inv, catalog.WithOrchestrator(flow.New(opts...)))
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.catalog = cat
	return rt, nil
}

func openStore(ctx context.Context, c config.Config) (*db.Store, func() error, error) {
	if c.Store.Path == "" {
		return nil, nil, errors.New("store.path is not configured")
	}
	conn, err := db.Open(ctx, c.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	return db.NewStore(conn), conn.Close, nil
}

// offlineCatalog serves commands that only describe flows; any invocation
// fails as unavailable.
func offlineCatalog() (*catalog.Catalog, error) {
	return catalog.New(model.InvokerFunc(func(context.Context, model.Request) (schema.Value, error) {
		return nil, model.Failf(model.Unavailable, "no model configured")
	}))
}

// readInput parses a JSON object given inline, as @path or as - for stdin.
func readInput(arg string, stdin io.Reader) (schema.Value, error) {
	arg = strings.TrimSpace(arg)
	var raw []byte
	switch {
	case arg == "":
		return schema.Value{}, nil
	case arg == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = data
	case strings.HasPrefix(arg, "@"):
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}
		raw = data
	default:
		raw = []byte(arg)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var input schema.Value
	if err := dec.Decode(&input); err != nil {
		return nil, fmt.Errorf("input must be a JSON object: %w", err)
	}
	if input == nil {
		input = schema.Value{}
	}
	return input, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
