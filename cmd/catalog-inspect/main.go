// Command catalog-inspect hydrates a catalog from the configured mirror and
// prints its membership. Intended for operators checking what a catalog
// believes it contains and where it last saw each member.
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

	"catalogcore/internal/core"
	"catalogcore/internal/locate"
	lfs "catalogcore/internal/locate/fs"
	"catalogcore/internal/persistence"
	"catalogcore/pkg/domain"
)

var exitFunc = os.Exit

type options struct {
	asJSON bool
	names  bool
	roots  string
}

func main() {
	var opts options
	flag.BoolVar(&opts.asJSON, "json", false, "emit members as JSON")
	flag.BoolVar(&opts.names, "names", false, "resolve display names (best effort)")
	flag.StringVar(&opts.roots, "roots", "", "comma-separated search roots for member discovery")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(context.Background(), os.Stdout, logger, opts); err != nil {
		logger.Error("catalog-inspect failed", "error", err)
		exitFunc(1)
		return
	}
	exitFunc(0)
}

func run(ctx context.Context, w io.Writer, logger *slog.Logger, opts options) error {
	mirror, err := persistence.Open()
	if err != nil {
		return fmt.Errorf("open mirror: %w", err)
	}
	defer func() { _ = mirror.Close() }()

	var roots []string
	for _, r := range strings.Split(opts.roots, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roots = append(roots, r)
		}
	}
	resolver := locate.Chain{lfs.New(roots...)}
	catalog, err := core.New(resolver, core.WithMirror(mirror), core.WithLogger(logger))
	if err != nil {
		return err
	}

	records := catalog.Snapshot()
	var names []string
	if opts.names {
		if names, err = catalog.Names(ctx); err != nil {
			return err
		}
	}
	if opts.asJSON {
		return writeJSON(w, records, names)
	}
	for i, r := range records {
		line := fmt.Sprintf("%d\t%s\t%s\t%s", i, r.ID, r.Kind, r.Location)
		if opts.names {
			line += "\t" + names[i]
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type memberOut struct {
	domain.MemberRecord
	Name string `json:"name,omitempty"`
}

func writeJSON(w io.Writer, records []domain.MemberRecord, names []string) error {
	out := make([]memberOut, len(records))
	for i, r := range records {
		out[i] = memberOut{MemberRecord: r}
		if names != nil {
			out[i].Name = names[i]
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
