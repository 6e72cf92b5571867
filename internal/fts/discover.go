package fts

import (
	"compress/gzip"
	"context"
	"sort"
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/filestore"
)

// Discover lists the store and returns the keys matching pattern,
// sorted so multi-file reconciliation runs in a stable order. Gzipped
// documents are discovered under their uncompressed name.
func Discover(ctx context.Context, store filestore.Store, pattern string) ([]string, error) {
	files, err := store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, f := range files {
		ok, err := filestore.Match(pattern, strings.TrimSuffix(f.Key, ".gz"))
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "pattern "+pattern, err)
		}
		if ok {
			keys = append(keys, f.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// ParseAll discovers every file matching the parser's pattern and feeds
// each to the parser in sorted order. Gzipped documents (".gz" keys)
// are decompressed transparently. At least one file must match.
func ParseAll(ctx context.Context, store filestore.Store, p *Parser) (*Table, error) {
	keys, err := Discover(ctx, store, p.Pattern())
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound,
			"no files match %s", p.Pattern())
	}

	for _, key := range keys {
		if err := ParseOne(ctx, store, p, key); err != nil {
			return nil, err
		}
	}
	return p.Table(), nil
}

// ParseOne opens the document at key and feeds it to the parser,
// decompressing ".gz" keys transparently.
func ParseOne(ctx context.Context, store filestore.Store, p *Parser, key string) error {
	f, err := store.Open(ctx, key)
	if err != nil {
		return err
	}
	defer f.Close()

	if !strings.HasSuffix(key, ".gz") {
		return p.ReadFile(key, f)
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "gunzip "+key, err)
	}
	defer gz.Close()
	return p.ReadFile(strings.TrimSuffix(key, ".gz"), gz)
}
