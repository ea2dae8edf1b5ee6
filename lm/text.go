package lm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/gramwalk/gram"
)

// ErrMalformedLine indicates a dictionary line that cannot be parsed.
var ErrMalformedLine = errors.New("lm: malformed dictionary line")

// ParseText reads a dictionary from r.
func ParseText(r io.Reader) (*gram.MapModel, error) {
	m := gram.NewMapModel(nil)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: want 3 fields, got %d", ErrMalformedLine, lineNo, len(fields))
		}
		score, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: score %q", ErrMalformedLine, lineNo, fields[2])
		}
		if err := m.Add(fields[0], fields[1], score); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedLine, lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("lm: read dictionary: %w", err)
	}

	return m, nil
}

// LoadFile parses the dictionary at path.
func LoadFile(path string) (*gram.MapModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lm: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseText(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// LoadFiles parses every path concurrently and merges the results in argument
// order, so for equal scores the earlier file's grams rank first. The first
// failure cancels the remaining loads.
func LoadFiles(ctx context.Context, paths ...string) (*gram.MapModel, error) {
	parts := make([]*gram.MapModel, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := LoadFile(path)
			if err != nil {
				return err
			}
			parts[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := gram.NewMapModel(nil)
	for _, part := range parts {
		out.Merge(part)
	}

	return out, nil
}
