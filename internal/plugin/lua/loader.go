package lua

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/smartquotes/internal/detect"
	"github.com/dshills/smartquotes/internal/quotes"
)

// Extensions is what a set of scripts contributed.
type Extensions struct {
	// Languages defined or redefined, in order.
	Languages []quotes.Language

	// Aliases declared, in order. They belong after the configured
	// rules.
	Aliases []detect.Alias
}

// Load runs the scripts at paths, in order, in one state. Styles are
// defined directly in table. The returned error joins the failure of
// every script that did not complete; Extensions is never nil.
func Load(ctx context.Context, table *quotes.Table, paths []string, opts ...StateOption) (*Extensions, error) {
	ext := &Extensions{}
	if len(paths) == 0 {
		return ext, nil
	}

	s := NewState(opts...)
	defer s.Close()

	b := NewBridge(table)
	b.Install(s)

	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.DoFile(ctx, path); err != nil {
			s.logger.WithField("script", path).Warn("%v", err)
			errs = append(errs, fmt.Errorf("script %s: %w", path, err))
			continue
		}
		s.logger.WithField("script", path).Debug("loaded")
	}

	ext.Languages = b.Defined()
	ext.Aliases = b.Aliases()
	return ext, errors.Join(errs...)
}
