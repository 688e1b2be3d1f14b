package main

import (
	"context"
	"fmt"

	"github.com/Its-donkey/pricing-protocol/internal/config"
	"github.com/Its-donkey/pricing-protocol/internal/pricing"
)

// openSource builds the session source named by cfg. The returned func
// releases any connections it holds.
func openSource(ctx context.Context, cfg config.SourceConfig) (pricing.Source, func(), error) {
	noop := func() {}
	switch cfg.Kind {
	case config.SourcePlaceholder, "":
		return pricing.NewPlaceholderSource(), noop, nil
	case config.SourceJSON:
		src, err := pricing.NewJSONSource(cfg.File)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	case config.SourcePostgres:
		src, err := pricing.OpenPostgresSource(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := src.EnsureSchema(ctx); err != nil {
			src.Close()
			return nil, noop, fmt.Errorf("ensure schema: %w", err)
		}
		return src, src.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
