package inference

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
)

// Fallback sends each vision request to its providers in order and returns
// the first answer. A provider that rejects its credentials is skipped for
// the rest of the process lifetime.
type Fallback struct {
	providers []Provider
	disabled  []atomic.Bool
	logger    *slog.Logger
}

// NewFallback builds a Fallback over providers, primary first.
func NewFallback(logger *slog.Logger, providers ...Provider) (*Fallback, error) {
	if len(providers) == 0 {
		return nil, ErrProviderUnavailable
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{
		providers: providers,
		disabled:  make([]atomic.Bool, len(providers)),
		logger:    logger.With("component", "inference.fallback"),
	}, nil
}

// Vision implements Provider.
func (f *Fallback) Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
	var errs []error

	for i, p := range f.providers {
		if f.disabled[i].Load() {
			continue
		}

		resp, err := p.Vision(ctx, req)
		if err == nil {
			if len(errs) > 0 {
				f.logger.Info("fallback provider answered", "index", i, "failed", len(errs))
			}
			return resp, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		errs = append(errs, err)
		if IsAuthError(err) {
			f.disabled[i].Store(true)
			f.logger.Error("provider rejected credentials, disabling", "index", i, "error", err)
			continue
		}
		f.logger.Warn("provider failed, trying next", "index", i, "error", err)
	}

	if len(errs) == 0 {
		return nil, ErrProviderUnavailable
	}
	return nil, &FallbackError{Errors: errs}
}

// Health succeeds when at least one enabled provider is healthy.
func (f *Fallback) Health(ctx context.Context) error {
	var errs []error
	for i, p := range f.providers {
		if f.disabled[i].Load() {
			continue
		}
		err := p.Health(ctx)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return ErrProviderUnavailable
	}
	return &FallbackError{Errors: errs}
}

// Close closes every provider.
func (f *Fallback) Close() error {
	var errs []error
	for _, p := range f.providers {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}

// Active returns the number of providers still in rotation.
func (f *Fallback) Active() int {
	n := 0
	for i := range f.disabled {
		if !f.disabled[i].Load() {
			n++
		}
	}
	return n
}

var _ Provider = (*Fallback)(nil)
