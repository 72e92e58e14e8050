// Package contentgen supplies practice questions and imported vocabulary.
package contentgen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/catalog"
)

// ErrUnsupportedCategory is returned by a source that cannot build
// questions for a category.
var ErrUnsupportedCategory = errors.New("category not supported by this source")

// Source produces practice questions.
type Source interface {
	// Questions returns up to count well-formed questions for category.
	Questions(ctx context.Context, category catalog.Category, count int) ([]catalog.Question, error)
}

// Chain asks each source in turn and returns the first non-empty result.
type Chain struct {
	sources []Source
	logger  *zap.Logger
}

// NewChain skips nil sources.
func NewChain(logger *zap.Logger, sources ...Source) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Chain{logger: logger}
	for _, s := range sources {
		if s != nil {
			c.sources = append(c.sources, s)
		}
	}
	return c
}

func (c *Chain) Questions(ctx context.Context, category catalog.Category, count int) ([]catalog.Question, error) {
	var errs []error
	for _, s := range c.sources {
		qs, err := s.Questions(ctx, category, count)
		if err == nil && len(qs) > 0 {
			return qs, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !errors.Is(err, ErrUnsupportedCategory) {
				c.logger.Warn("question source failed", zap.String("category", string(category)), zap.Error(err))
			}
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil, nil
	}
	return nil, fmt.Errorf("no questions for %s: %w", category, errors.Join(errs...))
}
