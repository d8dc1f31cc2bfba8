package atdf

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chipdesc/atdf-go/pkg/chip"
)

// BatchPolicy decides how ParseFields reacts to a failing field.
type BatchPolicy uint8

const (
	// PolicyFailFast stops at the first failure and returns no fields.
	PolicyFailFast BatchPolicy = iota

	// PolicyCollect parses every element, returns the fields that succeeded
	// and joins all failures.
	PolicyCollect
)

// String returns the policy name.
func (p BatchPolicy) String() string {
	switch p {
	case PolicyFailFast:
		return "fail-fast"
	case PolicyCollect:
		return "collect"
	default:
		return "unknown"
	}
}

// ParseBatchPolicy parses a policy name as printed by String.
func ParseBatchPolicy(s string) (BatchPolicy, error) {
	switch strings.ToLower(s) {
	case "fail-fast", "":
		return PolicyFailFast, nil
	case "collect":
		return PolicyCollect, nil
	default:
		return 0, fmt.Errorf("invalid batch policy %q (valid: fail-fast, collect)", s)
	}
}

// Extracted pairs a built field with the element it came from.
type Extracted struct {
	Element *Element
	Field   *chip.Field
}

// ParseFields builds a Field for each element. Fields are returned in input
// order regardless of parallelism.
//
// With PolicyFailFast the first failure cancels the remaining work and is
// returned alone; with several workers "first" means first to occur, not
// lowest index. With PolicyCollect the returned fields skip failed elements
// and the error joins every failure in input order.
//
// Every failure is also sent to the diagnostics logger.
func (p *Parser) ParseFields(ctx context.Context, els []*Element) ([]*chip.Field, error) {
	extracted, err := p.ExtractFields(ctx, els)
	if extracted == nil && err != nil {
		return nil, err
	}
	fields := make([]*chip.Field, len(extracted))
	for i, x := range extracted {
		fields[i] = x.Field
	}
	return fields, err
}

// ExtractFields is ParseFields, keeping the source element of every field.
func (p *Parser) ExtractFields(ctx context.Context, els []*Element) ([]Extracted, error) {
	results := make([]*chip.Field, len(els))
	failures := make([]error, len(els))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())

	for i, el := range els {
		i, el := i, el
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := p.ParseField(el)
			if err != nil {
				p.report(err)
				if p.cfg.Policy == PolicyFailFast {
					return err
				}
				failures[i] = err
				return nil
			}
			results[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	extracted := make([]Extracted, 0, len(els))
	for i, f := range results {
		if f != nil {
			extracted = append(extracted, Extracted{Element: els[i], Field: f})
		}
	}
	return extracted, errors.Join(failures...)
}

func (p *Parser) workers() int {
	if p.cfg.Workers > 0 {
		return p.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}
