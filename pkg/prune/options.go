package prune

import (
	"github.com/benbjohnson/clock"

	"github.com/wuxler/regprune/pkg/errdefs"
	"github.com/wuxler/regprune/pkg/retention"
)

// DefaultConcurrency is the number of categories pruned at the same time.
const DefaultConcurrency = 4

// DefaultOptions returns the options of a careful run: the default leave
// count, kept manifests protected, one category at a time.
func DefaultOptions() Options {
	return Options{
		LeaveCount:  retention.DefaultLeaveCount,
		KeepShared:  true,
		Concurrency: DefaultConcurrency,
	}
}

// Options controls a [Pruner].
type Options struct {
	// LeaveCount is the number of highest-ordinal tags kept per category.
	LeaveCount int `json:"leave_count" yaml:"leave_count"`
	// DryRun plans without resolving or deleting anything.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
	// KeepShared skips deleting a manifest that a kept tag also points at,
	// since deleting a manifest removes every tag pointing at it.
	KeepShared bool `json:"keep_shared" yaml:"keep_shared"`
	// Concurrency bounds how many categories are processed at the same time.
	// Tags inside a category are always processed in ascending order.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// Clock times the reports, defaults to the wall clock.
	Clock clock.Clock `json:"-" yaml:"-"`
}

// Validate checks the options.
func (o Options) Validate() error {
	if err := (retention.Policy{LeaveCount: o.LeaveCount}).Validate(); err != nil {
		return err
	}
	if o.Concurrency < 0 {
		return errdefs.Newf(errdefs.ErrInvalidParameter, "concurrency must not be negative, got %d", o.Concurrency)
	}
	return nil
}

func (o Options) clock() clock.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return clock.New()
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return DefaultConcurrency
}
