package xhttp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wuxler/regprune/pkg/xlog"
)

// FallbackDelay is how long the primary [Pinger] runs alone before the
// fallback starts racing it.
var FallbackDelay = 300 * time.Millisecond

// Pinger used to detect "http" or "https" scheme.
type Pinger interface {
	fmt.Stringer
	Ping(ctx context.Context) (bool, error)
}

// PingParallel races primary against fallback and reports whether the primary
// won. The fallback is started after [FallbackDelay], or at once when the
// primary fails first.
//
// See: https://github.com/google/go-containerregistry/pull/1521
//
//nolint:gocognit // known complexity
func PingParallel(ctx context.Context, primary, fallback Pinger) (bool, error) {
	if fallback == nil {
		return primary.Ping(ctx)
	}
	returned := make(chan struct{})
	defer close(returned)

	type pingResult struct {
		err     error
		primary bool
		done    bool
	}
	results := make(chan pingResult) // unbuffered

	race := func(ctx context.Context, p Pinger, isPrimary bool) {
		ok, err := p.Ping(ctx)
		if err == nil && !ok {
			err = fmt.Errorf("%s: not reachable", p)
		}
		select {
		case results <- pingResult{err: err, primary: isPrimary, done: true}:
		case <-returned:
			if err == nil {
				xlog.C(ctx).Debugf("%s lost race", p)
			}
		}
	}

	primaryCtx, primaryCancel := context.WithCancel(ctx)
	defer primaryCancel()
	go race(primaryCtx, primary, true)

	fallbackTimer := time.NewTimer(FallbackDelay)
	defer fallbackTimer.Stop()

	var primaryResult, fallbackResult pingResult
	for {
		select {
		case <-fallbackTimer.C:
			fallbackCtx, fallbackCancel := context.WithCancel(ctx)
			defer fallbackCancel() //nolint:gocritic // fires once
			go race(fallbackCtx, fallback, false)

		case res := <-results:
			if res.err == nil {
				return res.primary, nil
			}
			if res.primary {
				primaryResult = res
			} else {
				fallbackResult = res
			}
			if primaryResult.done && fallbackResult.done {
				return false, errors.Join(primaryResult.err, fallbackResult.err)
			}
			// primary failed before the fallback started, start it now
			if res.primary && fallbackTimer.Stop() {
				fallbackTimer.Reset(0)
			}
		}
	}
}
