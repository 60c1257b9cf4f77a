// Package prune deletes the surplus tags of registry repositories following a
// [retention.Policy]: per category the highest-ordinal tags are kept and the
// manifests of the others are deleted, lowest ordinal first.
package prune

import (
	"context"
	"errors"
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/wuxler/regprune/pkg/distribution"
	"github.com/wuxler/regprune/pkg/errdefs"
	"github.com/wuxler/regprune/pkg/retention"
	"github.com/wuxler/regprune/pkg/util/xcache"
	"github.com/wuxler/regprune/pkg/util/xcontext"
	"github.com/wuxler/regprune/pkg/xlog"
)

// New returns a [Pruner] working on registry.
func New(registry Registry, options Options) (*Pruner, error) {
	if registry == nil {
		return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "registry must not be nil")
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return &Pruner{
		registry: registry,
		options:  options,
		deleted:  xcache.NewMemory[string](),
	}, nil
}

// Pruner deletes surplus tags from the repositories of a registry.
type Pruner struct {
	registry Registry
	options  Options
	// deleted maps "repository@digest" to the tag the manifest was deleted with.
	deleted xcache.Cache[string]
}

// Options returns the options of the pruner.
func (p *Pruner) Options() Options {
	return p.options
}

// Catalog lists the repositories of the registry.
func (p *Pruner) Catalog(ctx context.Context) ([]string, error) {
	repositories, err := distribution.Collect(ctx, p.registry.ListRepositories())
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	return repositories, nil
}

// Plan lists the tags of repository and reports what a prune would keep and
// delete, without resolving or deleting anything.
func (p *Pruner) Plan(ctx context.Context, repository string) (*Report, error) {
	report, _, err := p.plan(ctx, repository)
	if err != nil {
		return nil, err
	}
	report.Duration = p.options.clock().Since(report.StartedAt)
	return report, nil
}

func (p *Pruner) plan(ctx context.Context, repository string) (*Report, Repository, error) {
	clk := p.options.clock()
	start := clk.Now()

	repo, err := p.registry.Repository(repository)
	if err != nil {
		return nil, nil, err
	}
	tags, err := distribution.Collect(ctx, repo.ListTags())
	if err != nil {
		return nil, nil, fmt.Errorf("list tags of %s: %w", repository, err)
	}
	categories := retention.Categorize(tags)
	plan, err := retention.PlanDeletions(categories, p.options.LeaveCount)
	if err != nil {
		return nil, nil, err
	}
	xlog.C(ctx).Debugf("%s: %d tags in %d categories, %d to delete", repository, len(tags), len(categories), plan.Len())
	return newReport(repository, p.options, categories, plan, start), repo, nil
}

// Prune deletes the surplus tags of repository. Failures of single tags are
// recorded in the report and do not stop the others. The returned error is
// only set when the repository could not be processed at all, or when ctx
// is done, in which case the partial report is returned too.
func (p *Pruner) Prune(ctx context.Context, repository string) (*Report, error) {
	ctx = xlog.WithContext(ctx, "repository", repository)
	report, repo, err := p.plan(ctx, repository)
	if err != nil {
		return nil, err
	}
	defer func() {
		report.Duration = p.options.clock().Since(report.StartedAt)
	}()

	if p.options.DryRun {
		for i := range report.Categories {
			c := &report.Categories[i]
			c.Results = make([]TagResult, 0, len(c.Planned))
			for _, tag := range c.Planned {
				c.Results = append(c.Results, TagResult{Tag: tag, Outcome: OutcomePlanned})
			}
		}
		return report, nil
	}

	if err := xcontext.NonBlockingCheck(ctx, "prune", repository); err != nil {
		return report, err
	}
	planned := lo.FlatMap(report.Categories, func(c CategoryReport, _ int) []string { return c.Planned })
	if len(planned) == 0 {
		return report, nil
	}
	// Every digest is resolved before the first deletion, which removes all
	// tags pointing at the deleted manifest.
	toResolve := planned
	if p.options.KeepShared {
		toResolve = append(toResolve, lo.FlatMap(report.Categories, func(c CategoryReport, _ int) []string { return c.Kept })...)
	}
	resolved := p.resolveTags(ctx, repo, toResolve)
	var kept map[digest.Digest]string
	if p.options.KeepShared {
		kept = keptDigests(ctx, report, resolved)
	}

	results := xsync.NewMapOf[string, []TagResult]()
	g := errgroup.Group{}
	g.SetLimit(p.options.concurrency())
	for _, c := range report.Categories {
		if len(c.Planned) == 0 {
			continue
		}
		g.Go(func() error {
			ctx := xlog.WithContext(ctx, "category", c.Name)
			res, err := p.pruneCategory(ctx, repo, c.Planned, resolved, kept)
			results.Store(c.Name, res)
			return err
		})
	}
	err = g.Wait()

	for i := range report.Categories {
		if res, ok := results.Load(report.Categories[i].Name); ok {
			report.Categories[i].Results = res
		}
	}
	xlog.C(ctx).Infof("%s: %d deleted, %d shared, %d protected, %d failed",
		repository, report.Count(OutcomeDeleted), report.Count(OutcomeShared), report.Count(OutcomeProtected), report.Count(OutcomeFailed))
	return report, err
}

// resolution is the outcome of resolving one tag.
type resolution struct {
	digest digest.Digest
	err    error
}

// resolveTags resolves the digests of tags concurrently.
func (p *Pruner) resolveTags(ctx context.Context, repo Repository, tags []string) map[string]resolution {
	results := xsync.NewMapOf[string, resolution]()
	g := errgroup.Group{}
	g.SetLimit(p.options.concurrency())
	for _, tag := range lo.Uniq(tags) {
		g.Go(func() error {
			desc, err := repo.Resolve(ctx, tag)
			results.Store(tag, resolution{digest: desc.Digest, err: err})
			return nil
		})
	}
	_ = g.Wait()

	resolved := make(map[string]resolution, results.Size())
	results.Range(func(tag string, r resolution) bool {
		resolved[tag] = r
		return true
	})
	return resolved
}

// keptDigests maps the digests of the kept tags of every category to the
// first kept tag holding them. Kept tags that failed to resolve are logged
// and left out.
func keptDigests(ctx context.Context, report *Report, resolved map[string]resolution) map[digest.Digest]string {
	kept := map[digest.Digest]string{}
	for _, c := range report.Categories {
		for _, tag := range c.Kept {
			r := resolved[tag]
			if r.err != nil {
				xlog.C(ctx).Warnf("unable to resolve kept tag %s: %v", tag, r.err)
				continue
			}
			if _, ok := kept[r.digest]; !ok {
				kept[r.digest] = tag
			}
		}
	}
	return kept
}

// pruneCategory processes planned tags in order. It stops early only when
// ctx is done.
func (p *Pruner) pruneCategory(ctx context.Context, repo Repository, planned []string, resolved map[string]resolution, kept map[digest.Digest]string) ([]TagResult, error) {
	results := make([]TagResult, 0, len(planned))
	for _, tag := range planned {
		if err := xcontext.NonBlockingCheck(ctx, "prune", repo.Name()); err != nil {
			return results, err
		}
		result := p.pruneTag(ctx, repo, tag, resolved[tag], kept)
		switch result.Outcome {
		case OutcomeFailed:
			xlog.C(ctx).Errorf("%s:%s: %s", repo.Name(), tag, result.Error)
		default:
			xlog.C(ctx).Debugf("%s:%s: %s", repo.Name(), tag, result.describe())
		}
		results = append(results, result)
	}
	return results, nil
}

func (p *Pruner) pruneTag(ctx context.Context, repo Repository, tag string, r resolution, kept map[digest.Digest]string) TagResult {
	result := TagResult{Tag: tag}
	fail := func(err error) TagResult {
		result.Outcome = OutcomeFailed
		result.Error = err.Error()
		return result
	}

	if r.err != nil {
		return fail(r.err)
	}
	result.Digest = r.digest

	if owner, ok := kept[r.digest]; ok {
		result.Outcome = OutcomeProtected
		result.SharedWith = owner
		return result
	}

	var deleteErr error
	performed := false
	owner, ok := p.deleted.Get(ctx, repo.Name()+"@"+r.digest.String(), xcache.WithLoader(func(ctx context.Context, _ string) (string, bool) {
		if err := repo.Delete(ctx, r.digest); err != nil {
			deleteErr = err
			return "", false
		}
		performed = true
		return tag, true
	}))
	switch {
	case performed:
		result.Outcome = OutcomeDeleted
	case ok:
		result.Outcome = OutcomeShared
		result.SharedWith = owner
	case deleteErr != nil:
		return fail(deleteErr)
	default:
		return fail(errors.New("deletion of the shared manifest failed"))
	}
	return result
}

// PruneAll prunes repositories one after the other. A repository failing does
// not stop the others, the errors are joined.
func (p *Pruner) PruneAll(ctx context.Context, repositories []string) ([]*Report, error) {
	reports := make([]*Report, 0, len(repositories))
	var errs []error
	for _, repository := range repositories {
		if err := xcontext.NonBlockingCheck(ctx); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := p.Prune(ctx, repository)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			xlog.C(ctx).Errorf("unable to prune %s: %v", repository, err)
			errs = append(errs, fmt.Errorf("%s: %w", repository, err))
		}
	}
	return reports, errors.Join(errs...)
}
