package prune

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/wuxler/regprune/pkg/errdefs"
	"github.com/wuxler/regprune/pkg/retention"
)

// Outcome is what happened to a tag selected for deletion.
type Outcome string

const (
	// OutcomeDeleted means the manifest of the tag was deleted.
	OutcomeDeleted Outcome = "deleted"
	// OutcomePlanned means the tag would be deleted, in a dry run.
	OutcomePlanned Outcome = "planned"
	// OutcomeShared means the manifest was already deleted through another tag.
	OutcomeShared Outcome = "shared"
	// OutcomeProtected means the manifest is also pointed at by a kept tag.
	OutcomeProtected Outcome = "protected"
	// OutcomeFailed means resolving or deleting the tag failed.
	OutcomeFailed Outcome = "failed"
)

// Output formats of reports.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported report formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// TagResult is the outcome of one tag selected for deletion.
type TagResult struct {
	Tag     string        `json:"tag" yaml:"tag"`
	Digest  digest.Digest `json:"digest,omitempty" yaml:"digest,omitempty"`
	Outcome Outcome       `json:"outcome" yaml:"outcome"`
	// SharedWith names the tag the manifest was deleted or kept with.
	SharedWith string `json:"shared_with,omitempty" yaml:"shared_with,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// CategoryReport describes one category of a repository.
type CategoryReport struct {
	Name    string      `json:"name" yaml:"name"`
	Kept    []string    `json:"kept" yaml:"kept"`
	Planned []string    `json:"planned" yaml:"planned"`
	Results []TagResult `json:"results,omitempty" yaml:"results,omitempty"`
}

// Report describes the pruning of one repository.
type Report struct {
	Repository string           `json:"repository" yaml:"repository"`
	LeaveCount int              `json:"leave_count" yaml:"leave_count"`
	DryRun     bool             `json:"dry_run" yaml:"dry_run"`
	StartedAt  time.Time        `json:"started_at" yaml:"started_at"`
	Duration   time.Duration    `json:"duration" yaml:"duration"`
	Categories []CategoryReport `json:"categories" yaml:"categories"`
}

func newReport(repository string, options Options, categories retention.Categories, plan retention.Plan, start time.Time) *Report {
	kept := retention.Kept(categories, plan)
	return &Report{
		Repository: repository,
		LeaveCount: options.LeaveCount,
		DryRun:     options.DryRun,
		StartedAt:  start,
		Categories: lo.Map(categories.Names(), func(name string, _ int) CategoryReport {
			return CategoryReport{
				Name:    name,
				Kept:    tagNames(kept[name]),
				Planned: tagNames(plan[name]),
			}
		}),
	}
}

func tagNames(tags []retention.Tag) []string {
	return lo.Map(tags, func(tag retention.Tag, _ int) string { return tag.Name })
}

// Results returns the tag results of every category, in category order.
func (r *Report) Results() []TagResult {
	return lo.FlatMap(r.Categories, func(c CategoryReport, _ int) []TagResult {
		return c.Results
	})
}

// Count returns the number of tags with the given outcome.
func (r *Report) Count(outcome Outcome) int {
	return lo.CountBy(r.Results(), func(result TagResult) bool {
		return result.Outcome == outcome
	})
}

// Err returns the failures of the report joined, or nil.
func (r *Report) Err() error {
	errs := lo.FilterMap(r.Results(), func(result TagResult, _ int) (error, bool) {
		if result.Outcome != OutcomeFailed {
			return nil, false
		}
		return fmt.Errorf("%s:%s: %s", r.Repository, result.Tag, result.Error), true
	})
	return errors.Join(errs...)
}

// WriteText writes the human readable report.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	if len(r.Categories) == 0 {
		fmt.Fprintf(&sb, "No tags categories for %s\n", r.Repository)
	}
	for _, c := range r.Categories {
		if len(c.Planned) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "Tags to delete in category `%s`: %s\n", c.Name, strings.Join(c.Planned, ", "))
		for _, result := range c.Results {
			fmt.Fprintf(&sb, "\t%s:%s %s\n", r.Repository, result.Tag, result.describe())
		}
	}
	fmt.Fprintf(&sb, "Complete\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func (result TagResult) describe() string {
	switch result.Outcome {
	case OutcomeDeleted:
		return "removing manifest " + result.Digest.String()
	case OutcomePlanned:
		return "would be removed (dry run)"
	case OutcomeShared:
		return fmt.Sprintf("manifest %s already removed with tag %s", result.Digest, result.SharedWith)
	case OutcomeProtected:
		return fmt.Sprintf("keeping manifest %s shared with kept tag %s", result.Digest, result.SharedWith)
	default:
		return "failed: " + result.Error
	}
}

// WriteReports writes reports to w in format, one of [Formats]. JSON and
// YAML output is a list of reports.
func WriteReports(w io.Writer, format string, reports ...*Report) error {
	switch format {
	case "", FormatText:
		for _, report := range reports {
			if err := report.WriteText(w); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nonNil(reports))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nonNil(reports)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errdefs.Newf(errdefs.ErrInvalidParameter, "unsupported output format %q, must be one of %v", format, Formats)
	}
}

func nonNil(reports []*Report) []*Report {
	if reports == nil {
		return []*Report{}
	}
	return reports
}
