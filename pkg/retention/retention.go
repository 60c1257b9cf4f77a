package retention

import (
	"slices"

	"github.com/samber/lo"

	"github.com/wuxler/regprune/pkg/errdefs"
)

// DefaultLeaveCount is the number of tags kept per category when not configured.
const DefaultLeaveCount = 5

// Policy configures the retention selection.
type Policy struct {
	// LeaveCount is the number of highest-ordinal tags kept in each category.
	LeaveCount int `json:"leave_count" yaml:"leave_count"`
}

// DefaultPolicy returns the policy keeping DefaultLeaveCount tags per category.
func DefaultPolicy() Policy {
	return Policy{LeaveCount: DefaultLeaveCount}
}

// Validate returns an error matching errdefs.ErrInvalidParameter when the
// policy can not be applied.
func (p Policy) Validate() error {
	if p.LeaveCount < 0 {
		return errdefs.Newf(errdefs.ErrInvalidParameter, "leave count must not be negative, got %d", p.LeaveCount)
	}
	return nil
}

// Categories maps a category to its tags sorted by ascending ordinal.
type Categories map[string][]Tag

// Names returns the category names in lexical order.
func (c Categories) Names() []string {
	return sortedNames(c)
}

// Len returns the number of tags over all categories.
func (c Categories) Len() int {
	return countTags(c)
}

// Plan maps a category to the tags selected for deletion, in the order the
// deletions should be issued (ascending ordinal).
type Plan map[string][]Tag

// Names returns the category names in lexical order.
func (p Plan) Names() []string {
	return sortedNames(p)
}

// Len returns the number of tags selected for deletion.
func (p Plan) Len() int {
	return countTags(p)
}

// Tags flattens the plan by category name, keeping the per-category order.
func (p Plan) Tags() []Tag {
	return lo.FlatMap(p.Names(), func(name string, _ int) []Tag {
		return p[name]
	})
}

// Categorize groups tags by category and sorts each group by ordinal.
// Duplicates are preserved and tags with equal ordinals keep their input
// order. It never fails, any string is a valid tag.
func Categorize(tags []string) Categories {
	result := Categories{}
	for _, name := range tags {
		tag := NewTag(name)
		result[tag.Category] = append(result[tag.Category], tag)
	}
	for _, group := range result {
		slices.SortStableFunc(group, func(a, b Tag) int {
			return a.Ordinal.Compare(b.Ordinal)
		})
	}
	return result
}

// PlanDeletions selects, for each category holding more than leaveCount
// tags, all but its last leaveCount tags. Categories with at most
// leaveCount tags are kept entirely and have no entry in the plan.
//
// A negative leaveCount fails with errdefs.ErrInvalidParameter and no plan.
func PlanDeletions(categories Categories, leaveCount int) (Plan, error) {
	if err := (Policy{LeaveCount: leaveCount}).Validate(); err != nil {
		return nil, err
	}
	plan := Plan{}
	for category, tags := range categories {
		if len(tags) <= leaveCount {
			continue
		}
		plan[category] = slices.Clone(tags[:len(tags)-leaveCount])
	}
	return plan, nil
}

// Select categorizes the tags and plans the deletions with the policy.
func Select(tags []string, policy Policy) (Plan, error) {
	return PlanDeletions(Categorize(tags), policy.LeaveCount)
}

// Kept returns, per category, the tags that survive the plan.
func Kept(categories Categories, plan Plan) Categories {
	kept := Categories{}
	for category, tags := range categories {
		kept[category] = slices.Clone(tags[len(plan[category]):])
	}
	return kept
}

func sortedNames(m map[string][]Tag) []string {
	names := lo.Keys(m)
	slices.Sort(names)
	return names
}

func countTags(m map[string][]Tag) int {
	return lo.SumBy(lo.Values(m), func(tags []Tag) int { return len(tags) })
}
