package retention_test

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuxler/regprune/pkg/errdefs"
	"github.com/wuxler/regprune/pkg/retention"
)

func names(tags []retention.Tag) []string {
	return lo.Map(tags, func(tag retention.Tag, _ int) string { return tag.Name })
}

func namesOf(m map[string][]retention.Tag) map[string][]string {
	return lo.MapValues(m, func(tags []retention.Tag, _ string) []string { return names(tags) })
}

func TestSelect_Scenarios(t *testing.T) {
	testcases := []struct {
		name       string
		tags       []string
		leaveCount int
		categories map[string][]string
		plan       map[string][]string
	}{
		{
			name:       "keep newest two versions",
			tags:       []string{"v1", "v2", "v3", "v10", "v11"},
			leaveCount: 2,
			categories: map[string][]string{"v": {"v1", "v2", "v3", "v10", "v11"}},
			plan:       map[string][]string{"v": {"v1", "v2", "v3"}},
		},
		{
			name:       "small categories are kept",
			tags:       []string{"latest", "stable", "v1"},
			leaveCount: 5,
			categories: map[string][]string{
				"latest": {"latest"},
				"stable": {"stable"},
				"v":      {"v1"},
			},
			plan: map[string][]string{},
		},
		{
			name:       "dotted versions concatenate digits",
			tags:       []string{"1.0.0", "1.0.1", "2.0.0"},
			leaveCount: 1,
			categories: map[string][]string{"..": {"1.0.0", "1.0.1", "2.0.0"}},
			plan:       map[string][]string{"..": {"1.0.0", "1.0.1"}},
		},
		{
			name:       "no tags",
			tags:       []string{},
			leaveCount: 3,
			categories: map[string][]string{},
			plan:       map[string][]string{},
		},
		{
			name:       "unordered input",
			tags:       []string{"v11", "build-7", "v2", "build-12", "v10", "build-3", "v1"},
			leaveCount: 2,
			categories: map[string][]string{
				"v":      {"v1", "v2", "v10", "v11"},
				"build-": {"build-3", "build-7", "build-12"},
			},
			plan: map[string][]string{
				"v":      {"v1", "v2"},
				"build-": {"build-3"},
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			categories := retention.Categorize(tc.tags)
			assert.Equal(t, tc.categories, namesOf(categories))

			plan, err := retention.Select(tc.tags, retention.Policy{LeaveCount: tc.leaveCount})
			require.NoError(t, err)
			assert.Equal(t, tc.plan, namesOf(plan))
		})
	}
}

func TestCategorize_StableTies(t *testing.T) {
	tags := []string{"b", "a1", "a01", "a", "a001", "c"}
	categories := retention.Categorize(tags)

	// "a1", "a01" and "a001" share ordinal 1 and keep their input order.
	assert.Equal(t, []string{"a", "a1", "a01", "a001"}, names(categories["a"]))
	assert.Equal(t, []string{"b"}, names(categories["b"]))
	assert.Equal(t, []string{"c"}, names(categories["c"]))
	assert.Equal(t, 6, categories.Len())
}

func TestCategorize_NoDigitsAndZero(t *testing.T) {
	categories := retention.Categorize([]string{"0", "latest", "00", "5"})
	assert.Equal(t, []string{"0", "00", "5"}, names(categories[""]))
	assert.Equal(t, []string{"latest"}, names(categories["latest"]))
}

func TestCategorize_Duplicates(t *testing.T) {
	categories := retention.Categorize([]string{"v2", "v1", "v2"})
	assert.Equal(t, []string{"v1", "v2", "v2"}, names(categories["v"]))
}

func TestPlanDeletions_Boundaries(t *testing.T) {
	categories := retention.Categorize([]string{"v1", "v2", "v3"})

	t.Run("leave count equals size", func(t *testing.T) {
		plan, err := retention.PlanDeletions(categories, 3)
		require.NoError(t, err)
		assert.Empty(t, plan)
		assert.Zero(t, plan.Len())
	})

	t.Run("leave count zero", func(t *testing.T) {
		plan, err := retention.PlanDeletions(categories, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"v1", "v2", "v3"}, names(plan["v"]))
	})

	t.Run("negative leave count", func(t *testing.T) {
		plan, err := retention.PlanDeletions(categories, -1)
		require.Error(t, err)
		assert.ErrorIs(t, err, errdefs.ErrInvalidParameter)
		assert.Nil(t, plan)
	})

	t.Run("plan does not alias categories", func(t *testing.T) {
		plan, err := retention.PlanDeletions(categories, 1)
		require.NoError(t, err)
		plan["v"][0] = retention.NewTag("changed")
		assert.Equal(t, "v1", categories["v"][0].Name)
	})
}

func TestPlan_NamesAndTags(t *testing.T) {
	plan, err := retention.Select([]string{"v1", "v2", "b1", "b2", "b3"}, retention.Policy{LeaveCount: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "v"}, plan.Names())
	assert.Equal(t, []string{"b1", "b2", "v1"}, names(plan.Tags()))
	assert.Equal(t, 3, plan.Len())
}

func TestKept(t *testing.T) {
	categories := retention.Categorize([]string{"v1", "v2", "v3", "latest"})
	plan, err := retention.PlanDeletions(categories, 2)
	require.NoError(t, err)

	kept := retention.Kept(categories, plan)
	assert.Equal(t, map[string][]string{
		"v":      {"v2", "v3"},
		"latest": {"latest"},
	}, namesOf(kept))
}

func TestDefaultPolicy(t *testing.T) {
	policy := retention.DefaultPolicy()
	assert.Equal(t, retention.DefaultLeaveCount, policy.LeaveCount)
	assert.NoError(t, policy.Validate())
	assert.ErrorIs(t, retention.Policy{LeaveCount: -3}.Validate(), errdefs.ErrInvalidParameter)
}

func randomTags(r *rand.Rand) []string {
	prefixes := []string{"v", "release-", "", "build.", "latest"}
	n := r.Intn(40)
	tags := make([]string, 0, n)
	for range n {
		prefix := prefixes[r.Intn(len(prefixes))]
		switch r.Intn(3) {
		case 0:
			tags = append(tags, prefix)
		case 1:
			tags = append(tags, fmt.Sprintf("%s%d", prefix, r.Intn(30)))
		default:
			tags = append(tags, fmt.Sprintf("%s%d.%d", prefix, r.Intn(3), r.Intn(12)))
		}
	}
	return tags
}

func TestSelect_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test input
	for i := range 200 {
		tags := randomTags(r)
		leaveCount := r.Intn(6)

		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			categories := retention.Categorize(tags)
			require.Equal(t, len(tags), categories.Len())

			for category, group := range categories {
				// sorted ascending by ordinal
				assert.True(t, slices.IsSortedFunc(group, func(a, b retention.Tag) int {
					return a.Ordinal.Compare(b.Ordinal)
				}), "category %q not sorted", category)
				for _, tag := range group {
					assert.Equal(t, category, tag.Category)
				}
			}

			// re-categorizing the flattened output gives the same grouping
			flattened := lo.FlatMap(categories.Names(), func(name string, _ int) []string {
				return names(categories[name])
			})
			assert.Equal(t, categories, retention.Categorize(flattened))

			plan, err := retention.PlanDeletions(categories, leaveCount)
			require.NoError(t, err)
			for category, group := range categories {
				deleted := plan[category]
				assert.LessOrEqual(t, len(deleted), max(0, len(group)-leaveCount))
				// the newest leaveCount tags are never selected
				top := group[max(0, len(group)-leaveCount):]
				assert.Equal(t, group, append(slices.Clone(deleted), top...))
			}
		})
	}
}
