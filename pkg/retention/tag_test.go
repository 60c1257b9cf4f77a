package retention_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wuxler/regprune/pkg/retention"
)

func TestCategoryOf(t *testing.T) {
	testcases := []struct {
		tag  string
		want string
	}{
		{tag: "v1", want: "v"},
		{tag: "v10", want: "v"},
		{tag: "1.0.0", want: ".."},
		{tag: "latest", want: "latest"},
		{tag: "123", want: ""},
		{tag: "", want: ""},
		{tag: "release-2024-01-02", want: "release---"},
		{tag: "v1.2-rc3", want: "v.-rc"},
	}
	for _, tc := range testcases {
		t.Run(tc.tag, func(t *testing.T) {
			assert.Equal(t, tc.want, retention.CategoryOf(tc.tag))
		})
	}
}

func TestOrdinalOf(t *testing.T) {
	testcases := []struct {
		tag  string
		want string
	}{
		{tag: "v1", want: "1"},
		{tag: "v1.2", want: "12"},
		{tag: "1.0.1", want: "101"},
		{tag: "latest", want: "0"},
		{tag: "0", want: "0"},
		{tag: "v007", want: "7"},
		{tag: "", want: "0"},
	}
	for _, tc := range testcases {
		t.Run(tc.tag, func(t *testing.T) {
			assert.Equal(t, tc.want, retention.OrdinalOf(tc.tag).String())
		})
	}
}

func TestOrdinal_Compare(t *testing.T) {
	testcases := []struct {
		a, b string
		want int
	}{
		{a: "v1", b: "v2", want: -1},
		{a: "v10", b: "v9", want: 1},
		{a: "v3", b: "v03", want: 0},
		{a: "latest", b: "0", want: 0},
		{a: "latest", b: "v1", want: -1},
		{
			a:    "sha256-9999999999999999999999999999999999999999",
			b:    "sha256-10000000000000000000000000000000000000000",
			want: -1,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			got := retention.OrdinalOf(tc.a).Compare(retention.OrdinalOf(tc.b))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewTag(t *testing.T) {
	tag := retention.NewTag("v1.2.3")
	assert.Equal(t, "v1.2.3", tag.String())
	assert.Equal(t, "v..", tag.Category)
	assert.Equal(t, retention.Ordinal("123"), tag.Ordinal)
	assert.False(t, tag.Ordinal.IsZero())
	assert.True(t, retention.NewTag("stable").Ordinal.IsZero())
}
