/*
Package retention groups image tags into version categories and selects
which of them are old enough to be removed.

A tag's category is the tag with every decimal digit removed, and its
ordinal is the digits it carries read as one integer:

	tag      category  ordinal
	v1       "v"       1
	v11      "v"       11
	1.0.1    ".."      101
	latest   "latest"  0

Within a category tags are ordered by ordinal, ties keeping the order they
were seen in. A [Plan] holds, per category, every tag except the newest
LeaveCount ones:

	plan, err := retention.Select(tags, retention.Policy{LeaveCount: 5})
	if err != nil {
		return err
	}
	for _, name := range plan.Names() {
		fmt.Println(name, plan[name])
	}

The package is network-agnostic and stateless, every call allocates a fresh
result so it is safe for concurrent use.
*/
package retention
