package campground

import (
	"regexp"
	"strings"
)

type Category struct {
	Name     string
	Keywords []string
}

// categories is ordered; the order is part of the error payload for an
// unknown category and decides ties in CategoryOf.
var categories = []Category{
	{Name: "ocean", Keywords: []string{"ocean", "sea", "bay", "beach", "coast", "bayshore"}},
	{Name: "mountain", Keywords: []string{"mountain", "peak", "summit", "alpine", "ridge"}},
	{Name: "desert", Keywords: []string{"desert", "sand", "dune", "mesa", "canyon"}},
	{Name: "river", Keywords: []string{"river", "creek", "stream", "rapids", "waterfall", "creekside"}},
	{Name: "lake", Keywords: []string{"lake", "pond", "reservoir", "lagoon"}},
	{Name: "forest", Keywords: []string{"forest", "woods", "trees", "woodland"}},
}

func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// LookupCategory resolves a category name case-insensitively.
func LookupCategory(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Pattern is the POSIX alternation matched with ~* against titles.
func (c Category) Pattern() string {
	quoted := make([]string, len(c.Keywords))
	for i, k := range c.Keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(quoted, "|")
}

func (c Category) Matches(title string) bool {
	title = strings.ToLower(title)
	for _, k := range c.Keywords {
		if strings.Contains(title, k) {
			return true
		}
	}
	return false
}

// CategoryOf returns the first category whose keywords occur in title.
func CategoryOf(title string) (string, bool) {
	for _, c := range categories {
		if c.Matches(title) {
			return c.Name, true
		}
	}
	return "", false
}
