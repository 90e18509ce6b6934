package campground

import (
	"reflect"
	"regexp"
	"testing"
)

func TestCategoryNamesOrdered(t *testing.T) {
	want := []string{"ocean", "mountain", "desert", "river", "lake", "forest"}
	if got := CategoryNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLookupCategoryCaseInsensitive(t *testing.T) {
	c, ok := LookupCategory(" OCEAN ")
	if !ok || c.Name != "ocean" {
		t.Fatalf("expected ocean, got %+v %v", c, ok)
	}
	if _, ok := LookupCategory("swamp"); ok {
		t.Fatalf("swamp is not a category")
	}
}

func TestCategoryMatching(t *testing.T) {
	ocean, _ := LookupCategory("ocean")
	if !ocean.Matches("Misty Bayshore") {
		t.Fatalf("expected Misty Bayshore to be ocean")
	}
	if ocean.Matches("Quiet Woodland Ridge") {
		t.Fatalf("Quiet Woodland Ridge is not ocean")
	}

	// the SQL pattern agrees with the in-process matcher
	re := regexp.MustCompile("(?i)" + ocean.Pattern())
	if !re.MatchString("Misty Bayshore") || re.MatchString("Quiet Woodland Ridge") {
		t.Fatalf("pattern %q disagrees with Matches", ocean.Pattern())
	}
}

func TestCategoryOf(t *testing.T) {
	cases := map[string]string{
		"Misty Bayshore":       "ocean",
		"Quiet Woodland Ridge": "mountain",
		"Dusty Mesa":           "desert",
		"Silent Creekside":     "river",
		"Frog Pond":            "lake",
		"Ancient Woods":        "forest",
	}
	for title, want := range cases {
		if got, ok := CategoryOf(title); !ok || got != want {
			t.Fatalf("CategoryOf(%q) = %q, want %q", title, got, want)
		}
	}
	if _, ok := CategoryOf("Bullfrog Hollow"); ok {
		t.Fatalf("expected no category")
	}
}
