package tagsort

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSortMixedTags(t *testing.T) {
	tags := []string{"v1.2.0", "1.10.0", "1.2.0-beta", "latest", "1.2.0"}

	got := Sort(tags, false)
	want := []string{"1.10.0", "1.2.0", "v1.2.0", "1.2.0-beta", "latest"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortMixedTagsReversed(t *testing.T) {
	tags := []string{"v1.2.0", "1.10.0", "1.2.0-beta", "latest", "1.2.0"}

	got := Sort(tags, true)
	want := []string{"latest", "1.2.0-beta", "v1.2.0", "1.2.0", "1.10.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortReverseIsWholeListReversal(t *testing.T) {
	tags := []string{"latest", "2.0.0", "alpha", "1.0.0-rc.1", "v3", "1.0.0", "zeta", "10.0.1"}

	forward := Sort(tags, false)
	backward := Sort(tags, true)

	if len(forward) != len(backward) {
		t.Fatalf("length mismatch: %d vs %d", len(forward), len(backward))
	}
	for i := range forward {
		if forward[i] != backward[len(backward)-1-i] {
			t.Fatalf("reverse law violated at %d: forward=%v backward=%v", i, forward, backward)
		}
	}
}

func TestSortIdempotent(t *testing.T) {
	tags := []string{"nightly", "1.2.3", "v1.2.3", "0.9.0", "latest", "1.2.3-alpha.1"}

	for _, reverse := range []bool{false, true} {
		once := Sort(tags, reverse)
		twice := Sort(once, reverse)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("Sort(reverse=%v) not idempotent (-once +twice):\n%s", reverse, diff)
		}
	}
}

func TestSortVersionsDescending(t *testing.T) {
	tags := []string{"0.1.0", "2.0.0", "1.10.0", "1.2.0", "10.0.0"}

	got := Sort(tags, false)
	want := []string{"10.0.0", "2.0.0", "1.10.0", "1.2.0", "0.1.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortPartialVersions(t *testing.T) {
	tags := []string{"2", "v3", "1.5", "2.0.1"}

	got := Sort(tags, false)
	want := []string{"v3", "2.0.1", "2", "1.5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortUppercaseVPrefix(t *testing.T) {
	tags := []string{"V2.0.0", "1.0.0", "latest", "v3.0.0"}

	// An uppercase 'V' prefix is part of the version grammar, not an
	// opaque tag.
	got := Sort(tags, false)
	want := []string{"v3.0.0", "V2.0.0", "1.0.0", "latest"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortUppercaseVTiesByLiteralForm(t *testing.T) {
	tags := []string{"v1.0.0", "V1.0.0", "1.0.0"}

	got := Sort(tags, false)
	want := []string{"1.0.0", "V1.0.0", "v1.0.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortReleaseBeforeItsPrereleases(t *testing.T) {
	tags := []string{"1.0.0-rc.1", "1.0.0", "1.0.0-alpha", "1.0.0-beta.2"}

	got := Sort(tags, false)
	if got[0] != "1.0.0" {
		t.Errorf("expected release first, got %v", got)
	}
}

func TestSortNumericPrereleaseIdentifiers(t *testing.T) {
	tags := []string{"1.0.0-2", "1.0.0-10", "1.0.0-1"}

	// Numeric identifiers compare numerically, so 10 is the newest.
	got := Sort(tags, false)
	want := []string{"1.0.0-10", "1.0.0-2", "1.0.0-1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortPrereleasePrefixRanksLower(t *testing.T) {
	tags := []string{"1.0.0-alpha.1", "1.0.0-alpha"}

	got := Sort(tags, false)
	want := []string{"1.0.0-alpha.1", "1.0.0-alpha"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortMajorMinorPatchDominatesPrerelease(t *testing.T) {
	tags := []string{"1.0.0", "2.0.0-alpha"}

	got := Sort(tags, false)
	want := []string{"2.0.0-alpha", "1.0.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortBuildMetadataIgnored(t *testing.T) {
	tags := []string{"1.0.0+build.2", "1.0.1", "1.0.0+build.1"}

	got := Sort(tags, false)
	if got[0] != "1.0.1" {
		t.Errorf("expected 1.0.1 first, got %v", got)
	}
	// Equal precedence, tie broken by literal form.
	want := []string{"1.0.1", "1.0.0+build.1", "1.0.0+build.2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortOpaqueAlphabetical(t *testing.T) {
	tags := []string{"zeta", "alpha", "mango"}

	got := Sort(tags, false)
	want := []string{"alpha", "mango", "zeta"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}

	// Reversal flips the whole list, not the opaque group's internal rule.
	got = Sort(tags, true)
	want = []string{"zeta", "mango", "alpha"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort(reverse) mismatch (-want +got):\n%s", diff)
	}
}

func TestSortVersionsBeforeOpaque(t *testing.T) {
	tags := []string{"latest", "sha-abc123", "0.0.1", "nightly-2024", "v9.9.9"}

	got := Sort(tags, false)
	want := []string{"v9.9.9", "0.0.1", "latest", "nightly-2024", "sha-abc123"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}

	got = Sort(tags, true)
	want = []string{"sha-abc123", "nightly-2024", "latest", "0.0.1", "v9.9.9"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort(reverse) mismatch (-want +got):\n%s", diff)
	}
}

func TestSortDuplicates(t *testing.T) {
	tags := []string{"1.0.0", "latest", "1.0.0", "latest"}

	got := Sort(tags, false)
	want := []string{"1.0.0", "1.0.0", "latest", "latest"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortEmptyAndSingle(t *testing.T) {
	if got := Sort(nil, false); len(got) != 0 {
		t.Errorf("Sort(nil) = %v, want empty", got)
	}
	if got := Sort([]string{"latest"}, true); len(got) != 1 || got[0] != "latest" {
		t.Errorf("Sort(single) = %v", got)
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	tags := []string{"zeta", "1.0.0", "alpha"}
	Sort(tags, false)

	want := []string{"zeta", "1.0.0", "alpha"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Errorf("input slice modified (-want +got):\n%s", diff)
	}
}
