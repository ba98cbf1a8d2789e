package testutil

import "testing"

func TestNonStdlibImportForbidden(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"fmt", false},
		{"net/http", false},
		{"go/parser", false},
		{"github.com/prometheus/client_golang/prometheus", true},
		{"modernc.org/sqlite", true},
		{"mortalitycore/pkg/domain", false},
	}
	for _, tc := range cases {
		if got := NonStdlibImportForbidden(tc.path); got != tc.want {
			t.Errorf("NonStdlibImportForbidden(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestAssertNoDirectImportsSelf(t *testing.T) {
	// This package imports only the standard library.
	AssertNoDirectImports(t, ".", NonStdlibImportForbidden, "testutil must stay stdlib-only")
}
