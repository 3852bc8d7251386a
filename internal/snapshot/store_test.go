// internal/snapshot/store_test.go
//
// Unit-tests for the pure parts of the snapshot store: key layout and the
// bundle-marker freshness rule.
//
// Run: go test ./internal/snapshot -v

package snapshot

import "testing"

func TestObjectKey(t *testing.T) {
	if got := objectKey("drsilva"); got != "html/drsilva.html" {
		t.Fatalf("objectKey = %q", got)
	}
}

func TestIsStale(t *testing.T) {
	cases := []struct {
		name string
		html string
		want bool
	}{
		{
			"bundled asset",
			`<script type="module" src="/assets/index.js"></script>`,
			false,
		},
		{
			"dev entry tsx",
			`<script type="module" src="/src/main.tsx"></script>`,
			true,
		},
		{
			"dev entry jsx",
			`<script type="module" src="/src/main.jsx"></script>`,
			true,
		},
		{"empty body", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsStale(tc.html); got != tc.want {
				t.Fatalf("IsStale = %v, want %v", got, tc.want)
			}
		})
	}
}
