package snapshot

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/cycletest/internal/stream"
)

// AssertGolden compares the canonical form of msgs against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, msgs []stream.Notification) {
	t.Helper()

	data, err := MarshalMessages(msgs)
	if err != nil {
		t.Fatalf("snapshot %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
