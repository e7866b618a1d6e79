package manifest_test

import (
	"testing"

	"github.com/funvibe/funcast/internal/manifest"
	"github.com/funvibe/funcast/pkg/cast"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
types:
  - name: Flag
    capabilities:
      - kind: Bool
        mechanisms: [method, marker]
  - name: Clash
    capabilities:
      - kind: Int
        mechanisms: [method, marker]
        distinct: true
  - name: Loose
    capabilities:
      - kind: String
        mechanisms: [method]
        returns: any
  - name: Partial
    capabilities:
      - kind: Element
        mechanisms: [method]
  - name: Seq
    capabilities:
      - kind: Element
        mechanisms: [method]
      - kind: Length
        mechanisms: [method]
`

func quietEngine() *cast.Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return cast.New(cast.WithLogger(logger))
}

func TestParse(t *testing.T) {
	m, err := manifest.Parse([]byte(sample))
	require.NoError(t, err)
	assert.Len(t, m.Types, 5)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", `types: []`},
		{"unnamed type", `{types: [{name: "", capabilities: []}]}`},
		{"duplicate type", `{types: [{name: A}, {name: A}]}`},
		{"unknown kind", `{types: [{name: A, capabilities: [{kind: Object, mechanisms: [method]}]}]}`},
		{"direct List", `{types: [{name: A, capabilities: [{kind: List, mechanisms: [method]}]}]}`},
		{"no mechanisms", `{types: [{name: A, capabilities: [{kind: Bool}]}]}`},
		{"unknown mechanism", `{types: [{name: A, capabilities: [{kind: Bool, mechanisms: [annotation]}]}]}`},
		{"unknown return", `{types: [{name: A, capabilities: [{kind: Bool, mechanisms: [method], returns: complex}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestCheck(t *testing.T) {
	m, err := manifest.Parse([]byte(sample))
	require.NoError(t, err)

	entries := manifest.Check(m, quietEngine())

	byPair := make(map[string]manifest.Entry)
	for _, e := range entries {
		byPair[e.Type+"/"+e.Kind.String()] = e
	}

	// Shared callable through both mechanisms: the exemption holds.
	flag := byPair["Flag/Bool"]
	require.NoError(t, flag.Err)
	assert.Equal(t, cast.Supported, flag.Outcome.State)
	assert.Equal(t, cast.MarkerInterface, flag.Outcome.Mechanism)

	// Distinct callables conflict.
	clash := byPair["Clash/Int"]
	require.NoError(t, clash.Err)
	assert.Equal(t, cast.Conflicting, clash.Outcome.State)
	assert.True(t, clash.Conflicted())

	// Declared interface return defers the shape check.
	loose := byPair["Loose/String"]
	assert.Equal(t, cast.Supported, loose.Outcome.State)
	assert.True(t, loose.Outcome.Deferred)

	// Element alone does not make a List.
	assert.Equal(t, cast.Unsupported, byPair["Partial/List"].Outcome.State)
	assert.Equal(t, cast.Supported, byPair["Seq/List"].Outcome.State)
}

func TestCheckReportsDuplicates(t *testing.T) {
	doc := `
types:
  - name: Dup
    capabilities:
      - kind: Bool
        mechanisms: [method, method]
`
	m, err := manifest.Parse([]byte(doc))
	require.NoError(t, err)

	entries := manifest.Check(m, quietEngine())
	require.Len(t, entries, 1)
	assert.True(t, cast.IsCode(entries[0].Err, cast.DuplicateDeclaration))
}
