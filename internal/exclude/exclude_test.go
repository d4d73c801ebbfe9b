package exclude

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher_Matches(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"empty set matches nothing", nil, "module-b/module.toml", false},
		{"double star below directory", []string{"module-b/**"}, "module-b/module.toml", true},
		{"double star nested", []string{"module-b/**"}, "module-b/sub/module.toml", true},
		{"other module untouched", []string{"module-b/**"}, "module-a/module.toml", false},
		{"backslash pattern normalized", []string{`module-b\**`}, "module-b/module.toml", true},
		{"single star stays in segment", []string{"*/module.toml"}, "a/b/module.toml", false},
		{"single star one level", []string{"*/module.toml"}, "a/module.toml", true},
		{"leading double star", []string{"**/legacy/**"}, "parent/legacy/module.toml", true},
		{"trailing separator means whole tree", []string{"module-c/"}, "module-c/x/module.toml", true},
		{"any of several", []string{"nope/**", "module-d/*"}, "module-d/module.toml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(tt.patterns)
			assert.Equal(t, tt.want, m.Matches(tt.path))
		})
	}
}

func TestBuild_Deduplicates(t *testing.T) {
	m := Build([]string{"a/**", `a\**`, "  ", ""})
	assert.Len(t, m.Patterns(), 1)
}

func TestNilMatcher(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Matches("anything"))
}
