package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	flags := map[string]bool{"format": true, "precision": true, "details": false}

	assert.Equal(t, "json", Merge("text", "json", "format", flags))
	assert.Equal(t, 2, Merge(4, 2, "precision", flags))
	assert.Equal(t, false, Merge(false, true, "details", flags))
	assert.Equal(t, "main", Merge("main", "", "root", flags))
	assert.Equal(t, "main", Merge("main", "other", "root", nil))
}

func TestMergeSlice(t *testing.T) {
	flags := map[string]bool{"metrics": true, "include": true}
	base := []string{"STRICT", "LEV", "TED"}

	assert.Equal(t, []string{"TED"}, MergeSlice(base, []string{"TED"}, "metrics", flags))
	assert.Equal(t, base, MergeSlice(base, nil, "include", flags))
	assert.Equal(t, base, MergeSlice(base, []string{"TED"}, "exclude", flags))
}

func TestWasExplicitlySet(t *testing.T) {
	assert.False(t, WasExplicitlySet(nil, "format"))
	assert.True(t, WasExplicitlySet(map[string]bool{"format": true}, "format"))
}
