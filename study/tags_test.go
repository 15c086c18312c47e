package study

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studyquiz/models"
)

func TestParseTags(t *testing.T) {
	assert.Nil(t, ParseTags(""))
	assert.Equal(t, []string{"bio"}, ParseTags("bio"))
	assert.Equal(t, []string{"bio", "cells"}, ParseTags("bio, cells"))
	assert.Equal(t, []string{"bio", "cells"}, ParseTags(" bio ,, cells ,"))
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "bio", NormalizeTag(" Bio "))
	assert.Equal(t, "", NormalizeTag("   "))
}

func TestTagSetDropsEmpties(t *testing.T) {
	set := TagSet([]string{"Bio", " ", "CELLS", "bio"})
	assert.Equal(t, map[string]bool{"bio": true, "cells": true}, set)
}

func TestDistinctTagsSortedFirstSeenCasing(t *testing.T) {
	questions := []models.Question{
		{Tags: "Bio, cells"},
		{Tags: "bio, math"},
		{Tags: ""},
	}
	assert.Equal(t, []string{"Bio", "cells", "math"}, DistinctTags(questions))
}

func TestTagCounts(t *testing.T) {
	questions := []models.Question{
		{Tags: "bio, cells"},
		{Tags: "Bio"},
		{Tags: "math"},
	}
	counts := TagCounts(questions)
	assert.Equal(t, 2, counts["bio"])
	assert.Equal(t, 1, counts["cells"])
	assert.Equal(t, 1, counts["math"])
}
