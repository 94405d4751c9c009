package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpperLowerFirst(t *testing.T) {
	assert.Equal(t, "Bar", UpperFirst("bar"))
	assert.Equal(t, "bar", LowerFirst("Bar"))
	assert.Equal(t, "", UpperFirst(""))
	assert.Equal(t, "ÉtÉ", UpperFirst("étÉ"))
}

func TestPkgAlias(t *testing.T) {
	assert.Equal(t, "codable", PkgAlias("codec-generator/codable"))
	assert.Equal(t, "", PkgAlias(""))
}
