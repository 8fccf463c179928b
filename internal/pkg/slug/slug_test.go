package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Test Studio":           "test-studio",
		"  Salsa & Bachata!! ":  "salsa-bachata",
		"Café Tango":            "cafe-tango",
		"---Hip---Hop---":       "hip-hop",
		"Ballet 101 / Advanced": "ballet-101-advanced",
		"!!!":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}

func TestMake_Truncates(t *testing.T) {
	out := Make(strings.Repeat("ab ", 80))
	assert.LessOrEqual(t, len(out), maxLen)
	assert.False(t, strings.HasSuffix(out, "-"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("test-studio"))
	assert.True(t, Valid("studio42"))
	assert.False(t, Valid("Test-Studio"))
	assert.False(t, Valid("test--studio"))
	assert.False(t, Valid("-studio"))
	assert.False(t, Valid("test_studio"))
	assert.False(t, Valid(""))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "test-studio-2", WithSuffix("test-studio", 2))
	long := strings.Repeat("a", maxLen)
	assert.Len(t, WithSuffix(long, 12), maxLen)
}
