package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	out, err := Parse([]string{"user-agent: Bot", "Accept: text/html"})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"User-Agent": "Bot", "Accept": "text/html"}, out)
}

func TestParse_ValueWithColon(t *testing.T) {
	out, err := Parse([]string{"Cookie: session=a:b", " Referer :http://a.test/ "})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Cookie": "session=a:b", "Referer": "http://a.test/"}, out)
}

func TestParse_LastWins(t *testing.T) {
	out, err := Parse([]string{"Cookie: a=1", "cookie: a=2"})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Cookie": "a=2"}, out)
}

func TestParse_Empty(t *testing.T) {
	out, err := Parse(nil)

	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"BadHeader", ": no key", "Bad Key: v"} {
		_, err := Parse([]string{in})
		assert.Error(t, err, in)
	}
}
