package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText_StripsMarkup(t *testing.T) {
	html := `<h1>Net&nbsp;metering</h1><p>Export surplus <b>power</b> to the grid.</p><script>alert(1)</script>`
	assert.Equal(t, "Net metering Export surplus power to the grid.", PlainText(html))
}

func TestPlainText_PassesPlainTextThrough(t *testing.T) {
	assert.Equal(t, "rooftop solar saves money", PlainText("  rooftop   solar\nsaves money "))
}

func TestReadMinutes(t *testing.T) {
	assert.Equal(t, 1, ReadMinutes(""))
	assert.Equal(t, 1, ReadMinutes(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadMinutes(strings.Repeat("word ", 201)))
	assert.Equal(t, 3, ReadMinutes("<p>"+strings.Repeat("sun ", 450)+"</p>"))
}
