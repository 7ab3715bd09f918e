package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf).WithWidth(10)

	p.Banner("TITLE")
	p.Success("ok %d", 1)
	p.Bullets("  ", []string{"a", "b"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"",
		"==========",
		"TITLE",
		"==========",
		"ok 1",
		"  • a",
		"  • b",
	}, lines)
}
