package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewColor(t *testing.T) {
	red := NewColor("\033[31m")
	assert.Equal(t, "\033[31mfail\033[0m", red("fail"))
}

func TestPaletteEnabled(t *testing.T) {
	p := NewPalette(true)
	assert.Equal(t, "\033[32mok\033[0m", p.Green("ok"))
	assert.Equal(t, "\033[31mbad\033[0m", p.Red("bad"))
	assert.Equal(t, "\033[33mwarn\033[0m", p.Yellow("warn"))
	assert.Equal(t, "\033[36mnote\033[0m", p.Cyan("note"))
	assert.Equal(t, "\033[90mdim\033[0m", p.Gray("dim"))
}

func TestPaletteDisabled(t *testing.T) {
	p := NewPalette(false)
	for _, c := range []Color{p.Green, p.Yellow, p.Red, p.Cyan, p.Gray} {
		assert.Equal(t, "text", c("text"))
	}
}
