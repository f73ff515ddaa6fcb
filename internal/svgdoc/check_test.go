package svgdoc

import (
	"testing"

	"piper/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(issues []Issue, level Level) []string {
	var out []string
	for _, is := range issues {
		if is.Level == level {
			out = append(out, is.Message)
		}
	}
	return out
}

func TestCheckShippedFallback(t *testing.T) {
	doc, err := LoadFS(data.SVGs, "svgs/"+FallbackSVG)
	require.NoError(t, err)

	issues := Check(doc)
	assert.False(t, HasErrors(issues), "%v", issues)
	assert.Empty(t, messages(issues, LevelWarning))
	assert.Equal(t, []string{"found 5 buttons", "found 1 leds"}, messages(issues, LevelInfo))
}

func TestCheckBrokenDocument(t *testing.T) {
	const broken = `<svg width="300" height="450">
  <g id="Device"/>
  <g id="Buttons">
    <path id="button0" d="M0 0 L1 1"/>
    <path id="button0-leader" d="M0 0 L1 1" style="text-align:start"/>
    <path id="button2" d="M0 0 L1 1"/>
    <rect id="button2-leader" style="fill:none"/>
    <path id="button2-path" d="M0 0 L1 1"/>
    <path id="button5-path" d="M0 0 L1 1"/>
    <rect id="led3-leader" style="text-align:end"/>
  </g>
</svg>`
	doc, err := Load([]byte(broken))
	require.NoError(t, err)

	issues := Check(doc)
	assert.True(t, HasErrors(issues))
	assert.ElementsMatch(t, []string{
		"width is outside of range: 300",
		"missing layer: LEDs",
		"missing style property for button0-leader",
		"missing button0-path for button0",
		"missing style property for button2-leader",
		"have button5-path but not button5",
		"have led3-leader but not led3",
	}, messages(issues, LevelError))
	assert.Equal(t, []string{"non-consecutive button: button2"}, messages(issues, LevelWarning))
	assert.Equal(t, []string{"found 3 buttons", "found 0 leds"}, messages(issues, LevelInfo))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "unknown", Level(42).String())
}
