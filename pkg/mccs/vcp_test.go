package mccs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunction(t *testing.T) {
	tests := []struct {
		code VCPCode
		want Function
	}{
		{Luminance, Continuous},
		{Contrast, Continuous},
		{InputSelect, NonContinuous},
		{PowerMode, NonContinuous},
		{CodePage, Table},
		{AssetTag, Table},
		{VCPCode(0xE0), Continuous},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Function())
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "luminance", Luminance.Slug())
	assert.Equal(t, "video-gain-drive-red", VideoGainRed.Slug())
	assert.Equal(t, "restore-factory-luminance-contrast-defaults", RestoreFactoryLuminanceContrastDefaults.Slug())
	assert.Equal(t, "audio-speaker-volume", AudioSpeakerVolume.Slug())
	assert.Equal(t, "e0", VCPCode(0xE0).Slug())
}

func TestLookupCode(t *testing.T) {
	tests := []struct {
		name   string
		want   VCPCode
		wantOK bool
	}{
		{"brightness", Luminance, true},
		{"Luminance", Luminance, true},
		{"input-select", InputSelect, true},
		{"0x12", Contrast, true},
		{"d6", PowerMode, true},
		{"e0", 0, false},
		{"bogus", 0, false},
		{"0x100", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupCode(tt.name)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSlugsUnique(t *testing.T) {
	seen := make(map[string]VCPCode)
	for _, code := range AllCodes() {
		slug := code.Slug()
		prev, dup := seen[slug]
		require.False(t, dup, "%s used by 0x%02X and 0x%02X", slug, uint8(prev), uint8(code))
		seen[slug] = code
	}
	assert.Equal(t, len(codeTable), len(AllCodes()))
}

func TestUnknownCodeString(t *testing.T) {
	assert.Equal(t, "VCP(0xE0)", VCPCode(0xE0).String())
	assert.False(t, VCPCode(0xE0).IsKnown())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"luminance", "brightness"}, Luminance.Names())
	assert.Equal(t, []string{"contrast"}, Contrast.Names())
	assert.Equal(t, []string{"e0"}, VCPCode(0xE0).Names())
}
