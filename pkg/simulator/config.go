package simulator

import (
	"fmt"
	"sort"
	"strings"

	"avaneesh/ddc-go/pkg/mccs"
)

// FeatureConfig is the initial state of a simulated VCP feature
type FeatureConfig struct {
	Maximum   uint16
	Current   uint16
	Momentary bool
	Values    []uint16 // Advertised values for non-continuous codes
}

// Config configures a simulated display
type Config struct {
	Model    string
	Features map[mccs.VCPCode]FeatureConfig

	// Capabilities overrides the generated capability string
	Capabilities string

	// NulTerminate appends a NUL after the capability string
	NulTerminate bool

	// ChunkSize is the capability bytes per reply (default and maximum 32)
	ChunkSize int
}

// DefaultConfig returns a typical LCD monitor
func DefaultConfig() Config {
	return Config{
		Model: "SIM2400",
		Features: map[mccs.VCPCode]FeatureConfig{
			mccs.NewControlValue:    {Maximum: 2, Current: 1, Values: []uint16{0x01, 0x02}},
			mccs.Luminance:          {Maximum: 100, Current: 75},
			mccs.Contrast:           {Maximum: 100, Current: 50},
			mccs.SelectColorPreset:  {Maximum: 0x0B, Current: 0x05, Values: []uint16{0x01, 0x05, 0x06, 0x08, 0x0B}},
			mccs.VideoGainRed:       {Maximum: 100, Current: 100},
			mccs.VideoGainGreen:     {Maximum: 100, Current: 100},
			mccs.VideoGainBlue:      {Maximum: 100, Current: 100},
			mccs.InputSelect:        {Maximum: 0x12, Current: 0x0F, Values: []uint16{0x01, 0x03, 0x0F, 0x11, 0x12}},
			mccs.AudioSpeakerVolume: {Maximum: 100, Current: 30},
			mccs.AudioMuteScreenBlank: {
				Maximum: 2, Current: 2, Values: []uint16{0x01, 0x02},
			},
			mccs.Degauss:          {Maximum: 1, Momentary: true},
			mccs.PowerMode:        {Maximum: 5, Current: 1, Values: []uint16{0x01, 0x04, 0x05}},
			mccs.DisplayUsageTime: {Maximum: 0xFFFF, Current: 1234},
			mccs.VCPVersion:       {Maximum: 0, Current: 0x0202},
		},
	}
}

// CapabilityString renders the capability string advertised by c
func (c Config) CapabilityString() string {
	if c.Capabilities != "" {
		return c.Capabilities
	}

	codes := make([]mccs.VCPCode, 0, len(c.Features))
	for code := range c.Features {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var vcp []string
	for _, code := range codes {
		tok := fmt.Sprintf("%02X", uint8(code))
		if values := c.Features[code].Values; len(values) > 0 {
			vals := make([]string, len(values))
			for i, v := range values {
				vals[i] = fmt.Sprintf("%02X", v)
			}
			tok += "(" + strings.Join(vals, " ") + ")"
		}
		vcp = append(vcp, tok)
	}

	return fmt.Sprintf("(prot(monitor)type(lcd)model(%s)cmds(01 02 03 0C E3 F3)vcp(%s)mccs_ver(2.2))",
		c.Model, strings.Join(vcp, " "))
}
