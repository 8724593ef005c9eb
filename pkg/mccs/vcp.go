package mccs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Function is how a VCP code's value must be interpreted (MCCS 2.2a section 1.4.3)
type Function int

const (
	Continuous Function = iota
	NonContinuous
	Table
)

// String returns string representation of Function
func (f Function) String() string {
	switch f {
	case Continuous:
		return "Continuous"
	case NonContinuous:
		return "NonContinuous"
	case Table:
		return "Table"
	default:
		return "Unknown"
	}
}

// String returns the MCCS description of the code
func (c VCPCode) String() string {
	if info, ok := codeTable[c]; ok {
		return info.name
	}
	return fmt.Sprintf("VCP(0x%02X)", uint8(c))
}

// IsKnown reports whether c is defined by MCCS 2.2a
func (c VCPCode) IsKnown() bool {
	_, ok := codeTable[c]
	return ok
}

// Function returns the static function class of the code.
// Codes outside the table are reported as Continuous.
func (c VCPCode) Function() Function {
	if info, ok := codeTable[c]; ok {
		return info.function
	}
	return Continuous
}

// Slug returns the command line name of the code, e.g. "video-gain-drive-red"
func (c VCPCode) Slug() string {
	if !c.IsKnown() {
		return fmt.Sprintf("%02x", uint8(c))
	}
	return slugify(codeTable[c].name)
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// aliases are extra command line names
var aliases = []struct {
	name string
	code VCPCode
}{
	{"brightness", Brightness},
}

var slugTable = func() map[string]VCPCode {
	m := make(map[string]VCPCode, len(codeTable)+len(aliases))
	for code := range codeTable {
		m[code.Slug()] = code
	}
	for _, a := range aliases {
		m[a.name] = a.code
	}
	return m
}()

// Names returns the command line names of c, the slug first
func (c VCPCode) Names() []string {
	names := []string{c.Slug()}
	for _, a := range aliases {
		if a.code == c {
			names = append(names, a.name)
		}
	}
	return names
}

// AllCodes returns every known code in ascending order
func AllCodes() []VCPCode {
	codes := make([]VCPCode, 0, len(codeTable))
	for code := range codeTable {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// LookupCode resolves a feature name or a hex code ("0x10", "10").
// Hex input must name a known code.
func LookupCode(name string) (VCPCode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if code, ok := slugTable[name]; ok {
		return code, true
	}

	v, err := strconv.ParseUint(strings.TrimPrefix(name, "0x"), 16, 8)
	if err != nil {
		return 0, false
	}
	code := VCPCode(v)
	return code, code.IsKnown()
}
