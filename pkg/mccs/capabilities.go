package mccs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"avaneesh/ddc-go/pkg/ddcci"
)

// Errors
var (
	ErrOpenBracketExpected = errors.New("open bracket expected")
	ErrUnpairedBrackets    = errors.New("unpaired brackets")
)

// ParseError describes a malformed capability string
type ParseError struct {
	Offset int   // Byte offset where parsing stopped
	Err    error // ErrOpenBracketExpected or ErrUnpairedBrackets
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("capability string: %v at offset %d", e.Err, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// VCPCapability is a supported VCP code and, for non-continuous codes,
// the values the display accepts
type VCPCapability struct {
	Code   VCPCode
	Values []uint16
}

// Capabilities describes a display as reported by its capability
// string (MCCS 2.2a section 6, DDC/CI 1.1 section 6.7.3)
type Capabilities struct {
	Prot        string          // Protocol class
	Type        string          // Display type
	Model       string          // Model number
	MCCSVersion string          // mccs_ver, when present
	Cmds        []ddcci.Command // Supported DDC/CI commands
	VCP         []VCPCapability // Supported VCP codes
}

// Supports reports whether code is listed in the vcp entry
func (c *Capabilities) Supports(code VCPCode) bool {
	_, ok := c.lookup(code)
	return ok
}

// Values returns the discrete values listed for code
func (c *Capabilities) Values(code VCPCode) []uint16 {
	v, _ := c.lookup(code)
	return v.Values
}

func (c *Capabilities) lookup(code VCPCode) (VCPCapability, bool) {
	for _, v := range c.VCP {
		if v.Code == code {
			return v, true
		}
	}
	return VCPCapability{}, false
}

// ParseCapabilities parses a capability string such as
// "(prot(monitor)type(lcd)model(X)cmds(01 02)vcp(10 12(01 02 03)))".
// Unknown entries, commands and VCP codes are skipped.
func ParseCapabilities(s string) (*Capabilities, error) {
	p := &parser{data: s}
	return p.parse()
}

// parser scans a capability string left to right
type parser struct {
	data   string
	offset int
}

func (p *parser) fail(err error) error {
	return &ParseError{Offset: p.offset, Err: err}
}

func (p *parser) parse() (*Capabilities, error) {
	if !strings.HasPrefix(p.data, "(") {
		return nil, p.fail(ErrOpenBracketExpected)
	}
	p.offset = 1

	caps := &Capabilities{}
	for p.offset < len(p.data) {
		if isSpace(p.data[p.offset]) {
			p.offset++
			continue
		}
		if p.data[p.offset] == ')' {
			if p.offset != len(p.data)-1 {
				return nil, p.fail(ErrUnpairedBrackets)
			}
			return caps, nil
		}

		open := strings.IndexByte(p.data[p.offset:], '(')
		if open < 0 {
			return nil, p.fail(ErrOpenBracketExpected)
		}
		name := p.data[p.offset : p.offset+open]
		if strings.IndexByte(name, ')') >= 0 {
			return nil, p.fail(ErrUnpairedBrackets)
		}
		p.offset += open + 1

		closing, ok := matchClose(p.data, p.offset)
		if !ok {
			return nil, p.fail(ErrUnpairedBrackets)
		}
		base := p.offset
		value := p.data[base:closing]
		p.offset = closing + 1

		if err := caps.apply(strings.TrimSpace(name), value, base); err != nil {
			return nil, err
		}
	}

	return nil, p.fail(ErrUnpairedBrackets)
}

// matchClose returns the index of the bracket closing the group whose
// contents start at from
func matchClose(s string, from int) (int, bool) {
	depth := 1
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// apply stores one entry. base is the offset of value in the full string.
func (c *Capabilities) apply(name, value string, base int) error {
	switch name {
	case "prot":
		c.Prot = value
	case "type":
		c.Type = value
	case "model":
		c.Model = value
	case "mccs_ver":
		c.MCCSVersion = value
	case "cmds":
		c.Cmds = parseCmds(value)
	case "vcp":
		vcp, err := parseVCP(value, base)
		if err != nil {
			return err
		}
		c.VCP = vcp
	}
	return nil
}

func parseCmds(value string) []ddcci.Command {
	var cmds []ddcci.Command
	for _, tok := range strings.Fields(value) {
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			continue
		}
		if cmd := ddcci.Command(v); cmd.IsKnown() {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// parseVCP parses "10 12(01 02 03) 14(05 06)". Error offsets are
// relative to the full string, in which value starts at base.
func parseVCP(value string, base int) ([]VCPCapability, error) {
	var (
		caps []VCPCapability
		i    int
	)

	for i < len(value) {
		for i < len(value) && isSpace(value[i]) {
			i++
		}
		if i >= len(value) {
			break
		}

		start := i
		for i < len(value) && !isSpace(value[i]) && value[i] != '(' && value[i] != ')' {
			i++
		}
		token := value[start:i]

		var values []uint16
		if i < len(value) && value[i] == '(' {
			end, ok := matchClose(value, i+1)
			if !ok {
				return nil, &ParseError{Offset: base + i, Err: ErrUnpairedBrackets}
			}
			values = parseValues(value[i+1 : end])
			i = end + 1
		} else if i < len(value) && value[i] == ')' {
			return nil, &ParseError{Offset: base + i, Err: ErrUnpairedBrackets}
		}

		v, err := strconv.ParseUint(token, 16, 8)
		if err != nil {
			continue
		}
		if code := VCPCode(v); code.IsKnown() {
			caps = append(caps, VCPCapability{Code: code, Values: values})
		}
	}

	return caps, nil
}

// parseValues reads the hex values of a value list. Nested groups are
// flattened into the list.
func parseValues(list string) []uint16 {
	values := []uint16{}
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == '(' || r == ')' || isSpace(byte(r))
	})
	for _, tok := range fields {
		v, err := strconv.ParseUint(tok, 16, 16)
		if err != nil {
			continue
		}
		values = append(values, uint16(v))
	}
	return values
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
