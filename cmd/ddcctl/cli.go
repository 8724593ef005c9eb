package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"avaneesh/ddc-go/pkg/bus"
	"avaneesh/ddc-go/pkg/capcache"
	"avaneesh/ddc-go/pkg/config"
	"avaneesh/ddc-go/pkg/ddc"
	"avaneesh/ddc-go/pkg/mccs"
)

// probeLimit bounds concurrent capability reads during list
const probeLimit = 4

type cli struct {
	opts   options
	out    io.Writer
	cfg    *config.Config
	logger *ddc.ZapLogger
	cache  *capcache.Cache

	listI2C    func() ([]bus.I2CInfo, error)
	listSerial func() ([]string, error)
}

func newCLI(opts options, out io.Writer) (*cli, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	logCfg := ddc.LogConfig{Level: opts.logLevel, Format: "console", Output: "stderr"}
	if opts.frameDebug {
		logCfg.Level = "debug"
		ddc.EnableFrameDebug(true)
	}
	log, err := ddc.NewLogger(logCfg)
	if err != nil {
		return nil, err
	}

	c := &cli{
		opts:       opts,
		out:        out,
		cfg:        cfg,
		logger:     log,
		listI2C:    bus.ListI2C,
		listSerial: bus.ListSerialPorts,
	}
	if cfg.Cache.Enabled && !opts.noCache {
		if c.cache, err = capcache.Open(cfg.Cache.Path); err != nil {
			log.Warn("Capability cache disabled: %v", err)
			c.cache = nil
		}
	}
	return c, nil
}

func (c *cli) close() {
	c.logger.Sync()
}

// targets returns the displays addressable by --display, in list order
func (c *cli) targets() ([]ddc.BusConfig, error) {
	if c.opts.device != "" || c.opts.transport == ddc.TransportSimulator {
		id := c.opts.device
		if id == "" {
			id = ddc.TransportSimulator
		}
		return []ddc.BusConfig{{
			ID:        id,
			Transport: c.opts.transport,
			Device:    c.opts.device,
			BaudRate:  c.opts.baudRate,
			Timeout:   c.opts.timeout,
		}}, nil
	}

	if len(c.cfg.Displays) > 0 {
		return c.cfg.Displays, nil
	}

	if c.opts.transport != ddc.TransportI2C {
		return nil, fmt.Errorf("--device is required for transport %s", c.opts.transport)
	}
	adapters, err := c.listI2C()
	if err != nil {
		return nil, err
	}
	targets := make([]ddc.BusConfig, 0, len(adapters))
	for _, a := range adapters {
		targets = append(targets, ddc.BusConfig{ID: a.Name, Transport: ddc.TransportI2C, Device: a.Name})
	}
	return targets, nil
}

func (c *cli) target() (ddc.BusConfig, error) {
	targets, err := c.targets()
	if err != nil {
		return ddc.BusConfig{}, err
	}

	if n, err := strconv.Atoi(c.opts.display); err == nil {
		if n < 1 || n > len(targets) {
			return ddc.BusConfig{}, fmt.Errorf("%w: %d", ddc.ErrDisplayNotFound, n)
		}
		return targets[n-1], nil
	}
	for _, t := range targets {
		if t.ID == c.opts.display {
			return t, nil
		}
	}
	return ddc.BusConfig{}, fmt.Errorf("%w: %s", ddc.ErrDisplayNotFound, c.opts.display)
}

func (c *cli) open(ctx context.Context, target ddc.BusConfig) (*ddc.Display, error) {
	b, err := ddc.OpenBus(ctx, target)
	if err != nil {
		return nil, err
	}
	d, err := ddc.New(b, ddc.Config{ID: target.ID}, c.logger)
	if err != nil {
		b.Close()
		return nil, err
	}
	return d, nil
}

// withDisplay opens the selected display for the duration of fn
func (c *cli) withDisplay(ctx context.Context, fn func(*ddc.Display) error) error {
	target, err := c.target()
	if err != nil {
		return err
	}
	d, err := c.open(ctx, target)
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}

func (c *cli) capabilityString(ctx context.Context, d *ddc.Display) (string, error) {
	if c.cache == nil {
		return d.CapabilitiesString(ctx)
	}
	return c.cache.Fetch(ctx, d.ID(), d.CapabilitiesString)
}

func (c *cli) readCapabilities(ctx context.Context) (string, error) {
	var raw string
	err := c.withDisplay(ctx, func(d *ddc.Display) error {
		var err error
		raw, err = c.capabilityString(ctx, d)
		return err
	})
	return raw, err
}

func (c *cli) list(ctx context.Context) error {
	targets, err := c.targets()
	if err != nil {
		return err
	}

	models := make([]string, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeLimit)
	for i, target := range targets {
		g.Go(func() error {
			models[i] = c.probe(ctx, target)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, target := range targets {
		fmt.Fprintf(c.out, "%d: %s (%s)\n", i+1, models[i], target.ID)
	}
	return nil
}

// probe returns the model name of target, or "Unknown" when it does not
// answer the capabilities request
func (c *cli) probe(ctx context.Context, target ddc.BusConfig) string {
	d, err := c.open(ctx, target)
	if err != nil {
		c.logger.Debug("Probe %s: %v", target.ID, err)
		return "Unknown"
	}
	defer d.Close()

	raw, err := c.capabilityString(ctx, d)
	if err != nil {
		c.logger.Debug("Probe %s: %v", target.ID, err)
		return "Unknown"
	}
	caps, err := mccs.ParseCapabilities(raw)
	if err != nil || caps.Model == "" {
		return "Unknown"
	}
	return caps.Model
}

func formatValues(values []uint16) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (c *cli) capabilities(ctx context.Context) error {
	raw, err := c.readCapabilities(ctx)
	if err != nil {
		return err
	}
	if c.opts.raw {
		fmt.Fprintln(c.out, raw)
		return nil
	}

	caps, err := mccs.ParseCapabilities(raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "prot: %s\n", caps.Prot)
	fmt.Fprintf(c.out, "type: %s\n", caps.Type)
	fmt.Fprintf(c.out, "model: %s\n", caps.Model)
	if caps.MCCSVersion != "" {
		fmt.Fprintf(c.out, "mccs_ver: %s\n", caps.MCCSVersion)
	}
	fmt.Fprintln(c.out, "cmds:")
	for _, cmd := range caps.Cmds {
		fmt.Fprintf(c.out, "  %s\n", cmd)
	}
	fmt.Fprintln(c.out, "vcp:")
	for _, vcp := range caps.VCP {
		if len(vcp.Values) == 0 {
			fmt.Fprintf(c.out, "  %s\n", vcp.Code)
			continue
		}
		fmt.Fprintf(c.out, "  %s %s\n", vcp.Code, formatValues(vcp.Values))
	}
	return nil
}

func (c *cli) listVCPFeatures(ctx context.Context) error {
	raw, err := c.readCapabilities(ctx)
	if err != nil {
		return err
	}
	caps, err := mccs.ParseCapabilities(raw)
	if err != nil {
		return err
	}

	for _, vcp := range caps.VCP {
		if !vcp.Code.IsKnown() {
			continue
		}
		names := strings.Join(vcp.Code.Names(), " || ")
		if len(vcp.Values) == 0 {
			fmt.Fprintln(c.out, names)
			continue
		}
		fmt.Fprintf(c.out, "%s %s\n", names, formatValues(vcp.Values))
	}
	return nil
}

func parseCode(name string) (mccs.VCPCode, error) {
	code, ok := mccs.LookupCode(name)
	if !ok {
		return 0, fmt.Errorf("%w: unknown VCP code %q, see ddcctl codes", errUsage, name)
	}
	return code, nil
}

func (c *cli) get(ctx context.Context, name string) error {
	code, err := parseCode(name)
	if err != nil {
		return err
	}

	return c.withDisplay(ctx, func(d *ddc.Display) error {
		reply, err := d.GetVCPFeature(ctx, code)
		if err != nil {
			return err
		}
		if c.opts.quiet {
			fmt.Fprintln(c.out, reply.Current)
		} else {
			fmt.Fprintln(c.out, reply)
		}
		return nil
	})
}

func (c *cli) set(ctx context.Context, name, value string) error {
	code, err := parseCode(name)
	if err != nil {
		return err
	}
	v, err := strconv.ParseUint(value, 0, 16)
	if err != nil {
		return fmt.Errorf("%w: invalid value %q", errUsage, value)
	}

	return c.withDisplay(ctx, func(d *ddc.Display) error {
		return d.SetVCPFeature(ctx, code, uint16(v))
	})
}

func (c *cli) save(ctx context.Context) error {
	return c.withDisplay(ctx, func(d *ddc.Display) error {
		return d.SaveCurrentSettings(ctx)
	})
}

func (c *cli) codes() error {
	for _, code := range mccs.AllCodes() {
		fmt.Fprintf(c.out, "%02X  %-40s %s\n", uint8(code), strings.Join(code.Names(), ", "), code.Function())
	}
	return nil
}

// ports lists the adapters usable with --device
func (c *cli) ports() error {
	adapters, err := c.listI2C()
	if err != nil {
		return err
	}
	serialPorts, err := c.listSerial()
	if err != nil {
		return fmt.Errorf("failed to list serial ports: %w", err)
	}

	fmt.Fprintln(c.out, "i2c:")
	for _, a := range adapters {
		if len(a.Aliases) > 0 {
			fmt.Fprintf(c.out, "  %s (%s)\n", a.Name, strings.Join(a.Aliases, ", "))
		} else {
			fmt.Fprintf(c.out, "  %s\n", a.Name)
		}
	}
	fmt.Fprintln(c.out, "serial:")
	for _, p := range serialPorts {
		fmt.Fprintf(c.out, "  %s\n", p)
	}
	return nil
}
