// Command ddcctl configures display settings over DDC/CI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"avaneesh/ddc-go/pkg/ddc"
)

const usage = `Usage: ddcctl [flags] <command> [args]

Commands:
  list                      Lists connected displays
  ports                     Lists I2C adapters and serial ports usable with --device
  capabilities [--raw]      Executes the Capabilities DDC/CI command
  list-vcp-features         Lists VCP codes supported by the display
  get <code> [--quiet]      Executes the Get VCP Feature DDC/CI command
  set <code> <value>        Executes the Set VCP Feature DDC/CI command
  save                      Executes the Save Current Settings DDC/CI command
  codes                     Lists the VCP codes defined by MCCS 2.2a

Flags:
`

var errUsage = errors.New("invalid usage")

type options struct {
	configPath string
	display    string
	transport  string
	device     string
	baudRate   int
	timeout    time.Duration
	raw        bool
	quiet      bool
	noCache    bool
	logLevel   string
	frameDebug bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "ddcctl: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options

	fs := pflag.NewFlagSet("ddcctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configPath, "config", "c", "", "configuration file")
	fs.StringVarP(&opts.display, "display", "d", "1", "display number returned by list, or a configured display ID")
	fs.StringVarP(&opts.transport, "transport", "t", ddc.TransportI2C, "bus transport: i2c, serial, tcp, quic or sim")
	fs.StringVar(&opts.device, "device", "", "I2C adapter, serial port or agent address; bypasses the configured displays")
	fs.IntVar(&opts.baudRate, "baud", 9600, "serial bridge baud rate")
	fs.DurationVar(&opts.timeout, "timeout", 5*time.Second, "bus transaction timeout")
	fs.BoolVar(&opts.raw, "raw", false, "print the capability string returned by the display as is")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "print the current value only")
	fs.BoolVar(&opts.noCache, "no-cache", false, "read capabilities from the display even when cached")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.BoolVar(&opts.frameDebug, "frame-debug", false, "log hex dumps of every frame (implies --log-level debug)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	c, err := newCLI(opts, stdout)
	if err != nil {
		return err
	}
	defer c.close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "list":
		return c.list(ctx)
	case "ports":
		return c.ports()
	case "capabilities":
		return c.capabilities(ctx)
	case "list-vcp-features":
		return c.listVCPFeatures(ctx)
	case "get":
		if len(rest) != 1 {
			return fmt.Errorf("%w: get takes a VCP code", errUsage)
		}
		return c.get(ctx, rest[0])
	case "set":
		if len(rest) != 2 {
			return fmt.Errorf("%w: set takes a VCP code and a value", errUsage)
		}
		return c.set(ctx, rest[0], rest[1])
	case "save":
		return c.save(ctx)
	case "codes":
		return c.codes()
	default:
		fs.Usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}
