package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"htif/cli"
	"htif/config"
	"htif/session"
	"htif/transport"
	"htif/util"
)

// include these transport drivers:
import (
	_ "htif/transport/jtaguart"
	_ "htif/transport/serial"
	_ "htif/transport/tcp"
	_ "htif/transport/tty"
	_ "htif/transport/ws"
)

// defaultDriver prefers the JTAG UART when it was compiled in.
func defaultDriver() string {
	if _, ok := transport.Lookup("jtaguart"); ok {
		return "jtaguart"
	}
	return "serial"
}

// listDrivers prints every registered driver with the endpoints it can find.
func listDrivers(w io.Writer) {
	for _, name := range transport.Drivers() {
		d, _ := transport.Lookup(name)
		fmt.Fprintf(w, "%-10s %s\n", name, d.DisplayDescription())

		det, ok := d.(transport.Detector)
		if !ok {
			continue
		}
		endpoints, err := det.Detect()
		if err != nil {
			fmt.Fprintf(w, "%-10s   detect: %v\n", "", err)
			continue
		}
		for _, ep := range endpoints {
			fmt.Fprintf(w, "%-10s   %s\n", "", ep)
		}
	}
}

func main() {
	defer func() {
		if err := recover(); err != nil {
			util.LogPanic(err)
			os.Exit(2)
		}
	}()

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log.SetFlags(0)
	log.SetOutput(stderr)

	cfg, err := config.Load()
	if err != nil {
		log.Printf("htif: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("htif", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, cli.Usage)
		fmt.Fprintf(stderr, "\ndrivers: %s\n\nflags:\n", strings.Join(transport.Drivers(), ", "))
		fs.PrintDefaults()
	}
	cfg.RegisterFlags(fs)
	list := fs.Bool("list", false, "list the drivers and the endpoints they detect, then exit")
	if err = fs.Parse(args); err != nil {
		return 1
	}
	if *list {
		listDrivers(stdout)
		return 0
	}
	if err = cfg.Validate(); err != nil {
		log.Printf("htif: %v\n", err)
		return 1
	}

	// all arguments are checked before the target is touched:
	ops, err := cli.ParseOps(fs.Args())
	if err != nil {
		log.Printf("htif: %v\n", err)
		fs.Usage()
		return 1
	}

	lf, err := util.OpenLogFile(cfg.LogFile, stderr)
	if err != nil {
		log.Printf("htif: could not open log file '%s' for writing: %v\n", cfg.LogFile, err)
	} else if lf != nil {
		defer func() {
			log.SetOutput(stderr)
			_ = lf.Close()
		}()
	}

	name := cfg.Driver
	if name == "" {
		name = defaultDriver()
	}
	driver, ok := transport.Lookup(name)
	if !ok {
		log.Printf("htif: unknown driver '%s'; available: %s\n", name, strings.Join(transport.Drivers(), ", "))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := session.Open(driver, cfg.Selector,
		session.WithVerbose(cfg.Verbose),
		session.WithBufferSize(cfg.BufferSize),
		session.WithWindow(cfg.Window),
		session.WithBackoff(cfg.Backoff()),
		session.WithProgress(stderr),
		session.WithName(name),
	)
	if err != nil {
		var oerr *transport.OpenError
		if errors.As(err, &oerr) && oerr.Code != 0 {
			log.Printf("htif: error %d: %v\n", oerr.Code, err)
		} else {
			log.Printf("htif: %v\n", err)
		}
		return 1
	}

	err = s.Run(ctx, ops, bufio.NewReader(stdin), stdout)
	if cerr := s.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	if cfg.Verbose {
		_ = s.Report(stderr)
	}
	if err != nil {
		log.Printf("htif: %v\n", err)
		return 1
	}
	return 0
}
