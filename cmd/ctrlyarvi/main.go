// Command ctrlyarvi is the serial flavour of htif: it talks to the monitor of
// a YARVI board through a raw terminal device at 115200 8N1.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"htif/cli"
	"htif/session"
	"htif/transport"
	"htif/util"

	_ "htif/transport/serial"
	_ "htif/transport/tty"
)

const usage = "Usage: %s $PORT ( read $ADDR $LEN | write $ADDR )\n"

func main() {
	defer func() {
		if err := recover(); err != nil {
			util.LogPanic(err)
			os.Exit(2)
		}
	}()

	os.Exit(run(os.Args[0], os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func driver() (transport.Driver, bool) {
	if d, ok := transport.Lookup("tty"); ok {
		return d, true
	}
	return transport.Lookup("serial")
}

func run(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log.SetFlags(0)
	log.SetOutput(stderr)

	if len(args) < 2 {
		fmt.Fprintf(stderr, usage, prog)
		return 1
	}
	port := args[0]

	ops, err := cli.ParseOps(args[1:])
	if err == nil && len(ops) != 1 {
		err = fmt.Errorf("exactly one operation expected")
	}
	if err != nil {
		log.Printf("%s: %v\n", prog, err)
		fmt.Fprintf(stderr, usage, prog)
		return 1
	}

	d, ok := driver()
	if !ok {
		log.Printf("%s: no terminal driver available\n", prog)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := session.Open(d, port, session.WithProgress(stderr), session.WithName(port))
	if err != nil {
		log.Printf("%s: error opening %s: %v\n", prog, port, err)
		return 1
	}
	log.Printf("%s is open\n", port)

	err = s.Run(ctx, ops, bufio.NewReader(stdin), stdout)
	if cerr := s.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		log.Printf("%s: %v\n", prog, err)
		return 1
	}
	return 0
}
