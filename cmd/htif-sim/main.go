// Command htif-sim serves a simulated target over TCP and websocket so the
// bridge can be exercised without hardware:
//
//	htif-sim -tcp 127.0.0.1:7777 -load 80000000=hello.bin &
//	htif -d tcp -p 127.0.0.1:7777 read 80000000 100 | xxd
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"

	"htif/cli"
	"htif/target"
	"htif/transport/ws"
	"htif/util"
)

// images collects repeated -load ADDR=file flags.
type images []image

type image struct {
	addr uint32
	path string
}

func (i *images) String() string {
	s := make([]string, len(*i))
	for k, img := range *i {
		s[k] = fmt.Sprintf("%08x=%s", img.addr, img.path)
	}
	return strings.Join(s, ",")
}

func (i *images) Set(v string) error {
	a, path, ok := strings.Cut(v, "=")
	if !ok || path == "" {
		return errors.New("want ADDR=file")
	}
	addr, err := cli.ParseHex(a)
	if err != nil {
		return err
	}
	*i = append(*i, image{addr: addr, path: path})
	return nil
}

func (i images) load(m *target.Machine) error {
	for _, img := range i {
		b, err := os.ReadFile(img.path)
		if err != nil {
			return err
		}
		m.Memory.Load(img.addr, b)
		log.Printf("htif-sim: loaded %d bytes at %08x from '%s'\n", len(b), img.addr, img.path)
	}
	return nil
}

func main() {
	defer func() {
		if err := recover(); err != nil {
			util.LogPanic(err)
			os.Exit(2)
		}
	}()

	var (
		tcpAddr string
		wsAddr  string
		logPath string
		loads   images
	)
	flag.StringVar(&tcpAddr, "tcp", "127.0.0.1:7777", "TCP listen address (empty to disable)")
	flag.StringVar(&wsAddr, "ws", "", "websocket listen address, e.g. 127.0.0.1:7778")
	flag.StringVar(&logPath, "log", "", "also write log output to this file")
	flag.Var(&loads, "load", "preload memory from a file (ADDR=file, repeatable)")
	flag.Parse()

	if lf, err := util.OpenLogFile(logPath, os.Stderr); err != nil {
		log.Printf("htif-sim: could not open log file '%s' for writing\n", logPath)
	} else if lf != nil {
		defer lf.Close()
	}

	if tcpAddr == "" && wsAddr == "" {
		log.Fatal("htif-sim: nothing to serve; give -tcp or -ws\n")
	}

	m := target.NewMachine(nil)
	if err := loads.load(m); err != nil {
		log.Fatalf("htif-sim: %v\n", err)
	}

	errc := make(chan error, 2)
	if tcpAddr != "" {
		l, err := net.Listen("tcp", tcpAddr)
		if err != nil {
			log.Fatalf("htif-sim: %v\n", err)
		}
		log.Printf("htif-sim: serving tcp on %s\n", l.Addr())
		go func() { errc <- m.ListenAndServe(l) }()
	}
	if wsAddr != "" {
		log.Printf("htif-sim: serving ws on ws://%s/\n", wsAddr)
		go func() { errc <- http.ListenAndServe(wsAddr, ws.Handler(m)) }()
	}

	err := <-errc
	_ = util.FlushLogger()
	log.Fatalf("htif-sim: %v\n", err)
}
