// catreplay feeds a hex capture file through the monitor pipeline and
// prints the reports it would have produced live. Capture format: one
// chunk of hex bytes per line; '#' starts a comment; a line "@+<ms>"
// advances the replay clock.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jewelux/catmon.go/pkg/monitor"
	"github.com/jewelux/catmon.go/pkg/session"
	"github.com/jewelux/catmon.go/pkg/transport"
)

var (
	confFile string
	proto    string
	gapMs    int
)

func init() {
	flag.StringVar(&confFile, "config", "", "Session YAML file.")
	flag.StringVar(&proto, "proto", "", "Protocol override (civ|cat).")
	flag.IntVar(&gapMs, "gap", 0, "Gap threshold override in ms.")
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalln("usage: catreplay [flags] <capture-file>")
	}

	conf := session.Defaults()
	var err error
	if confFile != "" {
		if conf, err = session.Load(confFile); err != nil {
			log.Fatalln(err)
		}
	}
	if proto != "" {
		if conf.Protocol, err = session.ParseProtocol(proto); err != nil {
			log.Fatalln(err)
		}
	}
	if gapMs > 0 {
		conf.GapThreshold = time.Duration(gapMs) * time.Millisecond
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	end, _ := transport.NewLoopback()
	mon := monitor.New(conf, end)

	// Byte arrivals only move the clock when the capture says so, so
	// replay is deterministic regardless of host speed.
	clock := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@+") {
			ms, err := strconv.Atoi(line[2:])
			if err != nil || ms < 0 {
				log.Fatalf("line %d: bad clock directive %q", lineNo, line)
			}
			clock = clock.Add(time.Duration(ms) * time.Millisecond)
			mon.Poll(clock)
			continue
		}
		data, err := parseHexLine(line)
		if err != nil {
			log.Fatalf("line %d: %v", lineNo, err)
		}
		mon.Feed(data, clock)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalln(err)
	}
	// Silence after the capture expires the gap timer.
	mon.Poll(clock.Add(conf.GapThreshold + time.Millisecond))
}

func parseHexLine(line string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, line)
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("bad hex %q: %w", line, err)
	}
	return data, nil
}
