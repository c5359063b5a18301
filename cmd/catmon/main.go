package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/jewelux/catmon.go/pkg/console"
	mqttx "github.com/jewelux/catmon.go/pkg/export/mqtt"
	"github.com/jewelux/catmon.go/pkg/export/ws"
	fx "github.com/jewelux/catmon.go/pkg/framework"
	"github.com/jewelux/catmon.go/pkg/monitor"
	"github.com/jewelux/catmon.go/pkg/session"
	"github.com/jewelux/catmon.go/pkg/transport"
)

//go-build: CGO_ENABLED=0

var (
	device     = "/dev/ttyUSB0"
	baud       = 19200
	confFile   string
	mqttURL    string
	listenAddr string
)

func init() {
	if val := os.Getenv("CATMON_DEVICE"); val != "" {
		device = val
	}
	if val := os.Getenv("CATMON_BAUD"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			baud = n
		}
	}
	flag.StringVar(&device, "device", device, "Serial device.")
	flag.IntVar(&baud, "baud", baud, "Baud rate.")
	flag.StringVar(&confFile, "config", "", "Session YAML file.")
	flag.StringVar(&mqttURL, "mqtt", "", "MQTT broker URL for report export.")
	flag.StringVar(&listenAddr, "listen", "", "HTTP listen address for the websocket feed.")
}

func main() {
	flag.Parse()

	conf := session.Defaults()
	if confFile != "" {
		var err error
		if conf, err = session.Load(confFile); err != nil {
			log.Fatalln(err)
		}
	}

	port, err := transport.OpenSerial(transport.Params{Device: device, Baud: baud})
	if err != nil {
		log.Fatalln(err)
	}
	defer port.Close()

	loop := fx.NewLoop()
	mon := monitor.New(conf, port)
	mon.Tee = monitor.NewTee()
	mon.AddToLoop(loop)
	loop.AddRunnable(&monitor.Reader{Transport: port, Loop: loop})

	ctx, cancel := context.WithCancel(context.Background())
	runner := fx.NewRunnerWith(ctx).HandleSignals()
	runner.Go(fx.NamedRun("loop", loop))
	// Leaving the shell ends the whole process.
	runner.Go(&exitAfter{Runnable: console.New(loop), cancel: cancel})
	if mqttURL != "" {
		pub, err := mqttx.NewPublisher(mqttURL, mon.Tee)
		if err != nil {
			log.Fatalln(err)
		}
		runner.Go(pub)
	}
	if listenAddr != "" {
		runner.Go(&ws.Server{Addr: listenAddr, Tee: mon.Tee})
	}
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}

type exitAfter struct {
	fx.Runnable
	cancel func()
}

func (r *exitAfter) Run(ctx context.Context) error {
	err := r.Runnable.Run(ctx)
	r.cancel()
	return err
}
