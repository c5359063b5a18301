// Package console is the interactive operator console. Every command
// that touches session state or transmits posts a message to the
// control loop instead of mutating anything directly, so the monitor
// stays the single writer.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	fx "github.com/jewelux/catmon.go/pkg/framework"
	"github.com/jewelux/catmon.go/pkg/monitor"
	"github.com/jewelux/catmon.go/pkg/session"
)

// Console wraps an ishell-backed interactive shell.
type Console struct {
	Shell *ishell.Shell
	Loop  fx.LoopControl
}

const consoleKey = "$console"

// replyTimeout bounds the wait for the loop to act on a command.
const replyTimeout = time.Second

var commands = []*ishell.Cmd{
	&ProtoCmd,
	&TXModeCmd,
	&GapCmd,
	&EchoCmd,
	&AutoDecodeCmd,
	&ASCIICmd,
	&SendCmd,
	&PTTCmd,
	&ShowCmd,
}

// New creates a Console posting to the given loop.
func New(loop fx.LoopControl) *Console {
	c := &Console{Shell: ishell.New(), Loop: loop}
	c.Shell.Set(consoleKey, c)
	c.Shell.SetPrompt("catmon> ")
	for _, cmd := range commands {
		c.Shell.AddCmd(cmd)
	}
	return c
}

// Run implements framework.Runnable.
func (c *Console) Run(ctx context.Context) error {
	return fx.RunWithContextCancel(ctx, c.Shell.Stop, func() error {
		c.Shell.Run()
		return nil
	})
}

// Name implements framework.Named.
func (c *Console) Name() string { return "console" }

func from(c *ishell.Context) *Console {
	return c.Get(consoleKey).(*Console)
}

func (c *Console) post(msg fx.Message) {
	c.Loop.PostMessage(msg)
	c.Loop.TriggerNext()
}

// send posts a raw transmission and waits for the validation outcome.
func (c *Console) send(input string, forceText bool) error {
	reply := make(chan error, 1)
	c.post(monitor.SendRaw{Input: input, ForceText: forceText, Reply: reply})
	select {
	case err := <-reply:
		return err
	case <-time.After(replyTimeout):
		return fmt.Errorf("command timeout")
	}
}

// ProtoCmd selects the monitored protocol.
var ProtoCmd = ishell.Cmd{
	Name: "proto",
	Help: "proto civ|cat - select monitored protocol",
	Func: func(c *ishell.Context) {
		if len(c.Args) != 1 {
			c.Err(fmt.Errorf("usage: proto civ|cat"))
			return
		}
		p, err := session.ParseProtocol(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		from(c).post(monitor.SetProtocol{Protocol: p})
		c.Println("protocol:", p)
	},
}

// TXModeCmd selects the raw-send input format.
var TXModeCmd = ishell.Cmd{
	Name: "txmode",
	Help: "txmode hex|text - select raw send input format",
	Func: func(c *ishell.Context) {
		if len(c.Args) != 1 {
			c.Err(fmt.Errorf("usage: txmode hex|text"))
			return
		}
		f, err := session.ParseTXFormat(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		from(c).post(monitor.SetTXFormat{Format: f})
		c.Println("tx format:", f)
	},
}

// GapCmd updates the gap-flush threshold.
var GapCmd = ishell.Cmd{
	Name: "gap",
	Help: "gap <ms> - set gap flush threshold",
	Func: func(c *ishell.Context) {
		if len(c.Args) != 1 {
			c.Err(fmt.Errorf("usage: gap <ms>"))
			return
		}
		ms, err := strconv.Atoi(c.Args[0])
		if err != nil || ms <= 0 {
			c.Err(fmt.Errorf("gap must be a positive millisecond count"))
			return
		}
		from(c).post(monitor.SetGap{Threshold: time.Duration(ms) * time.Millisecond})
		c.Printf("gap threshold: %dms\n", ms)
	},
}

// EchoCmd toggles echo suppression.
var EchoCmd = ishell.Cmd{
	Name: "echo",
	Help: "echo on|off - toggle echo suppression",
	Func: onOffCmd("echo", func(on bool) fx.Message {
		return monitor.SetEchoFilter{On: on}
	}),
}

// AutoDecodeCmd toggles semantic decoding.
var AutoDecodeCmd = ishell.Cmd{
	Name: "autodecode",
	Help: "autodecode on|off - toggle semantic decoding",
	Func: onOffCmd("autodecode", func(on bool) fx.Message {
		return monitor.SetAutoDecode{On: on}
	}),
}

// ASCIICmd toggles the ASCII gutter in hex dumps.
var ASCIICmd = ishell.Cmd{
	Name: "ascii",
	Help: "ascii on|off - toggle ASCII gutter in dumps",
	Func: onOffCmd("ascii", func(on bool) fx.Message {
		return monitor.SetShowASCII{On: on}
	}),
}

// SendCmd transmits raw operator input per the current TX format.
var SendCmd = ishell.Cmd{
	Name: "send",
	Help: "send <data> - transmit raw input per current tx format",
	Func: func(c *ishell.Context) {
		if len(c.Args) == 0 {
			c.Err(fmt.Errorf("usage: send <data>"))
			return
		}
		if err := from(c).send(strings.Join(c.Args, " "), false); err != nil {
			c.Err(err)
		}
	},
}

// PTTCmd is a comfort command building complete terminated CAT
// messages; this is the one place a terminator is appended for the
// operator.
var PTTCmd = ishell.Cmd{
	Name: "ptt",
	Help: "ptt on|off - key or unkey via CAT TX;/RX;",
	Func: func(c *ishell.Context) {
		on, err := parseOnOff(c.Args)
		if err != nil {
			c.Err(fmt.Errorf("usage: ptt on|off"))
			return
		}
		msg := "RX;"
		if on {
			msg = "TX;"
		}
		if err := from(c).send(msg, true); err != nil {
			c.Err(err)
		}
	},
}

// ShowCmd prints the current session configuration.
var ShowCmd = ishell.Cmd{
	Name: "show",
	Help: "show - print session configuration",
	Func: func(c *ishell.Context) {
		reply := make(chan session.Config, 1)
		from(c).post(monitor.ShowConfig{Reply: reply})
		select {
		case conf := <-reply:
			c.Println(conf.String())
		case <-time.After(replyTimeout):
			c.Err(fmt.Errorf("command timeout"))
		}
	},
}

func onOffCmd(name string, msg func(bool) fx.Message) func(*ishell.Context) {
	return func(c *ishell.Context) {
		on, err := parseOnOff(c.Args)
		if err != nil {
			c.Err(fmt.Errorf("usage: %s on|off", name))
			return
		}
		from(c).post(msg(on))
		c.Printf("%s: %s\n", name, c.Args[0])
	}
}

func parseOnOff(args []string) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("expected on|off")
	}
	switch strings.ToLower(args[0]) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("expected on|off")
}
