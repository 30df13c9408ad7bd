package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anvilcrypt/aesdh/internal/exception"
	log "github.com/anvilcrypt/aesdh/internal/glog"
	t "github.com/anvilcrypt/aesdh/tunnel"
	"github.com/urfave/cli/v2"
)

var sigChan = make(chan os.Signal, 1)

// bye is delivered on sigChan by the REPL when the user types "quit", so
// waitSignal can unwind the same way it does for a real OS signal.
var bye = syscall.Signal(0)

// bootContext carries the flags parsed off the command line plus the one
// live Session the menu loop drives. Unlike the teacher's bootContext,
// there is no fleet of proxy connections to track: §4.9's orchestrator is
// single-threaded by design.
type bootContext struct {
	configFile string
	listen     string
	peer       string
	mode       string
	keySize    int
	verbosity  int
	session    *t.Session
}

func (ctx *bootContext) initialize(c *cli.Context) error {
	conf, err := t.LoadConfig(ctx.configFile)
	if err != nil {
		return err
	}
	if !c.IsSet("listen") {
		ctx.listen = conf.Listen
	}
	if !c.IsSet("peer") {
		ctx.peer = conf.Peer
	}
	if !c.IsSet("mode") {
		ctx.mode = conf.Mode
	}
	if !c.IsSet("keysize") {
		ctx.keySize = conf.KeySize
	}
	if !c.IsSet("v") {
		ctx.verbosity = conf.Verbose
	}
	log.SetVerbosity(ctx.verbosity)
	ctx.session = t.NewSession(rand.New(rand.NewSource(newSeed())))
	return nil
}

// startCommandHandler runs the self-test banner and then the interactive
// menu loop described in §4.9: one command per line, read from stdin,
// driving Initialize/Listen/Request/Send/Reexchange/Terminate.
func (ctx *bootContext) startCommandHandler(c *cli.Context) error {
	fmt.Println(versionString())
	probeKey := t.SharedKey{0x0102030405060708, 0x1112131415161718, 0x2122232425262728, 0x3132333435363738}
	fmt.Println(t.SelfTest(probeKey))

	go waitSignal(ctx)
	ctx.repl()
	return nil
}

func (ctx *bootContext) repl() {
	defer func() {
		if ctx.session != nil {
			ctx.session.Close()
		}
		sigChan <- bye
	}()

	fmt.Println("commands: listen | connect | send <text> | recv | reexchange | terminate | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("aesdh-chat[%s]> ", ctx.session.State())
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		cmd := fields[0]
		var arg string
		if len(fields) == 2 {
			arg = fields[1]
		}
		if cmd == "quit" {
			return
		}
		if err := ctx.dispatch(cmd, arg); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err, exception.Detail(err))
		}
	}
}

func (ctx *bootContext) dispatch(cmd, arg string) error {
	switch cmd {
	case "listen":
		peer, err := t.ParsePeer(firstNonEmpty(arg, ctx.listen))
		if err != nil {
			return err
		}
		return ctx.session.Listen(peer)

	case "connect":
		peer, err := t.ParsePeer(firstNonEmpty(arg, ctx.peer))
		if err != nil {
			return err
		}
		return ctx.session.Initialize(peer)

	case "send":
		mode, err := t.ParseMode(ctx.mode)
		if err != nil {
			return err
		}
		nr, err := t.NrForKeySize(ctx.keySize)
		if err != nil {
			return err
		}
		return ctx.session.Send(nr, mode, []byte(arg))

	case "recv":
		event, data, err := ctx.session.Request()
		if err != nil {
			return err
		}
		switch event {
		case t.EventMessage:
			fmt.Printf("peer: %s\n", data)
		case t.EventReexchanged:
			fmt.Println("key material refreshed by peer")
		}
		return nil

	case "reexchange":
		return ctx.session.Reexchange()

	case "terminate":
		return ctx.session.Terminate()

	default:
		return exception.New(exception.ArgumentError, "unknown command").Apply(cmd)
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// newSeed draws a process-local seed for the session's non-cryptographic
// rand.Source; the exchange protocol's security doesn't rest on this
// source per the Non-goals, only on the safe-prime arithmetic itself.
func newSeed() int64 {
	var buf [8]byte
	f, err := os.Open("/dev/urandom")
	if err == nil {
		defer f.Close()
		f.Read(buf[:])
	}
	var seed int64
	for _, b := range buf {
		seed = seed<<8 | int64(b)
	}
	if seed == 0 {
		seed = int64(os.Getpid())
	}
	return seed
}

func waitSignal(ctx *bootContext) {
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	for sig := range sigChan {
		switch sig {
		case bye:
			log.Infoln("Exiting.")
			os.Exit(0)
		case syscall.SIGINT, syscall.SIGTERM:
			log.Infoln("Terminated by", sig)
			if ctx.session != nil {
				ctx.session.Close()
			}
			os.Exit(0)
		default:
			log.Infoln("Ignore signal", sig)
		}
	}
}

func fatalError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
