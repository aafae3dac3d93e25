// File: cmd/wsockd/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// wsockd runs the frame exchange against a built-in loopback peer that
// stands in for the in-page script: the host transport in production
// hands its stream writer and binary-message hook to the same server
// entry points this binary wires up locally.
//
// With --test the scripted ping/pong conformance exchange runs once and
// the process exit code is the recorded result (0 success, 1 failure).
// Without it a short interactive echo demo runs instead.

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/momentics/wsock/api"
	"github.com/momentics/wsock/client"
	"github.com/momentics/wsock/server"
)

// loopbackWriter is an in-process stream writer delivering outbound bytes
// straight to the loopback peer.
type loopbackWriter struct {
	mu       sync.Mutex
	peer     *client.Peer
	logger   *log.Logger
	finished bool
}

func (w *loopbackWriter) Start(meta api.StreamMetadata) error {
	w.logger.Printf("[ws] stream opened: %s", meta.MIME)
	return nil
}

func (w *loopbackWriter) Write(p []byte) error {
	w.mu.Lock()
	if w.finished {
		w.mu.Unlock()
		return api.ErrStreamClosed
	}
	w.mu.Unlock()
	w.peer.HandleStreamBytes(p)
	return nil
}

func (w *loopbackWriter) Valid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.finished
}

func (w *loopbackWriter) Finish() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.finished = true
	return nil
}

func main() {
	testMode := flag.Bool("test", false, "run the scripted ping/pong conformance exchange and exit")
	pingCount := flag.Int("pings", 3, "probes sent in test mode")
	pingTimeout := flag.Duration("ping-timeout", 3*time.Second, "wait for each PONG")
	connectPath := flag.String("connect-path", "/connect", "stream path admitted as a connection request")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *testMode {
		logger.Printf("[test] running in test mode")
	}

	srv := server.New(
		server.WithTestMode(*testMode),
		server.WithPingCount(*pingCount),
		server.WithPingTimeout(*pingTimeout),
		server.WithConnectPath(*connectPath),
		server.WithLogger(logger),
	)

	peer := client.NewPeer(srv.HandleBinary, logger)
	writer := &loopbackWriter{peer: peer, logger: logger}

	if err := srv.HandleStream(*connectPath, writer); err != nil {
		logger.Fatalf("[ws] connect failed: %v", err)
	}

	signalCh := make(chan os.Signal, 2)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	if *testMode {
		report := api.TestReport{Result: 1}
		select {
		case report = <-srv.TestDone():
		case sig := <-signalCh:
			logger.Printf("[ws] signal %v, aborting test run", sig)
		}
		if err := srv.Shutdown(); err != nil {
			logger.Printf("[ws] shutdown error: %v", err)
		}

		verdict := "FAILED"
		if report.Result == 0 {
			verdict = "SUCCESS"
		}
		logger.Printf("[test] pings: %d, pongs: %d, result: %s",
			report.PingsSent, report.PongsReceived, verdict)
		os.Exit(report.Result)
	}

	// Interactive demo: the peer sends a couple of messages and closes.
	peer.SendText("hello over the loopback scheme")
	peer.SendText("wsock echo demo")
	time.Sleep(200 * time.Millisecond)
	peer.SendClose()

	select {
	case <-peer.Closed():
	case sig := <-signalCh:
		logger.Printf("[ws] signal %v, shutting down", sig)
	}

	for _, f := range peer.DataFrames() {
		logger.Printf("[demo] echoed back: %s", f.Payload)
	}
	for name, value := range srv.Control().Stats() {
		logger.Printf("[demo] %s = %v", name, value)
	}

	if err := srv.Shutdown(); err != nil {
		logger.Printf("[ws] shutdown error: %v", err)
	}
}
