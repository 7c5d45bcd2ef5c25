package nats

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/persona/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// readyTimeout bounds how long StartEmbeddedNATS waits for the server.
const readyTimeout = 4 * time.Second

// StartEmbeddedNATS starts an in-process NATS server with JetStream enabled.
// The server opens no network ports. storeDir is only used for JetStream
// bookkeeping; the session stream itself lives in memory.
func StartEmbeddedNATS(storeDir string) (*server.Server, error) {
	logger.Debug("Starting embedded NATS server (store dir: %s)", storeDir)

	opts := &server.Options{
		JetStream:  true,
		StoreDir:   storeDir,
		DontListen: true,
		NoSigs:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create nats server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	logger.Debug("NATS server ready for connections")
	return ns, nil
}

// ConnectInProcess creates an in-process connection to the embedded server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	conn, err := nats.Connect("", nats.InProcessServer(ns), nats.Name("persona"))
	if err != nil {
		return nil, fmt.Errorf("connect in-process: %w", err)
	}
	return conn, nil
}

// CreateJetStream creates a JetStream context from a NATS connection.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Shutdown drains the connection and stops the server, forcing each step
// if it does not finish within its timeout.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("NATS drain timed out after 2s, forcing close")
			nc.Close()
		}
		// Drain completes asynchronously; wait for the connection to close
		for i := 0; i < 100 && !nc.IsClosed(); i++ {
			time.Sleep(10 * time.Millisecond)
		}
	}

	if ns != nil {
		ns.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
		case <-time.After(5 * time.Second):
			return errors.New("nats server shutdown timed out")
		}
	}

	logger.Debug("NATS shutdown complete")
	return nil
}

// Embedded bundles a running in-process server, its connection, a JetStream
// context and the session stream.
type Embedded struct {
	Server *server.Server
	Conn   *nats.Conn
	JS     jetstream.JetStream
	Stream jetstream.Stream
	dir    string
}

// Start brings up an embedded server in a fresh temporary store directory
// and creates the session stream.
func Start(ctx context.Context) (*Embedded, error) {
	dir, err := os.MkdirTemp("", "persona-nats-*")
	if err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	e := &Embedded{dir: dir}
	if e.Server, err = StartEmbeddedNATS(dir); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	if e.Conn, err = ConnectInProcess(e.Server); err != nil {
		e.Close()
		return nil, err
	}
	if e.JS, err = CreateJetStream(e.Conn); err != nil {
		e.Close()
		return nil, fmt.Errorf("create jetstream: %w", err)
	}
	if e.Stream, err = SetupStream(ctx, e.JS); err != nil {
		e.Close()
		return nil, fmt.Errorf("setup stream: %w", err)
	}
	return e, nil
}

// Close shuts everything down and removes the store directory.
func (e *Embedded) Close() error {
	err := Shutdown(e.Conn, e.Server)
	if e.dir != "" {
		if rmErr := os.RemoveAll(e.dir); rmErr != nil && err == nil {
			err = rmErr
		}
		e.dir = ""
	}
	return err
}
