package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"syscall"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	dig_container "github.com/KB1707/CramJam/apps/api/di/dig"
	echoapi "github.com/KB1707/CramJam/apps/api/echo"
	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/chat"
	"github.com/KB1707/CramJam/services/files"
	"github.com/KB1707/CramJam/storage"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		stores *storage.Stores,
		closeFiles files.Closer,
		room *chat.Room,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		roomCtx, stopRoom := context.WithCancel(context.Background())
		roomDone := make(chan struct{})
		go func() {
			room.Run(roomCtx)
			close(roomDone)
		}()

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)
		expvar.NewString("room").Set(room.Name)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		go server.Start()
		apiLogger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))

		go func() {
			select {
			case err := <-server.Errors():
				apiLogger.Fatal(fmt.Sprintf("server error: %v", err), err)
			case <-server.ShutdownRequested():
				apiLogger.Info("shutdown requested")
				if p, err := os.FindProcess(os.Getpid()); err == nil {
					_ = p.Signal(syscall.SIGTERM)
				}
			}
		}()

		// =========================================================================
		// Shutdown

		wait := gfshutdown.GracefulShutdown(
			context.Background(),
			conf.Server.ShutdownTimeout,
			map[string]gfshutdown.Operation{
				"api": func(ctx context.Context) error {
					apiLogger.Info("Start shutdown...")

					// asking listener to shut down and shed load
					if err := server.Shutdown(ctx); err != nil {
						apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
						if err = server.Close(); err != nil {
							apiLogger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
						}
					}

					stopRoom()
					select {
					case <-roomDone:
					case <-ctx.Done():
					}

					if err := closeFiles(); err != nil {
						apiLogger.Error(fmt.Sprintf("closing file storage: %v", err), err)
					}
					return stores.Close()
				},
			},
		)

		exitCode := <-wait
		apiLogger.Info(fmt.Sprintf("Application stopped (exit code %d)", exitCode))
		os.Exit(exitCode)
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
