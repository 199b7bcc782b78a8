package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dynat/alpha-core/engine/binutil"
	"github.com/Dynat/alpha-core/engine/config"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/storage"
	"github.com/Dynat/alpha-core/engine/world"
)

var (
	configFile  string
	pprofAddr   string
	profileKind string
	profileDir  string
)

func parseArgs() {
	flag.StringVar(&configFile, "configfile", "", "set config file path")
	flag.StringVar(&pprofAddr, "pprof", "", "listen address of the pprof http server")
	flag.StringVar(&profileKind, "profile", "", "write a cpu, mem, block or mutex profile until exit")
	flag.StringVar(&profileDir, "profiledir", ".", "directory of the profile written by -profile")
	flag.Parse()
}

func main() {
	parseArgs()
	if configFile != "" {
		config.SetConfigFile(configFile)
	}

	cfg := config.Get()
	wc := cfg.World
	binutil.SetupGWLog("world", wc.LogLevel, wc.LogFile, wc.LogStderr)
	defer gwlog.Sync()
	fmt.Fprintf(os.Stderr, "Read config %s: \n%s\n", config.GetConfigFilePath(), config.DumpPretty(cfg))

	if p := binutil.StartProfile(profileKind, profileDir); p != nil {
		defer p.Stop()
	}
	binutil.SetupPProfServer(pprofAddr)

	sc := cfg.Storage
	open, err := storage.BackendOpener(sc.Type, sc.Directory, sc.Url, sc.DB)
	if err != nil {
		gwlog.Fatalf("storage: %s", err)
	}
	if err := storage.Initialize(open); err != nil {
		gwlog.Fatalf("storage: %s", err)
	}

	w := world.New(cfg, world.Deps{})
	if err := w.Start(); err != nil {
		gwlog.Fatalf("%s start failed: %s", w, err)
	}
	setupSignals(w)

	w.Run()
	storage.Shutdown()
	gwlog.Infof("alphacore stopped")
}

func setupSignals(w *world.World) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		gwlog.Infof("received signal %s, terminating ...", sig)
		w.Terminate()
	}()
}
