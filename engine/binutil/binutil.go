package binutil

import (
	"net/http"
	_ "net/http/pprof"
	"strings"

	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/pkg/profile"
)

// SetupPProfServer starts the HTTP server for go tool pprof, an empty address disables it
func SetupPProfServer(addr string) {
	if addr == "" {
		// pprof not enabled
		gwlog.Infof("pprof server not enabled")
		return
	}

	gwlog.Infof("pprof http://%s/debug/pprof/ ... available commands: ", addr)
	gwlog.Infof("    go tool pprof http://%s/debug/pprof/heap", addr)
	gwlog.Infof("    go tool pprof http://%s/debug/pprof/profile", addr)
	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			gwlog.Errorf("pprof server stopped: %s", err)
		}
	}()
}

// StartProfile starts a cpu or mem profile written to dir, call Stop on the result before exit.
// It returns nil if kind is empty.
func StartProfile(kind string, dir string) interface{ Stop() } {
	var mode func(*profile.Profile)
	switch strings.ToLower(kind) {
	case "":
		return nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "block":
		mode = profile.BlockProfile
	case "mutex":
		mode = profile.MutexProfile
	default:
		gwlog.Panicf("unknown profile kind: %s", kind)
	}
	return profile.Start(mode, profile.ProfilePath(dir), profile.NoShutdownHook)
}

// SetupGWLog setup the log system of a component
func SetupGWLog(component string, logLevel string, logFile string, logStderr bool) {
	gwlog.SetSource(component)
	gwlog.Infof("Set log level to %s", logLevel)
	gwlog.SetLevel(gwlog.ParseLevel(logLevel))

	outputs := make([]string, 0, 2)
	if logFile != "" {
		outputs = append(outputs, logFile)
	}
	if logStderr {
		outputs = append(outputs, "stderr")
	}
	if len(outputs) == 0 {
		// zap needs at least one sink
		outputs = append(outputs, "stderr")
	}
	gwlog.SetOutput(outputs)
}
