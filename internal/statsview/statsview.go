// Package statsview runs a local HTTP server offering runtime statistics of
// the emulator process.
//
// After launch, graphical statistics are viewable at:
//
//	localhost:12600/debug/statsview
//
// And standard Go pprof statistics are available at:
//
//	localhost:12600/debug/pprof/
package statsview

import (
	"errors"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

// Address the server listens on.
const Address = "localhost:12600"

const url = "/debug/statsview"

// Server is a running statistics server.
type Server struct {
	manager *statsview.ViewManager
}

// Launch starts the statistics server in a new goroutine.
func Launch(logger *log.Logger) *Server {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	manager := statsview.New()

	go func() {
		if err := manager.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Stats server failed", log.Err(err))
		}
	}()

	logger.Info("Stats server available", log.String("url", "http://"+Address+url))
	return &Server{manager: manager}
}

// Stop shuts the server down.
func (s *Server) Stop() {
	s.manager.Stop()
}
