package http

import (
	"net/http"

	"github.com/Fandor1in/padel-miniapp/internal/auth"
	"github.com/Fandor1in/padel-miniapp/internal/config"
	"github.com/Fandor1in/padel-miniapp/internal/metrics"
	"github.com/Fandor1in/padel-miniapp/internal/processor"
	"github.com/Fandor1in/padel-miniapp/internal/telegram"
)

type Server struct {
	Processor      *processor.Processor
	Verifier       telegram.Verifier
	Sessions       *auth.Sessions
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux

	// handler is the router wrapped with the cross-cutting middleware.
	handler http.Handler
}
