package main

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/calculator"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve calculators over HTTP",
		Long: `Serve a JSON API that computes calculators from a definitions file.

  GET  /api/calculators                  list calculators
  GET  /api/calculators/{slug}           one calculator's definition
  POST /api/calculators/{slug}/compute   compute {"values": {...}}
  GET  /metrics                          prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := a.v.GetString("serve.calculators")
			calcs, err := calculator.LoadFile(file)
			if err != nil {
				return err
			}
			reg, err := calculator.NewRegistry(calcs, a.options()...)
			if err != nil {
				// Serve what did prepare.
				a.log.WithError(err).Warn("some calculators were not loaded")
			}
			a.log.WithFields(logrus.Fields{"file": file, "calculators": reg.Len()}).Info("loaded calculators")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			srv := &http.Server{
				Addr:              a.v.GetString("serve.addr"),
				Handler:           newAPI(reg, a.log, a.v.GetInt64("serve.max_body")).router(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				a.log.WithField("addr", srv.Addr).Info("serving")
				errc <- srv.ListenAndServe()
			}()
			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			a.log.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		},
	}
	fl := cmd.Flags()
	fl.String("addr", ":8080", "address to listen on")
	fl.String("calculators", "calculators.json", "calculator definitions file")
	fl.Int64("max-body", 1<<16, "maximum request body size in bytes")
	a.bind("serve.addr", fl.Lookup("addr"))
	a.bind("serve.calculators", fl.Lookup("calculators"))
	a.bind("serve.max_body", fl.Lookup("max-body"))
	return cmd
}

// api serves calculators from a registry.
type api struct {
	reg     *calculator.Registry
	log     logrus.FieldLogger
	maxBody int64

	metrics  *prometheus.Registry
	computes *prometheus.CounterVec
}

func newAPI(reg *calculator.Registry, log logrus.FieldLogger, maxBody int64) *api {
	a := api{
		reg:     reg,
		log:     log,
		maxBody: maxBody,
		metrics: prometheus.NewRegistry(),
		computes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "formula_computations_total",
			Help: "Calculator computations by slug and outcome.",
		}, []string{"slug", "outcome"}),
	}
	a.metrics.MustRegister(a.computes)
	return &a
}

func (a *api) router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, a.logRequests)
	a.RegisterHandlers(r)
	r.Handle("/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))
	return r
}

// RegisterHandlers registers the calculator routes.
func (a *api) RegisterHandlers(r *chi.Mux) {
	r.Get("/api/calculators", a.listHandler)
	r.Get("/api/calculators/{slug}", a.calculatorHandler)
	r.Post("/api/calculators/{slug}/compute", a.computeHandler)
}

func (a *api) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	})
}

type summary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

func (a *api) listHandler(w http.ResponseWriter, r *http.Request) {
	list := []summary{}
	for _, slug := range a.reg.Slugs() {
		list = append(list, summary{Slug: slug, Title: a.reg.Get(slug).Title})
	}
	a.reply(w, http.StatusOK, list)
}

func (a *api) calculatorHandler(w http.ResponseWriter, r *http.Request) {
	p := a.reg.Get(chi.URLParam(r, "slug"))
	if p == nil {
		a.fail(w, http.StatusNotFound, errors.New("no such calculator"))
		return
	}
	a.reply(w, http.StatusOK, p.Calculator)
}

type computeRequest struct {
	Values map[string]float64 `json:"values"`
}

type computeResponse struct {
	// Result is null when the result is not finite, which JSON can't hold.
	Result  *float64 `json:"result"`
	Display string   `json:"display"`
}

func (a *api) computeHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p := a.reg.Get(slug)
	if p == nil {
		a.fail(w, http.StatusNotFound, errors.New("no such calculator"))
		return
	}
	var req computeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, a.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		a.computes.WithLabelValues(slug, "bad_request").Inc()
		a.fail(w, http.StatusBadRequest, err)
		return
	}
	v, err := p.Compute(req.Values)
	if err != nil {
		a.computes.WithLabelValues(slug, "invalid").Inc()
		a.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	a.computes.WithLabelValues(slug, "ok").Inc()
	resp := computeResponse{Display: p.Display(v)}
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		resp.Result = &v
	}
	a.reply(w, http.StatusOK, resp)
}

type errorResponse struct {
	Error string `json:"error"`
	Pos   int    `json:"pos,omitempty"`
}

func (a *api) fail(w http.ResponseWriter, code int, err error) {
	resp := errorResponse{Error: err.Error()}
	var ierr formula.InputError
	if errors.As(err, &ierr) {
		resp.Pos = ierr.Pos()
	}
	a.reply(w, code, resp)
}

func (a *api) reply(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.WithError(err).Error("failed to write response")
	}
}
