package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/invoix/wrapper-server/pkg/cspl/encoder"
	"github.com/invoix/wrapper-server/pkg/cspl/engine"
	"github.com/invoix/wrapper-server/pkg/metrics"
	"github.com/invoix/wrapper-server/pkg/netutil"
	"github.com/invoix/wrapper-server/pkg/rate"
)

const (
	v1PathPrefix      = "/v1"
	v1AdminPathPrefix = v1PathPrefix + "/admin"
	v1WrapperPath     = v1PathPrefix + "/wrappers/{assetMint}"
	statusPath        = "/"
	metricsPath       = "/metrics"

	assetMintPathVar = "assetMint"

	contentTypeHeaderName      = "content-type"
	jsonContentTypeHeaderValue = "application/json"
	requestIdHeaderName        = "x-request-id"
)

type requestIdContextKey struct{}

// Server exposes the engine over JSON HTTP endpoints
type Server struct {
	log      *logrus.Entry
	conf     *conf
	engine   *engine.Engine
	limiter  rate.Limiter
	registry *prometheus.Registry
	metrics  *httpMetrics
	nr       *newrelic.Application
}

// NewServer returns a new Server. A nil limiter disables rate limiting, and a
// nil New Relic application disables tracing.
func NewServer(engine *engine.Engine, limiter rate.Limiter, nr *newrelic.Application, configProvider ConfigProvider) *Server {
	if limiter == nil {
		limiter = &rate.NoLimiter{}
	}

	registry := prometheus.NewRegistry()

	return &Server{
		log:      logrus.StandardLogger().WithField("type", "web/server"),
		conf:     configProvider(),
		engine:   engine,
		limiter:  limiter,
		registry: registry,
		metrics:  newHttpMetrics(registry),
		nr:       nr,
	}
}

// GetIntentPath returns the endpoint an operation is served on
func GetIntentPath(op encoder.Operation) string {
	if op.IsAdmin() {
		return v1AdminPathPrefix + "/" + op.String()
	}
	return v1PathPrefix + "/" + op.String()
}

func (s *Server) intentHandler(op encoder.Operation, path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithFields(logrus.Fields{
			"path":       path,
			"request_id": getRequestId(r.Context()),
		})

		statusCode, body := func() (int, ApiResponseBody) {
			ctx := r.Context()

			fields, err := newIntentBodyFromHttpContext(r, s.conf.maxBodyBytes.Get(ctx))
			if err != nil {
				return http.StatusBadRequest, NewFailureResponseBody(err)
			}

			result, err := s.engine.Build(ctx, op, fields)
			if err != nil {
				statusCode, body := HandleErrorInWebContext(err)
				if statusCode >= http.StatusInternalServerError {
					log.WithError(err).Warn("failure building transaction")
				}
				return statusCode, body
			}

			return http.StatusOK, NewTransactionResponseBody(result.Transaction)
		}()

		if err := writeResponse(w, statusCode, body); err != nil {
			log.WithError(err).Info("failed to write body")
		}
	}
}

func (s *Server) getWrapperHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithFields(logrus.Fields{
			"path":       path,
			"request_id": getRequestId(r.Context()),
		})

		statusCode, body := func() (int, ApiResponseBody) {
			ctx := r.Context()

			state, err := s.engine.GetWrapper(ctx, mux.Vars(r)[assetMintPathVar])
			if err != nil {
				statusCode, body := HandleErrorInWebContext(err)
				if statusCode >= http.StatusInternalServerError {
					log.WithError(err).Warn("failure getting wrapper")
				}
				return statusCode, body
			}

			return http.StatusOK, ApiResponseBody{
				"wrapper": newWrapperView(state),
			}
		}()

		if err := writeResponse(w, statusCode, body); err != nil {
			log.WithError(err).Info("failed to write body")
		}
	}
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	body := ApiResponseBody{
		"status":  "ok",
		"service": s.conf.serviceName.Get(r.Context()),
	}
	if err := writeResponse(w, http.StatusOK, body); err != nil {
		s.log.WithError(err).Info("failed to write body")
	}
}

func (s *Server) rateLimitedHandler(w http.ResponseWriter, r *http.Request) {
	s.log.WithField("client_ip", netutil.GetClientIP(r)).Debug("request rate limited")

	if err := writeResponse(w, http.StatusTooManyRequests, NewFailureResponseBody(errors.New(rateLimitedMessage))); err != nil {
		s.log.WithError(err).Info("failed to write body")
	}
}

// GetHandlers returns the JSON API handlers keyed by path
func (s *Server) GetHandlers() map[string]http.HandlerFunc {
	res := make(map[string]http.HandlerFunc)
	for _, op := range encoder.AllOperations {
		path := GetIntentPath(op)
		res[path] = s.intentHandler(op, path)
	}
	return res
}

// Handler returns the complete HTTP handler, with routing and middleware
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(
		s.requestIdMiddleware,
		s.newRelicMiddleware,
		s.metrics.middleware,
	)

	limited := rate.NewHTTPMiddleware(s.limiter, netutil.GetClientIP, s.rateLimitedHandler)

	for path, handler := range s.GetHandlers() {
		router.Handle(path, limited(handler)).Methods(http.MethodPost)
	}
	router.Handle(v1WrapperPath, limited(http.HandlerFunc(s.getWrapperHandler(v1WrapperPath)))).Methods(http.MethodGet)

	router.HandleFunc(statusPath, s.statusHandler).Methods(http.MethodGet)
	router.Handle(metricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(
		handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{contentTypeHeaderName, requestIdHeaderName}),
		)(router),
	)
}

func (s *Server) requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId, err := uuid.Parse(r.Header.Get(requestIdHeaderName))
		if err != nil {
			requestId = uuid.New()
		}

		w.Header().Set(requestIdHeaderName, requestId.String())
		ctx := context.WithValue(r.Context(), requestIdContextKey{}, requestId.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) newRelicMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.nr == nil {
			next.ServeHTTP(w, r)
			return
		}

		name := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				name = template
			}
		}

		txn := s.nr.StartTransaction(r.Method + " " + name)
		defer txn.End()

		txn.SetWebRequestHTTP(r)
		w = txn.SetWebResponse(w)

		r = newrelic.RequestWithTransactionContext(r, txn)
		r = r.WithContext(metrics.NewContext(r.Context(), s.nr))

		next.ServeHTTP(w, r)
	})
}

func getRequestId(ctx context.Context) string {
	requestId, _ := ctx.Value(requestIdContextKey{}).(string)
	return requestId
}
