// Package api exposes the rundown, playout and switcher operations over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/database/repositories"
	"github.com/bbernstein/onair-go/internal/services/device"
	"github.com/bbernstein/onair-go/internal/services/export"
	importservice "github.com/bbernstein/onair-go/internal/services/import"
	"github.com/bbernstein/onair-go/internal/services/pubsub"
	"github.com/bbernstein/onair-go/internal/services/rundown"
	"github.com/bbernstein/onair-go/internal/services/sequencer"
	"github.com/bbernstein/onair-go/internal/services/translate"
	"github.com/bbernstein/onair-go/internal/telemetry"
	"github.com/bbernstein/onair-go/pkg/vmix"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

// Deps holds everything the handlers need.
type Deps struct {
	Programs  *repositories.ProgramRepository
	Rundowns  *repositories.RundownRepository
	Stories   *repositories.StoryRepository
	Assets    *repositories.AssetRepository
	Playlists *repositories.PlaylistRepository
	Logs      *repositories.PlayoutLogRepository
	Settings  *repositories.SettingRepository

	RundownService *rundown.Service
	Translator     *translate.Translator
	Exporter       *export.Service
	Importer       *importservice.Service
	Sequencer      *sequencer.Service
	Device         *device.Adapter
	PubSub         *pubsub.PubSub
	Metrics        *telemetry.Metrics

	Logger  zerolog.Logger
	Version string
}

// API serves the HTTP endpoints.
type API struct {
	Deps
	logger  zerolog.Logger
	started time.Time
}

// New creates the API.
func New(deps Deps) *API {
	return &API{
		Deps:    deps,
		logger:  deps.Logger.With().Str("component", "api").Logger(),
		started: time.Now(),
	}
}

// RouterConfig configures the middleware chain.
type RouterConfig struct {
	CORSOrigins []string
	Debug       bool
}

// Router builds the full handler with middleware.
func (a *API) Router(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(a.requestLogger)
	router.Use(middleware.Recoverer)
	if a.Metrics != nil {
		router.Use(a.Metrics.Middleware)
	}

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		Debug:            cfg.Debug,
	})
	router.Use(corsMiddleware.Handler)

	a.Routes(router)
	return router
}

// Routes mounts the endpoints on r.
func (a *API) Routes(r chi.Router) {
	r.Get("/health", a.handleHealth)
	if a.Metrics != nil {
		r.Handle("/metrics", a.Metrics.Handler())
	}
	r.Get("/ws/playout", a.handlePlayoutSocket)
	r.Get("/ws/rundowns/{id}", a.handleRundownSocket)

	r.Route("/api", func(r chi.Router) {
		// Websocket routes stay outside the timeout, which would cut long-lived connections.
		r.Use(middleware.Timeout(60 * time.Second))

		r.Route("/programs", func(r chi.Router) {
			r.Get("/", a.handleProgramsList)
			r.Post("/", a.handleProgramsCreate)
			r.Get("/{id}", a.handleProgramsGet)
			r.Put("/{id}", a.handleProgramsUpdate)
			r.Delete("/{id}", a.handleProgramsDelete)
		})

		r.Route("/rundowns", func(r chi.Router) {
			r.Get("/", a.handleRundownsList)
			r.Post("/", a.handleRundownsCreate)
			r.Post("/import", a.handleRundownsImport)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.handleRundownsGet)
				r.Patch("/", a.handleRundownsUpdate)
				r.Delete("/", a.handleRundownsDelete)
				r.Get("/timeline", a.handleRundownTimeline)
				r.Get("/export", a.handleRundownsExport)
				r.Get("/playout", a.handleRundownTranslate)
				r.Post("/playout", a.handleRundownSendToPlayout)
				r.Post("/items", a.handleItemsAdd)
				r.Patch("/items/{itemID}", a.handleItemsUpdate)
				r.Delete("/items/{itemID}", a.handleItemsDelete)
				r.Put("/items/{itemID}/asset", a.handleItemsLinkAsset)
				r.Delete("/items/{itemID}/asset", a.handleItemsUnlinkAsset)
			})
		})

		r.Route("/stories", func(r chi.Router) {
			r.Get("/", a.handleStoriesList)
			r.Post("/", a.handleStoriesCreate)
			r.Get("/{id}", a.handleStoriesGet)
			r.Put("/{id}", a.handleStoriesUpdate)
			r.Delete("/{id}", a.handleStoriesDelete)
		})

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", a.handleAssetsList)
			r.Post("/", a.handleAssetsCreate)
			r.Get("/{id}", a.handleAssetsGet)
			r.Put("/{id}", a.handleAssetsUpdate)
			r.Delete("/{id}", a.handleAssetsDelete)
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/", a.handlePlaylistsList)
			r.Post("/", a.handlePlaylistsCreate)
			r.Get("/{id}", a.handlePlaylistsGet)
			r.Delete("/{id}", a.handlePlaylistsDelete)
		})

		r.Route("/playout", func(r chi.Router) {
			r.Get("/", a.handlePlayoutStatus)
			r.Post("/load", a.handlePlayoutLoad)
			r.Post("/next", a.handlePlayoutNext)
			r.Post("/stop", a.handlePlayoutStop)
			r.Post("/items", a.handlePlayoutAddItem)
			r.Post("/save", a.handlePlayoutSave)
			r.Put("/target", a.handlePlayoutTarget)
			r.Get("/logs", a.handlePlayoutLogs)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", a.handleSettingsList)
			r.Put("/{key}", a.handleSettingsPut)
		})

		r.Route("/device", func(r chi.Router) {
			r.Get("/", a.handleDeviceStatus)
			r.Post("/command", a.handleDeviceCommand)
			r.Post("/preview", a.handleDevicePreview)
			r.Post("/active", a.handleDeviceActive)
		})
	})
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   a.Version,
		"uptime":    time.Since(a.started).Round(time.Second).String(),
	}
	if a.PubSub != nil {
		body["streams"] = map[string]int{
			"playout":  a.PubSub.SubscriberCount(pubsub.TopicPlayoutStatus),
			"rundowns": a.PubSub.SubscriberCount(pubsub.TopicRundownUpdated),
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// requestLogger logs each request through zerolog.
func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// fail maps err to a status code and writes it. Server errors are logged and
// their detail withheld.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, status, http.StatusText(status))
		return
	}
	writeError(w, status, err.Error())
}

var validationErrors = []error{
	errBadRequest,
	models.ErrInvalidItemType,
	models.ErrInvalidItemStatus,
	models.ErrInvalidRundownStatus,
	models.ErrInvalidStoryStatus,
	models.ErrInvalidSourceKind,
	models.ErrInvalidSourceStatus,
	models.ErrInvalidAssetType,
	models.ErrInvalidOverlay,
	rundown.ErrNotLinkable,
	export.ErrInvalidDocument,
	export.ErrUnsupportedVersion,
	importservice.ErrInvalidOptions,
	rundown.ErrInvalidStartTime,
	device.ErrInvalidChannel,
	vmix.ErrMissingFunction,
}

func statusFor(err error) int {
	if errors.Is(err, repositories.ErrNotFound) {
		return http.StatusNotFound
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// found turns a nil lookup result into ErrNotFound.
func found[T any](v *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, repositories.ErrNotFound
	}
	return v, nil
}
