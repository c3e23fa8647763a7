// Package server exposes the daemon's read-only status over HTTP.
//
// Endpoints:
//
//	GET /presence          every account in the current snapshot, by name
//	GET /events?limit=N    most recent changes, newest first
//	GET /metrics           Prometheus exposition
//	GET /healthz           liveness
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"tools.zach/dev/presencecord/internal/metrics"
	"tools.zach/dev/presencecord/internal/presence"
	"tools.zach/dev/presencecord/internal/tracker"
)

// idleActivity is shown for accounts that are not in a game.
const idleActivity = "None"

// maxEventsLimit caps the limit query parameter of /events.
const maxEventsLimit = 1000

// Router serves the status endpoints.
type Router struct {
	store   *presence.Store
	history *tracker.History
	started time.Time
}

// NewRouter builds a Router over the live snapshot and change history.
// history may be nil, in which case /events is always empty.
func NewRouter(store *presence.Store, history *tracker.History) *Router {
	return &Router{store: store, history: history, started: time.Now()}
}

// Handler returns an http.Handler powered by gin.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET("/presence", r.handlePresence)
	g.GET("/events", r.handleEvents)
	g.GET("/healthz", r.handleHealth)
	g.GET("/metrics", gin.WrapH(metrics.Handler()))
	return g
}

// NewServer returns an http.Server for addr with conservative timeouts. The
// caller starts and shuts it down.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// ///////////////////////////////////////////////
// Handlers
// ///////////////////////////////////////////////

type errorResp struct {
	Error string `json:"error"`
}

// presenceEntry is one row of /presence.
type presenceEntry struct {
	SteamID  uint64          `json:"steam_id,string"`
	Name     string          `json:"name"`
	Status   presence.Status `json:"status"`
	Activity string          `json:"activity"`
}

type presenceResp struct {
	Count    int             `json:"count"`
	Accounts []presenceEntry `json:"accounts"`
}

func (r *Router) handlePresence(c *gin.Context) {
	list := r.store.List()
	out := presenceResp{Count: len(list), Accounts: make([]presenceEntry, 0, len(list))}
	for _, e := range list {
		activity := e.Activity
		if activity == "" {
			activity = idleActivity
		}
		out.Accounts = append(out.Accounts, presenceEntry{
			SteamID:  e.SteamID,
			Name:     e.ProfileName,
			Status:   e.Status,
			Activity: activity,
		})
	}
	c.JSON(http.StatusOK, out)
}

type eventsResp struct {
	Events []tracker.Record `json:"events"`
}

func (r *Router) handleEvents(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, errorResp{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxEventsLimit)
	}

	events := []tracker.Record{}
	if r.history != nil {
		events = append(events, r.history.Recent(limit)...)
	}
	c.JSON(http.StatusOK, eventsResp{Events: events})
}

type healthResp struct {
	OK       bool   `json:"ok"`
	Observed int    `json:"observed"`
	Uptime   string `json:"uptime"`
}

func (r *Router) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResp{
		OK:       true,
		Observed: r.store.Len(),
		Uptime:   time.Since(r.started).Truncate(time.Second).String(),
	})
}
