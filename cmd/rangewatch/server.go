package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"gitlab.com/lologarithm/rangewatch/alert"
	"gitlab.com/lologarithm/rangewatch/history"
	"gitlab.com/lologarithm/rangewatch/page"
	"gitlab.com/lologarithm/rangewatch/rnet"
	"gitlab.com/lologarithm/rangewatch/station"
)

type userAccess struct {
	Pwd    string
	Access int
}

// Access levels
const (
	AccessNone  int = 0
	AccessRead      = 1
	AccessWrite     = 2
)

// maxEvents is how many snapshots /stats keeps in memory.
const maxEvents = 10000

// alerter sends alert notifications, *notify.Mailer in production.
type alerter interface {
	Send(ctx context.Context, subj, msg string) error
}

type server struct {
	cfg      Config
	state    *station.State
	registry *prometheus.Registry
	metrics  *metrics
	watch    alert.Watcher

	mailer       alerter
	recorder     history.Recorder // may be nil
	broadcasters []rnet.Broadcaster

	sending sync.WaitGroup // alert mails in flight

	datalock  sync.RWMutex
	eventData []station.Snapshot

	clientslock   sync.Mutex
	clientStreams []*websocket.Conn
}

func newServer(cfg Config) *server {
	reg := prometheus.NewRegistry()
	return &server{
		cfg:      cfg,
		state:    &station.State{},
		registry: reg,
		metrics:  newMetrics(reg),
	}
}

// run applies every snapshot from the stream until it is closed,
// then waits for alert mails still being sent.
func (srv *server) run(ctx context.Context, stream <-chan station.Snapshot) {
	for s := range stream {
		srv.apply(ctx, s)
	}
	srv.sending.Wait()
}

// apply makes s the current state and pushes it everywhere it needs to go.
func (srv *server) apply(ctx context.Context, s station.Snapshot) {
	srv.state.Update(s)
	srv.metrics.observe(s)

	if changed, raised := srv.watch.Observe(s.Alert); changed {
		log.Printf("Alert changed to: %q (temp %.1fF, distance %.1fcm)", s.Alert, s.TempF, s.DistanceCM)
		if raised {
			srv.metrics.alerts.Inc()
		}
		if raised && srv.mailer != nil {
			srv.sending.Add(1)
			go func() {
				defer srv.sending.Done()
				err := srv.mailer.Send(ctx, srv.cfg.Name+" alert", s.Alert)
				if err != nil {
					log.Printf("[Error] Failed to send alert: %s", err)
				}
			}()
		}
	}

	srv.datalock.Lock()
	srv.eventData = append(srv.eventData, s)
	if len(srv.eventData) > maxEvents {
		srv.eventData = append(srv.eventData[:0], srv.eventData[len(srv.eventData)-maxEvents:]...)
	}
	srv.datalock.Unlock()

	if srv.recorder != nil {
		rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := srv.recorder.Record(rctx, s); err != nil {
			log.Printf("[Error] Failed to record snapshot: %s", err)
		}
		cancel()
	}
	for _, b := range srv.broadcasters {
		if err := b.Broadcast(s); err != nil {
			log.Printf("[Error] Failed to broadcast snapshot: %s", err)
		}
	}

	d, err := json.Marshal(s)
	if err != nil {
		log.Printf("[Error] Failed to marshal snapshot to json: %s", err)
		return
	}
	srv.push(d)
}

func (srv *server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// cors answers preflights itself, before they reach auth
	r.Handle("/snapshot", cors.Default().Handler(srv.authMiddleware(http.HandlerFunc(srv.snapshotHandler)))).
		Methods(http.MethodGet, http.MethodOptions)

	authed := r.NewRoute().Subrouter()
	authed.Use(srv.authMiddleware)
	authed.HandleFunc("/", srv.pageHandler).Methods(http.MethodGet)
	authed.HandleFunc("/stream", srv.clientStreamHandler)
	authed.HandleFunc("/stats", srv.statsHandler).Methods(http.MethodGet)
	authed.Handle("/metrics", promhttp.HandlerFor(srv.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

func (srv *server) pageHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := page.Render(&buf, srv.state.Display()); err != nil {
		log.Printf("[Error] Failed to render page: %s", err)
		http.Error(w, "unable to render page", http.StatusInternalServerError)
		return
	}
	srv.metrics.pages.Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (srv *server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(srv.state.Display())
}

func (srv *server) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	srv.datalock.RLock()
	defer srv.datalock.RUnlock()
	json.NewEncoder(w).Encode(srv.eventData)
}

// loadHistory seeds /stats from what was recorded on disk.
func (srv *server) loadHistory(snaps []station.Snapshot) {
	if len(snaps) > maxEvents {
		snaps = snaps[len(snaps)-maxEvents:]
	}
	srv.datalock.Lock()
	srv.eventData = append(snaps, srv.eventData...)
	srv.datalock.Unlock()
}

func (srv *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if srv.auth(w, r) == AccessNone {
			return // Don't let them access
		}
		next.ServeHTTP(w, r)
	})
}

func (srv *server) auth(w http.ResponseWriter, r *http.Request) int {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	// Allow intra-net access without auth.
	if strings.HasPrefix(host, "192.168.") || host == "127.0.0.1" || host == "::1" {
		return AccessWrite
	}
	name, pwd, _ := r.BasicAuth()
	user, ok := srv.cfg.Users[name]
	if !ok || user.Pwd != pwd || user.Access == AccessNone {
		log.Printf("Unauthed User: %s", host)
		w.Header().Set("WWW-Authenticate", `Basic realm="Station"`)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("NO ACCESS."))
		return AccessNone
	}
	return user.Access
}
