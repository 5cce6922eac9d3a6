// Package web exposes the Rankle JSON API: score submission and the
// score/leaderboard/history feeds, scoped per tenant key. It is thin I/O
// plumbing, all the logic lives in rankle/internal/back.
package web

import (
	"encoding/json"
	"log"
	"net/http"
	"rankle/internal/back"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	http       *http.Server
	back       *back.Back
	corsOrigin string

	limiterMu sync.Mutex
	limiters  map[string]*submissionLimiter
}

func NewServer(back *back.Back, addr, corsOrigin string) *Server {
	s := &Server{
		back:       back,
		corsOrigin: corsOrigin,
		limiters:   map[string]*submissionLimiter{},
	}

	s.http = &http.Server{
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  10 * time.Second,
		Handler:      s.setupRouter(),
	}

	return s
}

func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(s.cors)

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Options("/scores", noContent)

		r.Group(func(r chi.Router) {
			r.Use(s.requireTenant)
			r.Get("/scores", s.getScores)
			r.With(s.throttleSubmissions).Post("/scores", s.postScore)
			r.Get("/ratings", s.getRatings)
			r.Get("/history/{player}", s.getHistory)
		})
	})

	return r
}

func (s *Server) Serve(wg *sync.WaitGroup, done <-chan struct{}) {
	log.Println("info: starting HTTP server on " + s.http.Addr)
	wg.Add(1)
	defer wg.Done()

	go func() {
		err := s.http.ListenAndServe()
		if err == http.ErrServerClosed {
			log.Println("info: HTTP server closed")
			return
		}

		log.Fatalf("webserver crashed: %s", err)
	}()

	<-done
	if err := s.http.Close(); err != nil {
		log.Printf("warning: unable to close webserver: %s", err)
	}
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.response(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) response(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	response, err := json.Marshal(data)
	if err != nil {
		log.Printf("error: unable to marshal response: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)

	if _, err := w.Write(response); err != nil {
		log.Printf("error: unable to send response: %s", err)
	}
}

func (s *Server) error(w http.ResponseWriter, err error, code int) {
	log.Printf("error: %s", err)
	s.response(w, code, map[string]string{"error": http.StatusText(code)})
}
