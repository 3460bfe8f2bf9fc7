// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package web serves the hospital search form and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/hospitalfinder/finder"
	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/jcodagnone/hospitalfinder/utils/textutil"
)

//go:embed templates/*.html
var templatesFS embed.FS

const unavailableMessage = "Reference data is currently unavailable. Please try again later."

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"float": textutil.FormatFloat,
	"miles": func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"thousands": textutil.FormatInt,
	"beds": func(b *int64) string {
		if b == nil {
			return ""
		}

		return textutil.FormatInt(*b)
	},
}).ParseFS(templatesFS, "templates/*.html"))

// Server serves the search page and its JSON API.
type Server struct {
	service *finder.Service
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a Server. metrics may be nil, in which case /metrics is
// not served.
func NewServer(service *finder.Service, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.logger), gin.Recovery())
	r.SetHTMLTemplate(templates)

	r.GET("/", s.searchView)
	r.POST("/", s.searchView)
	r.GET("/api/search", s.searchAPI)
	r.GET("/api/cities", s.listCities)
	r.GET("/healthz", s.healthz)

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errc := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server", slog.String("address", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}

// searchView renders the form; a POST also runs the search.
func (s *Server) searchView(ctx *gin.Context) {
	cities, err := s.service.Cities(ctx.Request.Context())
	if err != nil {
		s.renderUnavailable(ctx, err)

		return
	}

	page := newPage(cities)

	if ctx.Request.Method == http.MethodPost {
		radius, present := ctx.GetPostForm("radius_miles")
		query := finder.NewQuery(ctx.PostForm("location"), ctx.PostForm("state"), radius, present)

		res, err := s.service.Search(ctx.Request.Context(), query)
		if err != nil {
			s.renderUnavailable(ctx, err)

			return
		}

		page.fill(res)
	}

	ctx.HTML(http.StatusOK, "index.html", page)
}

func (s *Server) renderUnavailable(ctx *gin.Context, err error) {
	_ = ctx.Error(err)

	page := newPage(nil)
	page.Error = unavailableMessage

	ctx.HTML(http.StatusInternalServerError, "index.html", page)
}

// searchAPI answers GET /api/search?location=&radius_miles=&state= with the
// page model.
func (s *Server) searchAPI(ctx *gin.Context) {
	location, ok := ctx.GetQuery("location")
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "location query parameter is required"})

		return
	}

	radius, present := ctx.GetQuery("radius_miles")
	query := finder.NewQuery(location, ctx.Query("state"), radius, present)

	res, err := s.service.Search(ctx.Request.Context(), query)
	if err != nil {
		s.jsonError(ctx, err)

		return
	}

	page := newPage(nil)
	page.AllCities = []string{}
	page.fill(res)

	ctx.JSON(http.StatusOK, page)
}

func (s *Server) listCities(ctx *gin.Context) {
	cities, err := s.service.Cities(ctx.Request.Context())
	if err != nil {
		s.jsonError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, cities)
}

func (s *Server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) jsonError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)

	msg := "internal error"
	if refdata.IsDataLoadError(err) {
		msg = unavailableMessage
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
