// Package api serves the run archive over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pevans/newsharvest/archive"
	"github.com/pevans/newsharvest/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxLimit caps the page size of list endpoints.
const MaxLimit = 500

// Archive is the read side of the run archive.
type Archive interface {
	ListRuns(limit int) ([]archive.Run, error)
	GetRun(runID uuid.UUID) (*archive.Run, error)
	ListArticles(filter archive.ArticleFilter) ([]archive.StoredArticle, error)
}

// Server is the read-only archive API.
type Server struct {
	store        Archive
	publications []*scraper.Publication
}

// NewServer creates an API server over store. publications are listed by
// GET /api/v1/publications.
func NewServer(store Archive, publications []*scraper.Publication) *Server {
	return &Server{
		store:        store,
		publications: publications,
	}
}

// SetupRouter configures the Gin router with all archive routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	api.GET("/runs", s.HandleListRuns)
	api.GET("/runs/:id", s.HandleGetRun)
	api.GET("/articles", s.HandleListArticles)
	api.GET("/publications", s.HandleListPublications)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// ListRunsResponse is the response for GET /api/v1/runs.
type ListRunsResponse struct {
	Runs  []archive.Run `json:"runs"`
	Total int           `json:"total"`
}

// ListArticlesResponse is the response for GET /api/v1/articles.
type ListArticlesResponse struct {
	Articles []archive.StoredArticle `json:"articles"`
	Total    int                     `json:"total"`
}

// PublicationSummary describes a configured publication.
type PublicationSummary struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	ListingURL string `json:"listing_url"`
}

func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

func (s *Server) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, archive.ErrRunNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// queryInt parses an optional non-negative integer parameter.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", "Invalid "+name))
		return 0, false
	}
	return n, true
}

// HandleListRuns handles GET /api/v1/runs.
func (s *Server) HandleListRuns(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	if limit == 0 || limit > MaxLimit {
		limit = MaxLimit
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListRunsResponse{Runs: runs, Total: len(runs)})
}

// HandleGetRun handles GET /api/v1/runs/{id}.
func (s *Server) HandleGetRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", "Invalid run ID"))
		return
	}

	run, err := s.store.GetRun(runID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// HandleListArticles handles GET /api/v1/articles.
func (s *Server) HandleListArticles(c *gin.Context) {
	filter := archive.ArticleFilter{}

	if pub := c.Query("publication"); pub != "" {
		filter.Publication = &pub
	}
	if raw := c.Query("run_id"); raw != "" {
		runID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("bad_request", "Invalid run ID"))
			return
		}
		filter.RunID = &runID
	}

	var ok bool
	if filter.Limit, ok = queryInt(c, "limit"); !ok {
		return
	}
	if filter.Offset, ok = queryInt(c, "offset"); !ok {
		return
	}
	if filter.Limit == 0 || filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}

	articles, err := s.store.ListArticles(filter)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListArticlesResponse{Articles: articles, Total: len(articles)})
}

// HandleListPublications handles GET /api/v1/publications.
func (s *Server) HandleListPublications(c *gin.Context) {
	out := make([]PublicationSummary, 0, len(s.publications))
	for _, p := range s.publications {
		out = append(out, PublicationSummary{
			Key:        p.Key,
			Name:       p.Name,
			Category:   p.Category,
			ListingURL: p.ListingURL(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"publications": out})
}
