package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/lexwatch/internal/corpus"
	"horse.fit/lexwatch/internal/crawl"
	"horse.fit/lexwatch/internal/export"
	"horse.fit/lexwatch/internal/globaltime"
	"horse.fit/lexwatch/internal/stats"
)

const (
	defaultDocumentLimit = 100
	maxDocumentLimit     = 1000
)

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"status":    "healthy",
		"service":   "lexwatch",
		"year":      s.store.Year(),
		"timestamp": globaltime.UTC(),
	})
}

func (s *Server) handleStatistics(c echo.Context) error {
	docs, err := s.store.LoadCorpus()
	if err != nil {
		s.logger.Error().Err(err).Msg("load corpus for statistics")
		return internalError(c, "failed to load corpus")
	}
	state, err := s.store.LoadState()
	if err != nil {
		s.logger.Error().Err(err).Msg("load state for statistics")
		return internalError(c, "failed to load state")
	}
	return success(c, stats.Aggregate(docs, state))
}

func (s *Server) handleKeywords(c echo.Context) error {
	return success(c, map[string]any{
		"keyword_groups": map[string][]string{
			"measure":       s.taxonomy.Measure.Keywords(),
			"product":       s.taxonomy.Product.Keywords(),
			"place_company": s.taxonomy.PlaceCompany.Keywords(),
		},
		"counts": map[string]int{
			"measure":       s.taxonomy.Measure.Len(),
			"product":       s.taxonomy.Product.Len(),
			"place_company": s.taxonomy.PlaceCompany.Len(),
			"total":         s.taxonomy.TotalKeywords(),
		},
	})
}

func (s *Server) handleDocuments(c echo.Context) error {
	filter := filterFromQuery(c)

	limit := defaultDocumentLimit
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return fail(c, http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}
	if limit > maxDocumentLimit {
		limit = maxDocumentLimit
	}

	docs, err := s.store.LoadCorpus()
	if err != nil {
		s.logger.Error().Err(err).Msg("load corpus for listing")
		return internalError(c, "failed to load corpus")
	}

	filtered := export.Apply(docs, filter)
	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return success(c, map[string]any{
		"documents":      filtered,
		"total_matched":  total,
		"total_returned": len(filtered),
	})
}

func (s *Server) handleDocument(c echo.Context) error {
	dn := strings.TrimSpace(c.Param("dn"))
	if dn == "" {
		return fail(c, http.StatusBadRequest, "document number is required")
	}

	docs, err := s.store.LoadCorpus()
	if err != nil {
		s.logger.Error().Err(err).Msg("load corpus for document lookup")
		return internalError(c, "failed to load corpus")
	}
	for _, doc := range docs {
		if doc.DocumentNumber == dn {
			return success(c, doc)
		}
	}
	return failNotFound(c, "document not found")
}

func (s *Server) handleAuthors(c echo.Context) error {
	return s.handleDistinct(c, "authors", func(doc corpus.Document) []string {
		if doc.Author == "" {
			return nil
		}
		return []string{doc.Author}
	})
}

func (s *Server) handleCompanies(c echo.Context) error {
	return s.handleDistinct(c, "companies", func(doc corpus.Document) []string {
		return doc.Companies
	})
}

func (s *Server) handleProducts(c echo.Context) error {
	return s.handleDistinct(c, "products", func(doc corpus.Document) []string {
		return doc.Products
	})
}

func (s *Server) handleDistinct(c echo.Context, key string, values func(corpus.Document) []string) error {
	docs, err := s.store.LoadCorpus()
	if err != nil {
		s.logger.Error().Err(err).Str("view", key).Msg("load corpus for distinct view")
		return internalError(c, "failed to load corpus")
	}

	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, value := range values(doc) {
			if value != "" {
				seen[value] = struct{}{}
			}
		}
	}

	distinct := make([]string, 0, len(seen))
	for value := range seen {
		distinct = append(distinct, value)
	}
	sort.Strings(distinct)

	return success(c, map[string][]string{key: distinct})
}

func (s *Server) handleExportCSV(c echo.Context) error {
	docs, err := s.store.LoadCorpus()
	if err != nil {
		s.logger.Error().Err(err).Msg("load corpus for export")
		return internalError(c, "failed to load corpus")
	}

	content, err := export.CSV(export.Apply(docs, filterFromQuery(c)))
	if err != nil {
		s.logger.Error().Err(err).Msg("render csv export")
		return internalError(c, "failed to render export")
	}

	filename := fmt.Sprintf("lexwatch_documents_%s.csv", globaltime.Today().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}

func (s *Server) handleCrawl(c echo.Context) error {
	overrides := crawl.Overrides{
		ForceFullFromEpoch: queryBool(c, "force_full_from_epoch"),
		ForceCurrentYear:   queryBool(c, "force_current_year"),
	}

	if !s.crawlMu.TryLock() {
		return fail(c, http.StatusConflict, "a crawl run is already in progress")
	}
	defer s.crawlMu.Unlock()

	result := s.runner.Run(c.Request().Context(), overrides)
	if result.Status == crawl.StatusError {
		return c.JSON(http.StatusInternalServerError, jsendResponse{
			Status:  "error",
			Message: result.Message,
			Code:    http.StatusInternalServerError,
			Data:    result,
		})
	}
	return success(c, result)
}

func filterFromQuery(c echo.Context) export.Filter {
	return export.Filter{
		StartDate: strings.TrimSpace(c.QueryParam("start_date")),
		EndDate:   strings.TrimSpace(c.QueryParam("end_date")),
		Author:    strings.TrimSpace(c.QueryParam("author")),
		Company:   strings.TrimSpace(c.QueryParam("company")),
		Product:   strings.TrimSpace(c.QueryParam("product")),
		Search:    strings.TrimSpace(c.QueryParam("search")),
	}
}

func queryBool(c echo.Context, name string) bool {
	value := strings.TrimSpace(strings.ToLower(c.QueryParam(name)))
	return value == "1" || value == "true" || value == "yes"
}
