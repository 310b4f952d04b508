package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/config"
)

// Client is the HTTP implementation of Catalog. Course-by-code lookups
// are cached in process since imports hit the same codes repeatedly.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *gocache.Cache
	logger  *zap.Logger
}

// NewClient builds a catalog client from configuration.
func NewClient(cfg *config.CatalogConfig, logger *zap.Logger) *Client {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   gocache.New(ttl, 2*ttl),
		logger:  logger,
	}
}

const courseCachePrefix = "course:"

// FindCourseByCode looks a course up by its unique code.
func (c *Client) FindCourseByCode(ctx context.Context, code string) (*Course, error) {
	if cached, ok := c.cache.Get(courseCachePrefix + code); ok {
		course := cached.(Course)
		return &course, nil
	}

	var course Course
	err := c.get(ctx, "/courses/"+url.PathEscape(code), &course)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(courseCachePrefix+code, course)
	return &course, nil
}

// ListCourses returns one page of courses matching the search text.
func (c *Client) ListCourses(ctx context.Context, search, cursor string, limit int) (*CourseList, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/courses"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list CourseList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateCourse registers a new course in the catalog.
func (c *Client) CreateCourse(ctx context.Context, code, title string, units float64) (*Course, error) {
	body := map[string]interface{}{"code": code, "title": title, "units": units}

	var course Course
	if err := c.post(ctx, "/courses", body, &course); err != nil {
		return nil, err
	}

	c.cache.SetDefault(courseCachePrefix+course.Code, course)
	return &course, nil
}

// GetTemplateByID fetches a template with its full semester structure.
func (c *Client) GetTemplateByID(ctx context.Context, id string) (*Template, error) {
	var tpl Template
	if err := c.get(ctx, "/templates/"+url.PathEscape(id), &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// CreateTemplate registers a new template in the catalog.
func (c *Client) CreateTemplate(ctx context.Context, name, description string, semesters []NewTemplateSemester) (*Template, error) {
	body := map[string]interface{}{
		"name":        name,
		"description": description,
		"semesters":   semesters,
	}

	var tpl Template
	if err := c.post(ctx, "/templates", body, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ── transport ──

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// collaboratorError is the error body shape returned by the catalog.
type collaboratorError struct {
	Error string `json:"error"`
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrCatalogUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrCatalogUnavailable, err)
		}
		return nil
	}

	var ce collaboratorError
	_ = json.Unmarshal(raw, &ce)
	return mapStatus(resp.StatusCode, req.URL.Path, ce.Error)
}

// mapStatus converts collaborator HTTP failures into sentinel errors.
// Conflict and validation errors are surfaced verbatim to the caller.
func mapStatus(status int, path, code string) error {
	switch status {
	case http.StatusNotFound:
		if strings.Contains(path, "/templates") {
			return ErrTemplateNotFound
		}
		return ErrCourseNotFound
	case http.StatusConflict:
		if strings.Contains(path, "/templates") {
			return ErrDuplicateTemplateName
		}
		return ErrDuplicateCourseCode
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		switch code {
		case "INVALID_COURSE_CODE":
			return ErrInvalidCourseCode
		case "INVALID_TITLE":
			return ErrInvalidTitle
		case "INVALID_UNITS":
			return ErrInvalidUnits
		case "INVALID_TEMPLATE_NAME":
			return ErrInvalidTemplateName
		case "EMPTY_TEMPLATE":
			return ErrEmptyTemplate
		case "INVALID_SEMESTER_STRUCTURE":
			return ErrInvalidSemesterStructure
		default:
			if strings.Contains(path, "/templates") {
				return ErrInvalidSemesterStructure
			}
			return ErrInvalidCourseCode
		}
	default:
		return fmt.Errorf("%w: HTTP %d", ErrCatalogUnavailable, status)
	}
}
