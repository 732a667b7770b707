package router

import (
	"net/http"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/dto"
	mw "github.com/dstanisic/pulsefeed/internal/middleware"
	"github.com/dstanisic/pulsefeed/internal/storage"
	"github.com/labstack/echo/v4"
)

type SourceRouter struct {
	e       *echo.Echo
	sources storage.SourceStore
	topics  storage.TopicStore
}

func NewSourceRouter(e *echo.Echo, sources storage.SourceStore, topics storage.TopicStore) *SourceRouter {
	return &SourceRouter{
		e:       e,
		sources: sources,
		topics:  topics,
	}
}

func (r *SourceRouter) Bind() {
	r.e.GET("/sources", r.listSourcesHandler)
	r.e.POST("/sources", r.createSourceHandler, mw.RequireService())
	r.e.GET("/topics", r.listTopicsHandler)
}

func (r *SourceRouter) listSourcesHandler(c echo.Context) error {
	sources, err := r.sources.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sources)
}

func (r *SourceRouter) createSourceHandler(c echo.Context) error {
	var cmd dto.CreateSourceCommand
	if err := c.Bind(&cmd); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if err := cmd.Validate(); err != nil {
		return err
	}

	src := &domain.RssSource{Name: cmd.Name, FeedURL: cmd.FeedURL}
	if err := r.sources.Insert(c.Request().Context(), src); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, src)
}

func (r *SourceRouter) listTopicsHandler(c echo.Context) error {
	topics, err := r.topics.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, topics)
}
