package router

import (
	"net/http"
	"strconv"

	"github.com/dstanisic/pulsefeed/internal/analysis"
	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/dto"
	mw "github.com/dstanisic/pulsefeed/internal/middleware"
	"github.com/dstanisic/pulsefeed/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ArticleRouter struct {
	e            *echo.Echo
	articles     *service.ArticleService
	orchestrator *analysis.Orchestrator
}

func NewArticleRouter(e *echo.Echo, articles *service.ArticleService, orchestrator *analysis.Orchestrator) *ArticleRouter {
	return &ArticleRouter{
		e:            e,
		articles:     articles,
		orchestrator: orchestrator,
	}
}

func (r *ArticleRouter) Bind() {
	r.e.GET("/articles", r.listHandler)
	r.e.GET("/articles/:id", r.getHandler)

	privileged := r.e.Group("/articles", mw.RequireService())
	privileged.POST("", r.createHandler)
	privileged.POST("/batch", r.createBatchHandler)
	privileged.PATCH("/:id", r.updateHandler)
	privileged.DELETE("/:id", r.deleteHandler)
	privileged.POST("/:id/analyze", r.analyzeHandler)
}

func (r *ArticleRouter) listHandler(c echo.Context) error {
	q, err := parseListQuery(c)
	if err != nil {
		return err
	}

	result, err := r.articles.List(c.Request().Context(), *q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (r *ArticleRouter) getHandler(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	article, err := r.articles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromDomainArticle(*article))
}

func (r *ArticleRouter) createHandler(c echo.Context) error {
	var cmd dto.CreateArticleCommand
	if err := c.Bind(&cmd); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	article, err := r.articles.Create(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.FromDomainArticle(*article))
}

func (r *ArticleRouter) createBatchHandler(c echo.Context) error {
	var body struct {
		Commands             []dto.CreateArticleCommand `json:"commands"`
		SkipSourceValidation bool                       `json:"skipSourceValidation"`
	}
	if err := c.Bind(&body); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	result, err := r.articles.CreateBatch(
		c.Request().Context(),
		body.Commands,
		dto.BatchOptions{SkipSourceValidation: body.SkipSourceValidation},
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (r *ArticleRouter) updateHandler(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var patch dto.UpdateArticlePatch
	if err := c.Bind(&patch); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	article, err := r.articles.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromDomainArticle(*article))
}

func (r *ArticleRouter) deleteHandler(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := r.articles.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *ArticleRouter) analyzeHandler(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	article, err := r.orchestrator.AnalyzeArticle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromDomainArticle(*article))
}

func parseIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid article id", err)
	}
	return id, nil
}

func parseListQuery(c echo.Context) (*dto.ListArticlesQuery, error) {
	var q dto.ListArticlesQuery

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperr.NewValidation("limit must be a number")
		}
		q.Limit = limit
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperr.NewValidation("offset must be a number")
		}
		q.Offset = offset
	}

	if raw := c.QueryParam("sentiment"); raw != "" {
		sentiment, err := domain.ParseSentiment(raw)
		if err != nil {
			return nil, apperr.NewValidationWrap("invalid sentiment filter", err)
		}
		q.Sentiment = &sentiment
	}
	if raw := c.QueryParam("topicId"); raw != "" {
		topicID, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperr.NewValidationWrap("invalid topicId filter", err)
		}
		q.TopicID = &topicID
	}
	if raw := c.QueryParam("sourceId"); raw != "" {
		sourceID, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperr.NewValidationWrap("invalid sourceId filter", err)
		}
		q.SourceID = &sourceID
	}

	q.SortBy = dto.SortKey(c.QueryParam("sortBy"))
	q.SortOrder = dto.SortOrder(c.QueryParam("sortOrder"))
	q.ApplyPersonalization = c.QueryParam("applyPersonalization") == "true"
	q.CallerID = mw.IdentityFrom(c).UserID

	return &q, nil
}
