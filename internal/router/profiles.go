package router

import (
	"net/http"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/dto"
	mw "github.com/dstanisic/pulsefeed/internal/middleware"
	"github.com/dstanisic/pulsefeed/internal/service"
	"github.com/labstack/echo/v4"
)

type ProfileRouter struct {
	e        *echo.Echo
	profiles *service.ProfileService
}

func NewProfileRouter(e *echo.Echo, profiles *service.ProfileService) *ProfileRouter {
	return &ProfileRouter{
		e:        e,
		profiles: profiles,
	}
}

func (r *ProfileRouter) Bind() {
	g := r.e.Group("/profile", mw.RequireUser())
	g.GET("", r.getHandler)
	g.PUT("", r.upsertHandler)
	g.DELETE("", r.deleteHandler)
}

func (r *ProfileRouter) getHandler(c echo.Context) error {
	profile, err := r.profiles.Get(c.Request().Context(), mw.IdentityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (r *ProfileRouter) upsertHandler(c echo.Context) error {
	var cmd dto.UpsertProfileCommand
	if err := c.Bind(&cmd); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	profile, err := r.profiles.Upsert(c.Request().Context(), mw.IdentityFrom(c).UserID, cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (r *ProfileRouter) deleteHandler(c echo.Context) error {
	if err := r.profiles.Delete(c.Request().Context(), mw.IdentityFrom(c).UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
