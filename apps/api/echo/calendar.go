package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/KB1707/CramJam/core/calendar"
	"github.com/KB1707/CramJam/core/chat"
	"github.com/KB1707/CramJam/core/user"
)

type calendarApi struct {
	svc      calendar.Service
	room     *chat.Room
	validate *validator.Validate
}

func registerCalendarAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc calendar.Service,
	usrSvc user.Service,
	room *chat.Room,
	validate *validator.Validate,
) {
	api := calendarApi{
		svc:      svc,
		room:     room,
		validate: validate,
	}

	ng := g.Group("/calendar/notes", jwt, ctxUserMiddleware(usrSvc))
	ng.GET("", api.query)
	ng.POST("", api.create)
	ng.DELETE("/:id", api.destroy)
}

// Handlers

func (api *calendarApi) query(ctx echo.Context) error {
	var filter calendar.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if err := filter.Validate(api.validate); err != nil {
		return err
	}

	notes, err := api.svc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing notes")
	}
	if notes == nil {
		notes = []calendar.Note{}
	}
	return ctx.JSON(http.StatusOK, notes)
}

// create adds a note, announcing it to the room as an event when asked to.
func (api *calendarApi) create(ctx echo.Context) error {
	var data calendar.NewNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNote")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr := mustContextUser(ctx)
	note, err := api.svc.Add(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "adding note")
	}
	if data.Announce {
		if _, err = api.room.Announce(ctx.Request().Context(), usr, note.Announcement()); err != nil {
			return errors.Wrap(err, "announcing note")
		}
	}
	return ctx.JSON(http.StatusCreated, note)
}

func (api *calendarApi) destroy(ctx echo.Context) error {
	err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), mustContextUser(ctx).ID)
	if err != nil {
		if errors.Cause(err) == calendar.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting note")
	}
	return ctx.NoContent(http.StatusNoContent)
}
