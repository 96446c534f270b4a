package echoapi

import (
	"fmt"
	"io/ioutil"
	"mime"
	"net/http"
	"path/filepath"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/chat"
	"github.com/KB1707/CramJam/core/user"
)

const filesField = "files"

type chatApi struct {
	room       *chat.Room
	usrSvc     user.Service
	translator ut.Translator
	logger     core.Logger
}

func registerChatAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	auth *authenticator,
	room *chat.Room,
	usrSvc user.Service,
	translator ut.Translator,
	logger core.Logger,
	maxUploadSize string,
) {
	api := chatApi{
		room:       room,
		usrSvc:     usrSvc,
		translator: translator,
		logger:     logger,
	}

	cg := g.Group("/chat")

	// websocket handshakes carry the token in the query string
	cg.GET("/ws", api.stream, auth.middleware("query:token"), ctxUserMiddleware(usrSvc))

	ag := cg.Group("", jwt, ctxUserMiddleware(usrSvc))
	ag.POST("/messages", api.post)
	ag.POST("/polls", api.createPoll)
	ag.POST("/polls/vote", api.vote)
	ag.GET("/polls/results", api.results)
	ag.POST("/files", api.upload, middleware.BodyLimit(maxUploadSize))
	ag.GET("/files/:name", api.download)
	ag.GET("/links/open", api.openLink)
}

type (
	PostRequest struct {
		Kind string `json:"kind"`
		Body string `json:"body"`
	}

	PollRequest struct {
		Question string `json:"question"`
		Options  string `json:"options"`
	}

	VoteRequest struct {
		Question string `json:"question"`
		Option   string `json:"option"`
	}
)

// Handlers

func (api *chatApi) post(ctx echo.Context) error {
	var data PostRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PostRequest")
	}

	msg, err := api.room.Post(ctx.Request().Context(), mustContextUser(ctx), core.CleanString(data.Kind, true), data.Body)
	if err != nil {
		return errors.Wrap(err, "posting message")
	}
	return api.created(ctx, msg)
}

func (api *chatApi) createPoll(ctx echo.Context) error {
	var data PollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PollRequest")
	}

	msg, err := api.room.CreatePoll(ctx.Request().Context(), mustContextUser(ctx), data.Question, data.Options)
	if err != nil {
		return errors.Wrap(err, "creating poll")
	}
	return api.created(ctx, msg)
}

func (api *chatApi) created(ctx echo.Context, msg chat.Message) error {
	frag, err := api.room.Render(ctx.Request().Context(), msg)
	if err != nil {
		return errors.Wrap(err, "rendering message")
	}
	return ctx.JSON(http.StatusCreated, frag)
}

func (api *chatApi) vote(ctx echo.Context) error {
	var data VoteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VoteRequest")
	}

	sum, err := api.room.Vote(ctx.Request().Context(), data.Question, data.Option)
	if err != nil {
		return errors.Wrap(err, "voting")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *chatApi) results(ctx echo.Context) error {
	query := new(ResultsQuery)
	query.Bind(ctx)

	sum, err := api.room.Results(ctx.Request().Context(), query.Question, query.Options...)
	if err != nil {
		return errors.Wrap(err, "summarizing poll")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *chatApi) upload(ctx echo.Context) error {
	form, err := ctx.MultipartForm()
	if err != nil && err != http.ErrNotMultipart {
		return core.NewValidationError(nil, core.FieldError{Field: filesField, Error: "Invalid upload."})
	}

	var uploads []chat.Upload
	if form != nil {
		for _, fh := range form.File[filesField] {
			f, err := fh.Open()
			if err != nil {
				return errors.Wrapf(err, "opening %s", fh.Filename)
			}
			data, err := ioutil.ReadAll(f)
			_ = f.Close()
			if err != nil {
				return errors.Wrapf(err, "reading %s", fh.Filename)
			}
			uploads = append(uploads, chat.Upload{Name: fh.Filename, Data: data})
		}
	}

	msgs, err := api.room.ShareFiles(ctx.Request().Context(), mustContextUser(ctx), uploads...)
	if err != nil {
		return errors.Wrap(err, "sharing files")
	}

	frags := make([]chat.Fragment, 0, len(msgs))
	for _, msg := range msgs {
		frags = append(frags, chat.Render(msg, chat.Summary{}))
	}
	return ctx.JSON(http.StatusCreated, frags)
}

func (api *chatApi) download(ctx echo.Context) error {
	name := ctx.Param("name")
	data, err := api.room.Download(ctx.Request().Context(), name)
	if err != nil {
		return errors.Wrap(err, "downloading file")
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filepath.Base(name)))
	return ctx.Blob(http.StatusOK, contentType, data)
}

func (api *chatApi) openLink(ctx echo.Context) error {
	action := chat.Action{Kind: chat.ActionOpenLink, Target: core.CleanString(ctx.QueryParam("url"))}
	if err := action.Open(redirectViewer{ctx: ctx}); err != nil {
		return errors.Wrap(err, "opening link")
	}
	return nil
}

// redirectViewer opens links by redirecting the browser to them.
type redirectViewer struct {
	ctx echo.Context
}

func (v redirectViewer) Open(url string) error {
	return v.ctx.Redirect(http.StatusFound, url)
}
