package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/KB1707/CramJam/core/chat"
	"github.com/KB1707/CramJam/core/user"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	// must be less than pongWait
	pingPeriod = pongWait * 9 / 10

	frameMessage = "message"
	frameResults = "results"
	frameError   = "error"

	actionSend = "send"
	actionPoll = "poll"
	actionVote = "vote"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type (
	// InFrame is what a viewer sends over the stream.
	InFrame struct {
		Action   string `json:"action"`
		Kind     string `json:"kind,omitempty"`
		Body     string `json:"body,omitempty"`
		Question string `json:"question,omitempty"`
		Options  string `json:"options,omitempty"`
		Option   string `json:"option,omitempty"`
	}

	// OutFrame is what the stream pushes to a viewer.
	OutFrame struct {
		Type     string         `json:"type"`
		Fragment *chat.Fragment `json:"fragment,omitempty"`
		Summary  *chat.Summary  `json:"summary,omitempty"`
		Error    interface{}    `json:"error,omitempty"`
	}
)

// streamConn serializes writes: the subscription and the read loop both write.
type streamConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *streamConn) send(frame OutFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(frame)
}

func (c *streamConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// stream upgrades to a websocket, follows the room and announces the viewer.
func (api *chatApi) stream(ctx echo.Context) error {
	usr := mustContextUser(ctx)
	ws, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// the upgrader already replied
		return nil
	}
	conn := &streamConn{conn: ws}
	defer ws.Close()

	sctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := api.room.Subscribe(sctx, func(u chat.Update) {
		if err := conn.send(api.updateFrame(sctx, u)); err != nil {
			cancel()
		}
	})
	if err != nil {
		_ = conn.send(api.errorFrame(err))
		return nil
	}
	defer sub.Cancel()

	if _, err = api.room.Join(sctx, usr); err != nil {
		api.logger.Error(fmt.Sprintf("announcing %s", usr.Username), err, usr)
	}

	go api.keepAlive(sctx, conn, sub)

	ws.SetReadLimit(64 * 1024)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error { return ws.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		var in InFrame
		if err := ws.ReadJSON(&in); err != nil {
			switch err.(type) {
			case *json.SyntaxError, *json.UnmarshalTypeError:
				if err = conn.send(OutFrame{Type: frameError, Error: "Invalid message format"}); err != nil {
					return nil
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) && sctx.Err() == nil {
				api.logger.Warn(fmt.Sprintf("stream of %s closed: %v", usr.Username, err), usr)
			}
			return nil
		}

		if err := api.handleFrame(sctx, usr, in); err != nil {
			if err = conn.send(api.errorFrame(err)); err != nil {
				return nil
			}
		}
	}
}

func (api *chatApi) keepAlive(ctx context.Context, conn *streamConn, sub *chat.Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.conn.Close()
			return
		case <-sub.Done():
			// room stopped
			_ = conn.conn.Close()
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}

func (api *chatApi) handleFrame(ctx context.Context, usr user.User, in InFrame) error {
	switch in.Action {
	case actionSend:
		_, err := api.room.Post(ctx, usr, in.Kind, in.Body)
		return err
	case actionPoll:
		_, err := api.room.CreatePoll(ctx, usr, in.Question, in.Options)
		return err
	case actionVote:
		_, err := api.room.Vote(ctx, in.Question, in.Option)
		return err
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unknown action: %q", in.Action))
	}
}

func (api *chatApi) updateFrame(ctx context.Context, u chat.Update) OutFrame {
	if u.Results != nil {
		return OutFrame{Type: frameResults, Summary: u.Results}
	}
	frag, err := api.room.Render(ctx, *u.Message)
	if err != nil {
		return api.errorFrame(err)
	}
	return OutFrame{Type: frameMessage, Fragment: &frag}
}

func (api *chatApi) errorFrame(err error) OutFrame {
	code, message := errorResponse(err, api.translator)
	if code == http.StatusInternalServerError {
		api.logger.Error("stream error", err)
	}
	return OutFrame{Type: frameError, Error: message}
}
