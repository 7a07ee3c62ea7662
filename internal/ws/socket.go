package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/kiliankoe/acrodash/internal/game"
)

// IdentityResolver turns the socket handshake into a username.
type IdentityResolver interface {
	Resolve(r *http.Request) (string, error)
}

// Engine is the part of the room registry the gateway drives.
type Engine interface {
	Join(key string, p game.Player) error
	Leave(key, connID string) error
	Disconnect(connID string)
	Submit(ctx context.Context, key, username, text string) (*game.Entry, error)
	Vote(key, username, entryID string) error
}

type ConnCtx struct {
	Username string
	Room     string
	limiter  *rate.Limiter
}

// conn is the slice of socketio.Conn the handlers use.
type conn interface {
	ID() string
	Emit(eventName string, v ...interface{})
	Join(room string)
	Leave(room string)
	Context() interface{}
	SetContext(ctx interface{})
}

type Server struct {
	io     *socketio.Server
	gw     *Gateway
	idents IdentityResolver

	EventRate     rate.Limit
	EventBurst    int
	SubmitTimeout time.Duration
}

func New(idents IdentityResolver) *Server {
	io := socketio.NewServer(nil)
	return &Server{
		io:            io,
		gw:            NewGateway(io),
		idents:        idents,
		EventRate:     5,
		EventBurst:    10,
		SubmitTimeout: 3 * time.Second,
	}
}

// Gateway is the broadcaster the room registry should be built with.
func (srv *Server) Gateway() *Gateway { return srv.gw }

type joinReq struct {
	Room string `json:"room"`
}

type submitReq struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

type voteReq struct {
	Room    string `json:"room"`
	EntryID string `json:"entryId"`
}

// Mount registers the event handlers and attaches socket.io to the router.
func (srv *Server) Mount(r *gin.Engine, eng Engine) *socketio.Server {
	io := srv.io

	io.OnConnect("/", func(s socketio.Conn) error {
		u := s.URL()
		req := &http.Request{URL: &u, Header: s.RemoteHeader()}
		return srv.connect(s, req)
	})
	io.OnEvent("/", "join_room", func(s socketio.Conn, p joinReq) map[string]any {
		return srv.joinRoom(eng, s, p)
	})
	io.OnEvent("/", "leave_room", func(s socketio.Conn) map[string]any {
		return srv.leaveRoom(eng, s)
	})
	io.OnEvent("/", "submit_entry", func(s socketio.Conn, p submitReq) map[string]any {
		return srv.submitEntry(eng, s, p)
	})
	io.OnEvent("/", "vote_entry", func(s socketio.Conn, p voteReq) map[string]any {
		return srv.voteEntry(eng, s, p)
	})
	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.disconnect(eng, s)
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io serve")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Status(http.StatusNoContent)
	})

	return io
}

func (srv *Server) connect(s conn, r *http.Request) error {
	username, err := srv.idents.Resolve(r)
	if err != nil {
		log.Warn().Str("sid", s.ID()).Err(err).Msg("socket rejected")
		s.SetContext(&ConnCtx{})
		s.Emit("error", map[string]any{"code": errorCode(errUnauthorized), "message": err.Error()})
		return err
	}
	s.SetContext(&ConnCtx{Username: username, limiter: rate.NewLimiter(srv.EventRate, srv.EventBurst)})
	srv.gw.track(s.ID(), s)
	log.Info().Str("sid", s.ID()).Str("user", username).Msg("socket connected")
	return nil
}

// session returns the caller's identity, or an error ack when it must be
// refused before reaching the engine.
func (srv *Server) session(s conn) (*ConnCtx, map[string]any) {
	ctx, ok := s.Context().(*ConnCtx)
	if !ok || ctx.Username == "" {
		return nil, srv.fail(s, errUnauthorized)
	}
	if ctx.limiter != nil && !ctx.limiter.Allow() {
		return nil, srv.fail(s, errRateLimited)
	}
	return ctx, nil
}

func (srv *Server) joinRoom(eng Engine, s conn, p joinReq) map[string]any {
	ctx, refused := srv.session(s)
	if refused != nil {
		return refused
	}
	key := strings.TrimSpace(p.Room)
	if key == "" {
		return srv.fail(s, errBadRequest)
	}
	prev := ctx.Room
	// Subscribe first so the roster broadcast triggered by the join reaches us.
	s.Join(key)
	if err := eng.Join(key, game.Player{ID: s.ID(), Username: ctx.Username}); err != nil {
		if key != prev {
			// The registry already took us out of the previous room.
			s.Leave(key)
			if prev != "" {
				s.Leave(prev)
			}
			ctx.Room = ""
		}
		return srv.fail(s, err)
	}
	if prev != "" && prev != key {
		s.Leave(prev)
	}
	ctx.Room = key
	return map[string]any{"success": true, "room": key}
}

func (srv *Server) leaveRoom(eng Engine, s conn) map[string]any {
	ctx, refused := srv.session(s)
	if refused != nil {
		return refused
	}
	if ctx.Room == "" {
		return srv.fail(s, game.ErrNotInRoom)
	}
	if err := eng.Leave(ctx.Room, s.ID()); err != nil {
		return srv.fail(s, err)
	}
	s.Leave(ctx.Room)
	ctx.Room = ""
	return map[string]any{"success": true}
}

func (srv *Server) submitEntry(eng Engine, s conn, p submitReq) map[string]any {
	ctx, refused := srv.session(s)
	if refused != nil {
		return refused
	}
	room := srv.roomFor(ctx, p.Room)
	cctx, cancel := context.WithTimeout(context.Background(), srv.SubmitTimeout)
	defer cancel()
	e, err := eng.Submit(cctx, room, ctx.Username, p.Text)
	if err != nil {
		return srv.fail(s, err)
	}
	return map[string]any{"success": true, "entryId": e.ID}
}

func (srv *Server) voteEntry(eng Engine, s conn, p voteReq) map[string]any {
	ctx, refused := srv.session(s)
	if refused != nil {
		return refused
	}
	if err := eng.Vote(srv.roomFor(ctx, p.Room), ctx.Username, p.EntryID); err != nil {
		return srv.fail(s, err)
	}
	return map[string]any{"success": true}
}

func (srv *Server) disconnect(eng Engine, s conn) {
	srv.gw.untrack(s.ID())
	eng.Disconnect(s.ID())
}

// roomFor prefers the room named in the payload and falls back to the one the
// connection joined.
func (srv *Server) roomFor(ctx *ConnCtx, named string) string {
	if named = strings.TrimSpace(named); named != "" {
		return named
	}
	return ctx.Room
}

func (srv *Server) fail(s conn, err error) map[string]any {
	code := errorCode(err)
	log.Debug().Str("sid", s.ID()).Str("code", code).Err(err).Msg("request refused")
	s.Emit("error", map[string]any{"code": code, "message": err.Error()})
	return map[string]any{"success": false, "error": code, "message": err.Error()}
}
