// Package api exposes the controller and the move selector over http.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/battlesnakeio/autopilot/version"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// SocketPollInterval is how often the frame socket checks for new frames.
var SocketPollInterval = 50 * time.Millisecond

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Server is the http api server.
type Server struct {
	hs     *http.Server
	client controller.Client
	policy rules.Policy
}

// CreateResponse is returned after a game is created.
type CreateResponse struct {
	ID string `json:"id"`
}

// PingResponse reports the running version.
type PingResponse struct {
	Version string `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds an api server listening on addr.
func New(addr string, client controller.Client, policy rules.Policy) *Server {
	s := &Server{client: client, policy: policy}

	router := httprouter.New()
	router.POST("/games", s.createGame)
	router.POST("/games/:id/start", s.startGame)
	router.GET("/games/:id", s.getStatus)
	router.GET("/games/:id/frames", s.getFrames)
	router.GET("/socket/:id", s.framesSocket)
	router.GET("/ping", s.ping)
	router.POST("/move", s.move)

	s.hs = &http.Server{
		Addr:    addr,
		Handler: cors.Default().Handler(router),
	}
	return s
}

// Handler returns the root handler, useful for tests.
func (s *Server) Handler() http.Handler { return s.hs.Handler }

// WaitForExit serves until the server fails or is shut down.
func (s *Server) WaitForExit() error {
	err := s.hs.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("unable to write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch errors.Cause(err) {
	case controller.ErrNotFound:
		code = http.StatusNotFound
	case controller.ErrIsLocked:
		code = http.StatusConflict
	case rules.ErrNoCells, rules.ErrTooLarge:
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := rules.CreateRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, errors.Wrap(err, "invalid create request"))
			return
		}
	}
	game, err := s.client.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CreateResponse{ID: game.ID})
}

func (s *Server) startGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.client.Start(r.Context(), ps.ByName("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resp, err := s.client.Status(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func (s *Server) getFrames(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		badRequest(w, err)
		return
	}
	limit, err := queryInt(r, "limit", controller.MaxFrameLimit)
	if err != nil {
		badRequest(w, err)
		return
	}
	frames, err := s.client.Frames(r.Context(), ps.ByName("id"), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frames)
}

func (s *Server) ping(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, PingResponse{Version: version.Version})
}

func (s *Server) move(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := rules.MoveRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, errors.Wrap(err, "invalid move request"))
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req.Answer(s.policy))
}

// framesSocket streams every frame of a game as a text message, then closes
// normally once the game stopped running and all frames were sent.
func (s *Server) framesSocket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	ctx := r.Context()
	if _, err := s.client.Status(ctx, id); err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("game", id).Warn("unable to upgrade connection")
		return
	}
	defer conn.Close()

	logger := log.WithField("game", id)
	offset := 0
	for {
		frames, err := s.client.Frames(ctx, id, offset, controller.MaxFrameLimit)
		if err != nil {
			logger.WithError(err).Error("unable to read frames")
			return
		}
		for _, f := range frames {
			data, err := json.Marshal(f)
			if err != nil {
				logger.WithError(err).Error("unable to marshal frame")
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.WithError(err).Debug("socket write failed")
				return
			}
		}
		offset += len(frames)
		if len(frames) == controller.MaxFrameLimit {
			continue
		}

		status, err := s.client.Status(ctx, id)
		if err != nil {
			logger.WithError(err).Error("unable to read status")
			return
		}
		if status.Game.Status != string(rules.GameStatusRunning) &&
			(status.LastFrame == nil || int(status.LastFrame.Turn) < offset) {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if err := conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
				logger.WithError(err).Debug("socket close failed")
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(SocketPollInterval):
		}
	}
}
