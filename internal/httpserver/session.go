// internal/httpserver/session.go
//
// Board cookie handling.
// Every browser gets one board. The board id (a uuid) travels in an HS256 JWT
// cookie so a client cannot pick someone else's board id. A missing, invalid
// or expired cookie yields a fresh board.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/game"
)

const boardCookieTTL = 30 * 24 * time.Hour

// ctxBoardKey is the context key type for the request's board.
type ctxBoardKey struct{}

type boardRef struct {
	ID   string
	Ctrl *game.Controller
}

// boardFrom returns the board attached by withBoard.
func boardFrom(ctx context.Context) *boardRef {
	b, _ := ctx.Value(ctxBoardKey{}).(*boardRef)
	return b
}

// signBoard creates the cookie token for board id.
func (s *Server) signBoard(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(boardCookieTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"board": id,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.SessionSecret))
	return ss, exp, err
}

// parseBoard validates a cookie token and returns its board id.
func (s *Server) parseBoard(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errors.New("invalid board token")
	}
	id, _ := claims["board"].(string)
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.New("invalid board id")
	}
	return id, nil
}

// setBoardCookie writes the board cookie; Secure + SameSite=None in production.
func (s *Server) setBoardCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// withBoard resolves (or creates) the caller's board and stores it in the request context.
func (s *Server) withBoard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := ""
		if c, err := r.Cookie(s.cfg.CookieName); err == nil && c.Value != "" {
			if parsed, err := s.parseBoard(c.Value); err == nil {
				id = parsed
			} else {
				log.Debug().Err(err).Str("req", middleware.GetReqID(ctx)).Msg("board cookie rejected")
			}
		}
		if id == "" {
			id = uuid.New().String()
			tok, exp, err := s.signBoard(id)
			if err != nil {
				log.Error().Err(err).Msg("sign board cookie")
				http.Error(w, `{"error":"session_failed"}`, http.StatusInternalServerError)
				return
			}
			s.setBoardCookie(w, tok, exp)
		}

		ctrl, err := s.boards.Get(ctx, id)
		if err != nil {
			// new visitor, or board pruned / lost on restart
			ctrl = s.newController(id)
			if err := s.boards.Save(ctx, id, ctrl); err != nil {
				log.Error().Err(err).Str("board", id).Msg("save board")
				http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
				return
			}
			log.Info().Str("board", id).Msg("new board")
		}

		ctx = context.WithValue(ctx, ctxBoardKey{}, &boardRef{ID: id, Ctrl: ctrl})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
