package api

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

type actionFunc func(ctx context.Context, sessionID string) (*service.ActionResult, error)

// action adapts a body-less play call to a handler
func (s *Server) action(fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.runAction(w, r, fn)
	}
}

// runAction applies one play call, then pushes the new state to the
// session's websocket clients and logs the outcome
func (s *Server) runAction(w http.ResponseWriter, r *http.Request, fn actionFunc) {
	id := sessionID(r)
	result, err := fn(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}

	if s.hub != nil && result.GameState != nil {
		s.hub.BroadcastToSession(id, result.GameState)
	}
	s.log.WithFields(actionFields(id, result)).Info("action applied")

	respondJSON(w, http.StatusOK, result)
}

func actionFields(id string, result *service.ActionResult) logrus.Fields {
	fields := logrus.Fields{
		"session": id,
		"action":  result.Action,
		"success": result.Success,
	}
	if result.Outcome != "" {
		fields["outcome"] = result.Outcome
	}
	if result.Draw != "" {
		fields["draw"] = result.Draw
	}
	if st := result.GameState; st != nil {
		fields["moves"] = st.Moves
		fields["foundations"] = st.FoundationTotal()
	}
	return fields
}

// pileRequest addresses a pile on the wire: {"pile": "tableau", "key": "3"}
type pileRequest struct {
	Pile string `json:"pile"`
	Key  string `json:"key,omitempty"`
}

func (p pileRequest) ref() (engine.PileRef, error) {
	return engine.ParsePileRef(p.Pile, p.Key)
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		pileRequest
		CardID string `json:"card_id"`
		Kind   string `json:"kind,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	pile, err := req.ref()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := engine.ParsePickKind(req.Kind)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pick := service.PickRequest{CardID: req.CardID, Pile: pile, Kind: kind}
	s.runAction(w, r, func(ctx context.Context, id string) (*service.ActionResult, error) {
		return s.service.Pick(ctx, id, pick)
	})
}

func (s *Server) handlePickEmpty(w http.ResponseWriter, r *http.Request) {
	var req pileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pile, err := req.ref()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.runAction(w, r, func(ctx context.Context, id string) (*service.ActionResult, error) {
		return s.service.PickEmpty(ctx, id, pile)
	})
}
