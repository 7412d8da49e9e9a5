package websocket

import (
	"context"
	"encoding/json"
)

const actionState = "game:state"

// handleState - replies with the current game to the requesting connection only.
func (that *Server) handleState(_ context.Context, current *client, _ *Message) error {
	state := that.session.State()

	return current.send(actionState, ResponsePayload{Game: &state})
}

// handleTurn - plays the requested cell and broadcasts the new state.
func (that *Server) handleTurn(ctx context.Context, current *client, message *Message) error {
	log := that.logger.With("method", "handleTurn")

	var payloadReq TurnPayload
	if err := json.Unmarshal(message.Payload, &payloadReq); err != nil || payloadReq.Row == nil || payloadReq.Column == nil {
		log.Warn("invalid turn payload", "payload", string(message.Payload), "error", err)
		that.replyError(current, "invalid turn payload")
		return nil
	}

	state, err := that.session.PlayRound(ctx, *payloadReq.Row, *payloadReq.Column)
	if err != nil {
		that.replyError(current, err.Error())
		return nil
	}

	that.broadcast(actionState, ResponsePayload{Game: &state})

	return nil
}

// handleReset - starts a new round and broadcasts it.
func (that *Server) handleReset(ctx context.Context, _ *client, _ *Message) error {
	state := that.session.Reset(ctx)

	that.broadcast(actionState, ResponsePayload{Game: &state})

	return nil
}

func (that *Server) replyError(current *client, message string) {
	log := that.logger.With("method", "replyError")

	if err := current.send(actionState, ResponsePayload{Error: message}); err != nil {
		log.Error("failed to send error response", "error", err)
	}
}
