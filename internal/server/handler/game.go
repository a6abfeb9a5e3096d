package handler

import (
	"lastcard/internal/protocol"
	"lastcard/internal/types"
)

// handlePlayCards 出牌
func (h *Handler) handlePlayCards(client types.ClientInterface, msg *protocol.Message) error {
	payload, err := protocol.ParsePayload[protocol.PlayCardsPayload](msg)
	if err != nil {
		return err
	}

	g, err := h.gameOf(client)
	if err != nil {
		return err
	}
	return g.HandlePlayCards(client.GetID(), payload.Cards)
}

// handleDrawCard 抽牌
func (h *Handler) handleDrawCard(client types.ClientInterface, _ *protocol.Message) error {
	g, err := h.gameOf(client)
	if err != nil {
		return err
	}
	return g.HandleDrawCard(client.GetID())
}

// handleDeclareLastCard 报上牌
func (h *Handler) handleDeclareLastCard(client types.ClientInterface, _ *protocol.Message) error {
	g, err := h.gameOf(client)
	if err != nil {
		return err
	}
	return g.HandleDeclareLastCard(client.GetID())
}
