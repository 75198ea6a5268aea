package web

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-wayfinder/internal/metrics"
	"github.com/teslashibe/go-wayfinder/pkg/hub"
)

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}
	if s.OnQuery == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "query handler not configured"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), s.queryTimeout)
	defer cancel()

	res, err := s.OnQuery(ctx, req.Query)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

func (s *Server) handleTrigger(c *fiber.Ctx) error {
	if s.OnTrigger == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "trigger not configured"})
	}
	if !s.OnTrigger() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"triggered": false, "error": "a run is already pending"})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"triggered": true})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	state := s.state
	s.stateMu.RUnlock()

	state.Clients = s.events.ClientCount()
	return c.JSON(state)
}

func (s *Server) handleResults(c *fiber.Ctx) error {
	s.recentMu.RLock()
	defer s.recentMu.RUnlock()
	return c.JSON(s.recent)
}

func (s *Server) handleFrame(c *fiber.Ctx) error {
	if s.OnFrame == nil {
		return fiber.ErrNotFound
	}
	jpeg, ok := s.OnFrame()
	if !ok {
		return c.Status(fiber.StatusNoContent).Send(nil)
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(jpeg)
}

func (s *Server) handleEventsWS(c *websocket.Conn) {
	client, ok := hub.NewClient(s.events, c)
	if !ok {
		return
	}
	metrics.WSClients.Inc()
	defer metrics.WSClients.Dec()
	client.Run()
}
