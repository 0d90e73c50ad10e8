// Package web exposes the device's remote control surface: a small
// JSON API for triggers and settings, plus a websocket feed of cycle
// events for the companion app.
package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/irislabs/go-iris/pkg/hub"
	"github.com/irislabs/go-iris/pkg/orchestrator"
	"github.com/irislabs/go-iris/pkg/output"
)

// Controller is the slice of the orchestrator the API drives.
type Controller interface {
	Mode() orchestrator.Mode
	Busy() bool
	Target() string
	SetTarget(target string)
	SwitchMode(ctx context.Context, mode orchestrator.Mode)
	Describe(ctx context.Context) bool
	Ask(ctx context.Context, question string) bool
}

// State is the device snapshot served by GET /api/state.
type State struct {
	Mode      orchestrator.Mode   `json:"mode"`
	Busy      bool                `json:"busy"`
	Speaking  bool                `json:"speaking"`
	QueueLen  int                 `json:"queue_len"`
	Target    string              `json:"target,omitempty"`
	LastCycle *orchestrator.Event `json:"last_cycle,omitempty"`
}

// Server is the control surface HTTP/websocket server.
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger

	ctrl Controller
	out  *output.Sequencer

	eventHub *hub.Hub
	frameHub *hub.Hub

	mu        sync.RWMutex
	lastCycle *orchestrator.Event
}

// New creates the control surface server.
func New(addr string, ctrl Controller, out *output.Sequencer) *Server {
	s := &Server{
		addr:     addr,
		logger:   slog.Default().With("component", "web"),
		ctrl:     ctrl,
		out:      out,
		eventHub: hub.New("events"),
		frameHub: hub.New("frames"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "iris",
		DisableStartupMessage: true,
	})

	// the companion app is served from another origin during development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/state", s.handleState)
	api.Post("/describe", s.handleDescribe)
	api.Post("/ask", s.handleAsk)
	api.Post("/mode", s.handleMode)
	api.Post("/target", s.handleTarget)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// Start serves until Shutdown. It blocks.
func (s *Server) Start() error {
	go s.eventHub.Run()
	go s.frameHub.Run()
	s.logger.Info("control surface listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// PublishEvent records a finished cycle and broadcasts it to websocket
// subscribers. Wire it as the orchestrator's OnCycle hook.
func (s *Server) PublishEvent(e orchestrator.Event) {
	s.mu.Lock()
	s.lastCycle = &e
	s.mu.Unlock()

	if err := s.eventHub.BroadcastJSON(e); err != nil {
		s.logger.Warn("event broadcast failed", "error", err)
	}
}

// PublishFrame broadcasts a captured JPEG to live-view subscribers.
// Wire it as the orchestrator's OnFrame hook.
func (s *Server) PublishFrame(jpeg []byte) {
	if s.frameHub.ClientCount() == 0 {
		return
	}
	s.frameHub.BroadcastBinary(jpeg)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
}

func (s *Server) handleState(c *fiber.Ctx) error {
	s.mu.RLock()
	last := s.lastCycle
	s.mu.RUnlock()

	return c.JSON(State{
		Mode:      s.ctrl.Mode(),
		Busy:      s.ctrl.Busy(),
		Speaking:  s.out.Speaking(),
		QueueLen:  s.out.QueueLen(),
		Target:    s.ctrl.Target(),
		LastCycle: last,
	})
}

// handleDescribe triggers one vocal cycle in the current mode. A trigger
// that lands while a cycle is in flight is dropped, and the drop is the
// caller's signal to back off.
func (s *Server) handleDescribe(c *fiber.Ctx) error {
	if !s.ctrl.Describe(c.UserContext()) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"executed": false, "reason": "cycle in flight"})
	}
	return c.JSON(fiber.Map{"executed": true})
}

func (s *Server) handleAsk(c *fiber.Ctx) error {
	var body struct {
		Question string `json:"question"`
	}
	if err := c.BodyParser(&body); err != nil || body.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question required"})
	}
	if !s.ctrl.Ask(c.UserContext(), body.Question) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"executed": false, "reason": "cycle in flight"})
	}
	return c.JSON(fiber.Map{"executed": true})
}

func (s *Server) handleMode(c *fiber.Ctx) error {
	var body struct {
		Mode string `json:"mode"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	mode, err := orchestrator.ParseMode(body.Mode)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	s.ctrl.SwitchMode(c.UserContext(), mode)
	return c.JSON(fiber.Map{"mode": mode})
}

func (s *Server) handleTarget(c *fiber.Ctx) error {
	var body struct {
		Target string `json:"target"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	s.ctrl.SetTarget(body.Target)
	return c.JSON(fiber.Map{"target": body.Target})
}

func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.eventHub, c)
	client.Run()
}

func (s *Server) handleFramesWS(c *websocket.Conn) {
	client := hub.NewClient(s.frameHub, c)
	client.Run()
}
