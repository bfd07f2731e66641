// Package handlers exposes the meeting hub over HTTP: the signaling socket,
// the meeting REST endpoints and the demo login.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mossy-p/meeting-signaling/internal/meeting"
	"github.com/mossy-p/meeting-signaling/internal/middleware"
	"github.com/mossy-p/meeting-signaling/internal/models"
	"github.com/mossy-p/meeting-signaling/internal/store"
)

const defaultSendBuffer = 256

type Config struct {
	Hub            *meeting.Hub
	Store          store.MeetingStore
	Logger         *zerolog.Logger
	JWTSecret      string
	AllowedOrigins []string
	SendBuffer     int
}

type Handler struct {
	hub        *meeting.Hub
	store      store.MeetingStore
	jwtSecret  string
	origins    []string
	sendBuffer int
	upgrader   websocket.Upgrader
	now        func() time.Time
	logger     zerolog.Logger
}

func New(cfg Config) *Handler {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}
	return &Handler{
		hub:        cfg.Hub,
		store:      cfg.Store,
		jwtSecret:  cfg.JWTSecret,
		origins:    cfg.AllowedOrigins,
		sendBuffer: cfg.SendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    models.Subprotocols(),
			CheckOrigin: func(r *http.Request) bool {
				// Origin checking is handled by middleware
				return true
			},
		},
		now:    time.Now,
		logger: logger.With().Str("component", "http").Logger(),
	}
}

// Mount registers every route on r.
func (h *Handler) Mount(r *gin.Engine) {
	// Global CORS middleware (runs before routing)
	r.Use(OriginFilter(h.origins), RequestLogger(h.logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Login)

		teams := api.Group("/teams/:teamId", middleware.JWTAuth(h.jwtSecret))
		teams.POST("/meetings", h.StartMeeting)
		teams.GET("/meetings", h.GetMeeting)
		teams.PUT("/meetings/:meetingId", h.EndMeeting)
		teams.GET("/participants", h.GetParticipants)
	}

	r.GET("/ws/meetings", h.HandleSignaling)
}
