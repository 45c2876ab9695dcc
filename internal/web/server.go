// Package web provides an HTTP status and firmware update server for the
// iron-timer daemon.
package web

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sweeney/iron-timer/internal/ota"
	"github.com/sweeney/iron-timer/internal/status"
)

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	receiver   *ota.Receiver
}

// New creates a Server that reads state from the given tracker. metrics
// and receiver are optional; their routes are omitted when nil.
func New(addr string, tracker *status.Tracker, metrics http.Handler, receiver *ota.Receiver) *Server {
	s := &Server{tracker: tracker, receiver: receiver}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/", s.handleIndex)
	router.GET("/index.html", s.handleIndex)
	router.GET("/index.json", s.handleJSON)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
	if receiver != nil {
		router.PUT("/firmware", s.handleFirmware)
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: router,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	renderHTML(c.Writer, s.tracker.Snapshot())
}

func (s *Server) handleJSON(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", status.FormatJSON(s.tracker.Snapshot()))
}

func (s *Server) handleFirmware(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	err := s.receiver.Receive(c.Request.Context(), token, c.Request.Body, c.Request.ContentLength)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"result": "installed"})
	case errors.Is(err, ota.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ota.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logrus.Errorf("web: firmware upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
