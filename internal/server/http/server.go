// Package httpserver exposes the Quanta Share REST API handlers.
package httpserver

import (
	"github.com/darshilbhuva09/quanta/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// maxUploadBytes bounds multipart request bodies.
const maxUploadBytes = 100 << 20

// Server wires services into HTTP handlers.
type Server struct {
	auth    service.AuthService
	files   service.FileService
	share   service.ShareService
	signKey []byte
	log     *zap.Logger
}

// New constructs an HTTP server with injected services.
func New(auth service.AuthService, files service.FileService, share service.ShareService, signKey []byte, log *zap.Logger) *Server {
	return &Server{auth: auth, files: files, share: share, signKey: signKey, log: log}
}

// Router builds the Fiber app with middleware and the full route table.
func (s *Server) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             maxUploadBytes,
	})

	app.Use(Recover(s.log))
	app.Use(Logging(s.log))

	app.Get("/", s.handleHealth)

	authed := RequireAuth(s.signKey)

	auth := app.Group("/api/auth")
	auth.Post("/register", s.handleRegister)
	auth.Post("/login", s.handleLogin)
	auth.Get("/user", authed, s.handleGetUser)

	files := app.Group("/api/files")
	// download is public: share recipients hold no token. Registered before
	// the :id routes so "download" is never captured as an id.
	files.Get("/download/:id", s.handleDownload)
	files.Get("/", authed, s.handleList)
	files.Post("/upload", authed, s.handleUpload)
	files.Post("/reconcile", authed, s.handleReconcile)
	files.Post("/email", authed, s.handleRelayEmail)
	files.Get("/:id", authed, s.handleGetFile)
	files.Post("/:id/share", authed, s.handleShare)
	files.Delete("/:id", authed, s.handleDelete)

	return app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"service": "quanta-share", "status": "ok"})
}
