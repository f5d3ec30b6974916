package httpserver

import (
	"github.com/darshilbhuva09/quanta/internal/service"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleUpload(c *fiber.Ctx) error {
	userID, ok := UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file uploaded"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file uploaded"})
	}
	defer f.Close()

	rec, err := s.files.Upload(c.Context(), userID, f, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toFileResponse(rec))
}

func (s *Server) handleList(c *fiber.Ctx) error {
	userID, ok := UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	files, err := s.files.List(c.Context(), userID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toListEntries(files))
}

// handleDownload is the only public file route: recipients of a shared link
// do not hold tokens.
func (s *Server) handleDownload(c *fiber.Ctx) error {
	link, count, err := s.files.Download(c.Context(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(downloadResponse{DownloadLink: link, DownloadCount: count})
}

func (s *Server) handleGetFile(c *fiber.Ctx) error {
	userID, ok := UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	rec, err := s.files.Get(c.Context(), userID, c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toFileResponse(rec))
}

func (s *Server) handleShare(c *fiber.Ctx) error {
	userID, ok := UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req shareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	res, err := s.share.Share(c.Context(), userID, c.Params("id"), req.Method, req.Recipient)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(shareResponse{
		Method:       res.Method,
		ViewLink:     res.ViewLink,
		DownloadLink: res.DownloadLink,
		QRCode:       res.QRCode,
	})
}

func (s *Server) handleReconcile(c *fiber.Ctx) error {
	userID, ok := UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	report, err := s.files.Reconcile(c.Context(), userID)
	if err != nil {
		return s.fail(c, err)
	}
	resp := reconcileResponse{Removed: report.Removed, Orphans: report.Orphans}
	// stable JSON shape: arrays, never null
	if resp.Removed == nil {
		resp.Removed = []string{}
	}
	if resp.Orphans == nil {
		resp.Orphans = []string{}
	}
	return c.JSON(resp)
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	userID, ok := UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	if err := s.files.Delete(c.Context(), userID, c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(messageResponse{Message: "File deleted successfully"})
}

func (s *Server) handleRelayEmail(c *fiber.Ctx) error {
	if _, ok := UserID(c); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	rel := service.EmailRelay{
		From:     c.FormValue("from"),
		To:       c.FormValue("to"),
		Text:     c.FormValue("text"),
		FileLink: c.FormValue("fileLink"),
		FileType: c.FormValue("fileType"),
		FileName: c.FormValue("fileName"),
	}
	if err := s.share.RelayEmail(c.Context(), rel); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(messageResponse{Message: "Email sent successfully"})
}
