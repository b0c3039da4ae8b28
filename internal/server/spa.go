package server

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

const spaIndex = "index.html"

// ServeSPA returns the requested static asset, or the SPA shell for any path
// that is not a file so the client router can take over.
func (s *Server) ServeSPA(c *fiber.Ctx) error {
	name := strings.TrimPrefix(path.Clean("/"+c.Params("*")), "/")
	if name == "" {
		name = spaIndex
	}

	if info, err := fs.Stat(s.webFS, name); err != nil || info.IsDir() {
		name = spaIndex
	}

	if name == spaIndex {
		c.Set(fiber.HeaderCacheControl, "no-cache")
	}
	return filesystem.SendFile(c, http.FS(s.webFS), "/"+name)
}
