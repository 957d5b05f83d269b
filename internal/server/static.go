package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// rootFiles are served from the top of the frontend bundle when present.
var rootFiles = []string{"favicon.ico", "manifest.json", "version.json"}

// mountStatic serves the built card-deck frontend. Unknown non-API paths fall
// back to index.html so client-side routes survive a reload. Without a usable
// bundle the server runs API only.
func (s *Server) mountStatic() {
	index, ok := s.frontendIndex()
	if !ok {
		s.engine.NoRoute(notFound)
		return
	}

	s.engine.GET("/", func(c *gin.Context) { c.File(index) })
	s.engine.NoRoute(func(c *gin.Context) {
		if isAPIPath(c.Request.URL.Path) {
			notFound(c)
			return
		}
		c.File(index)
	})

	if assets := filepath.Join(s.staticDir, "assets"); isDir(assets) {
		s.engine.StaticFS("/assets", gin.Dir(assets, false))
	}
	for _, name := range rootFiles {
		if path := filepath.Join(s.staticDir, name); fileExists(path) {
			s.engine.StaticFile("/"+name, path)
		}
	}
}

// frontendIndex returns the bundle's index.html, logging why it is unusable
// otherwise.
func (s *Server) frontendIndex() (string, bool) {
	if s.staticDir == "" {
		s.logger.Info("no frontend configured, serving API only")
		return "", false
	}
	if !isDir(s.staticDir) {
		s.logger.Warn("frontend directory missing", zap.String("dir", s.staticDir))
		return "", false
	}
	index := filepath.Join(s.staticDir, "index.html")
	if !fileExists(index) {
		s.logger.Warn("frontend has no index.html", zap.String("dir", s.staticDir))
		return "", false
	}
	return index, true
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
}
