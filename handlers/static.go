package handlers

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"time"
)

//go:embed static/*
var staticAssets embed.FS

// staticMaxAge is how long browsers may reuse an asset.
const staticMaxAge = 24 * time.Hour

var staticTypes = map[string]string{
	".css": "text/css; charset=utf-8",
	".svg": "image/svg+xml",
	".ico": "image/x-icon",
}

// StaticHandler serves the page stylesheet and icons from the binary.
type StaticHandler struct {
	files        http.Handler
	cacheControl string
}

// NewStaticHandler serves the embedded static directory under prefix.
func NewStaticHandler(prefix string) *StaticHandler {
	assets, err := fs.Sub(staticAssets, "static")
	if err != nil {
		panic("static assets: " + err.Error())
	}
	return &StaticHandler{
		files:        http.StripPrefix(prefix, http.FileServer(http.FS(assets))),
		cacheControl: "public, max-age=" + strconv.Itoa(int(staticMaxAge.Seconds())),
	}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct, ok := staticTypes[path.Ext(r.URL.Path)]; ok {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", h.cacheControl)
	h.files.ServeHTTP(w, r)
}
