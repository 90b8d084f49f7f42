package heatmap

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mhelland/seqheat/pkg/observability"
)

// webController serves the rendered figure on a local web page together
// with JSON endpoints for cell and annotation lookups. Unlike the blocking
// terminal variants, Activate returns as soon as the server is listening.
type webController struct {
	*session
	addr    string
	token   string
	server  *http.Server
	started time.Time
}

func newWebController(s *session, addr string) *webController {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	return &webController{
		session: s,
		addr:    addr,
		token:   uuid.NewString(),
	}
}

func (c *webController) Activate(ctx context.Context) error {
	listener, err := net.Listen("tcp", c.addr)
	if err != nil {
		return err
	}

	c.started = time.Now()
	observability.Plot().OnSessionStart(ctx, GUIWeb.String())

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/", c.handleIndex)
	router.Get("/heatmap.png", c.handleImage)
	router.Get("/cell", c.handleCell)
	router.Get("/annotations/{feature}", c.handleAnnotations)

	c.server = &http.Server{Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := c.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			c.logger.Error("plot server stopped", "error", err)
		}
	}()
	c.logger.Info("plot served", "url", fmt.Sprintf("http://%s/", listener.Addr()), "session", c.token)
	return nil
}

// Shutdown stops the plot server.
func (c *webController) Shutdown(ctx context.Context) error {
	if c.server == nil {
		return nil
	}
	observability.Plot().OnSessionEnd(ctx, GUIWeb.String(), time.Since(c.started))
	return c.server.Shutdown(ctx)
}

func (c *webController) handleIndex(w http.ResponseWriter, r *http.Request) {
	desc := c.exp.Description
	if desc == "" {
		desc = "seqheat"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html>
<title>%s</title>
<h1>%s</h1>
<img src="/heatmap.png" alt="heatmap">
<p>session %s</p>
`, desc, desc, c.token)
}

func (c *webController) handleImage(w http.ResponseWriter, r *http.Request) {
	png, err := c.fig.RenderPNG()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (c *webController) handleCell(w http.ResponseWriter, r *http.Request) {
	format := c.fig.Axes().CoordFormatter()
	if format == nil {
		http.Error(w, "no plot rendered", http.StatusConflict)
		return
	}
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		http.Error(w, "x and y query parameters are required", http.StatusBadRequest)
		return
	}
	nSamples, nFeatures := c.exp.Shape()
	col := int(math.Floor(x + 0.5))
	row := int(math.Floor(y + 0.5))
	if col < 0 || col >= nSamples || row < 0 || row >= nFeatures {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "cell out of range"})
		return
	}
	writeJSON(w, map[string]string{"readout": format(x, y)})
}

func (c *webController) handleAnnotations(w http.ResponseWriter, r *http.Request) {
	feature := chi.URLParam(r, "feature")
	writeJSON(w, c.lookupAnnotations(r.Context(), feature))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
