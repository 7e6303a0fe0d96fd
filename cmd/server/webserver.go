package main

import (
	"embed"
	"encoding/json"
	"io/fs"
	"log"
	"net/http"

	"github.com/coder/websocket"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/cli"
	"github.com/marben/mandelzoom/render"
	"github.com/marben/mandelzoom/session"
)

//go:embed static
var staticFiles embed.FS

type zoomServer struct {
	view           *cli.ViewFlags
	rnd            render.Renderer
	width, height  int
	originPatterns []string
}

func newZoomServer(cfg *serverConfig) (*zoomServer, error) {
	if err := cfg.view.Validate(); err != nil {
		return nil, err
	}
	if err := mandel.CheckExtent(cfg.width, cfg.height); err != nil {
		return nil, err
	}
	rnd, err := cfg.view.Renderer()
	if err != nil {
		return nil, err
	}
	return &zoomServer{
		view:           cfg.view,
		rnd:            rnd,
		width:          cfg.width,
		height:         cfg.height,
		originPatterns: cfg.originPatterns,
	}, nil
}

// handler serves the embedded page, the landmark list and the websocket endpoint.
func (zs *zoomServer) handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", zs.websocketHandler)
	mux.HandleFunc("/regions", regionsHandler)
	mux.Handle("/", http.FileServerFS(static))
	return mux
}

func (zs *zoomServer) newSession() (*session.Session, error) {
	vp, err := zs.view.Viewport()
	if err != nil {
		return nil, err
	}
	return session.New(vp, zs.rnd, zs.width, zs.height)
}

// websocketHandler upgrades the request and runs one zoom session on it
// until the browser goes away.
func (zs *zoomServer) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: zs.originPatterns,
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()

	sess, err := zs.newSession()
	if err != nil {
		log.Printf("new session: %v", err)
		c.Close(websocket.StatusInternalError, "session setup failed")
		return
	}

	log.Printf("got connection from: %s", r.RemoteAddr)
	err = serveClient(r.Context(), c, sess)
	switch {
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway,
		r.Context().Err() != nil:
		log.Printf("connection from %s closed", r.RemoteAddr)
	default:
		log.Printf("connection from %s: %v", r.RemoteAddr, err)
	}
}

func regionsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(mandel.RegionNames()); err != nil {
		log.Printf("regions: %v", err)
	}
}
