package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/doggydelights/service/internal/response"
)

const (
	uploadField = "file"
	writeWait   = 10 * time.Second
)

type uploadResponse struct {
	Name     string `json:"name"     example:"dog-gallery/Rex-1700000000000"`
	ImageURL string `json:"imageUrl" example:"http://localhost:9000/dogs/dog-gallery/Rex-1700000000000"`
}

type galleryResponse struct {
	Images []StoredImage `json:"images"`
}

// Handler holds HTTP handlers for the gallery endpoints.
type Handler struct {
	svc            *Service
	hub            *Hub
	upgrader       websocket.Upgrader
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler creates a new gallery Handler. allowedOrigins restricts
// websocket watchers the same way CORS restricts the JSON endpoints.
func NewHandler(svc *Service, hub *Hub, maxUploadBytes int64, allowedOrigins []string, logger *slog.Logger) *Handler {
	if hub == nil {
		hub = NewHub(logger)
	}
	return &Handler{
		svc: svc,
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Routes registers the gallery endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/upload", h.Upload)
	r.Get("/gallery", h.List)
	r.Get("/gallery/ws", h.Watch)
	r.Delete("/delete-all", h.DeleteAll)
}

// Upload godoc
//
//	@Summary		Upload a dog picture
//	@Description	Stores one image (field "file") as PNG under a generated dog name.
//	@Tags			gallery
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image to upload"
//	@Success		200		{object}	uploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		413		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.TooLarge(w, "File too large")
			return
		}
		response.BadRequest(w, "No file uploaded")
		return
	}
	defer file.Close()

	img, err := h.svc.Store(r.Context(), file)
	if err != nil {
		if h.svc.IsUnsupported(err) {
			response.BadRequest(w, "Unsupported image")
			return
		}
		h.logger.Error("upload failed", "error", err)
		response.InternalError(w, "Failed to upload image")
		return
	}

	response.OK(w, uploadResponse{Name: img.Identifier, ImageURL: img.URL})
	h.broadcast(r.Context())
}

// List godoc
//
//	@Summary		List the gallery
//	@Description	Returns up to 20 images in the order reported by the object store.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	galleryResponse
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/gallery [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("fetching gallery failed", "error", err)
		response.InternalError(w, "Failed to fetch images")
		return
	}
	response.OK(w, galleryResponse{Images: images})
}

// DeleteAll godoc
//
//	@Summary		Clear the gallery
//	@Description	Deletes up to 500 images in concurrent batches of 100. A failed batch does not restore the others.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.MessageBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/delete-all [delete]
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DeleteAll(r.Context())
	if err != nil {
		h.logger.Error("deleting images failed", "error", err)
		response.InternalError(w, "Failed to delete images")
		h.broadcast(r.Context())
		return
	}
	if n == 0 {
		response.Message(w, "No images to delete")
		return
	}

	response.Message(w, fmt.Sprintf("Deleted %d images", n))
	h.broadcast(r.Context())
}

// Watch godoc
//
//	@Summary		Watch the gallery
//	@Description	Websocket. Sends the current gallery, then a new snapshot after every upload or delete.
//	@Tags			gallery
//	@Success		101
//	@Router			/gallery/ws [get]
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	if images, err := h.svc.List(r.Context()); err != nil {
		h.logger.Error("fetching gallery for watcher failed", "error", err)
	} else {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(galleryResponse{Images: images}); err != nil {
			return
		}
	}

	// Drain client frames so close messages are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case msg := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

// broadcast pushes a fresh snapshot to watchers, if there are any.
func (h *Handler) broadcast(ctx context.Context) {
	if h.hub.Len() == 0 {
		return
	}
	images, err := h.svc.List(ctx)
	if err != nil {
		h.logger.Warn("skipping gallery broadcast", "error", err)
		return
	}
	if err := h.hub.Publish(galleryResponse{Images: images}); err != nil {
		h.logger.Warn("gallery broadcast failed", "error", err)
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}
