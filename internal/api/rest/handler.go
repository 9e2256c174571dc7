// Package rest provides the HTTP API for the queue store.
package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	zlog "github.com/rs/zerolog/log"

	"github.com/peltonpa/youtube-scheduler/internal/domain/user"
	"github.com/peltonpa/youtube-scheduler/internal/domain/video"
	"github.com/peltonpa/youtube-scheduler/internal/store"
)

// TitleResolver resolves a video id to its display title.
type TitleResolver interface {
	ResolveTitle(ctx context.Context, videoID string) (string, error)
}

// Handler serves the queue store HTTP contract.
type Handler struct {
	store    store.Store
	titles   TitleResolver
	validate *validator.Validate
}

// New creates a handler over the given store and title resolver.
func New(st store.Store, titles TitleResolver) *Handler {
	return &Handler{
		store:    st,
		titles:   titles,
		validate: validator.New(),
	}
}

// Router builds the chi router for the API.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/owner", h.createOwner)
		r.Post("/users", h.createUser)
		r.Get("/users/{ownerId}", h.listUsers)
		r.Put("/users/update-video-queue", h.updateVideoQueue)
		r.Get("/users/video-queue/{userId}", h.getVideoQueue)
		r.Get("/video-id/{videoId}", h.getVideoTitle)
	})

	return r
}

type createUserRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=64"`
	OwnerID string `json:"ownerId" validate:"required"`
}

type updateQueueRequest struct {
	ID         string   `json:"id" validate:"required"`
	VideoQueue []string `json:"video_queue"`
}

type ownerResponse struct {
	ID string `json:"id"`
}

type userResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	VideoQueue []string `json:"video_queue"`
}

type queueResponse struct {
	ID         string   `json:"id"`
	VideoQueue []string `json:"video_queue"`
}

func toUserResponse(u user.User) userResponse {
	queue := u.VideoQueue
	if queue == nil {
		queue = []string{}
	}
	return userResponse{ID: u.ID, Name: u.Name, VideoQueue: queue}
}

func (h *Handler) createOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := h.store.CreateOwner(r.Context())
	if err != nil {
		h.storeError(w, err, "failed to create owner")
		return
	}

	writeData(w, http.StatusCreated, ownerResponse{ID: owner.ID})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.store.CreateUser(r.Context(), req.Name, req.OwnerID)
	if err != nil {
		h.storeError(w, err, "failed to create user")
		return
	}

	writeData(w, http.StatusCreated, toUserResponse(u))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerId")

	users, err := h.store.ListUsers(r.Context(), ownerID)
	if err != nil {
		h.storeError(w, err, "failed to list users")
		return
	}

	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	writeData(w, http.StatusOK, out)
}

// updateVideoQueue replaces a user's whole queue. Every entry must be a
// valid video reference; references are normalized to bare video ids before
// storage, so no invalid input is ever stored.
func (h *Handler) updateVideoQueue(w http.ResponseWriter, r *http.Request) {
	var req updateQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	queue := make([]string, len(req.VideoQueue))
	for i, ref := range req.VideoQueue {
		id, err := video.ExtractID(ref)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		queue[i] = id
	}

	u, err := h.store.ReplaceQueue(r.Context(), req.ID, queue)
	if err != nil {
		h.storeError(w, err, "failed to replace queue")
		return
	}

	writeData(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) getVideoQueue(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	u, err := h.store.GetQueue(r.Context(), userID)
	if err != nil {
		h.storeError(w, err, "failed to get queue")
		return
	}

	queue := u.VideoQueue
	if queue == nil {
		queue = []string{}
	}
	writeData(w, http.StatusOK, queueResponse{ID: u.ID, VideoQueue: queue})
}

func (h *Handler) getVideoTitle(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoId")
	if err := video.Validate(videoID); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	title, err := h.titles.ResolveTitle(r.Context(), videoID)
	if err != nil {
		zlog.Error().Err(err).Str("video", videoID).Msg("rest: title resolution failed")
		writeError(w, http.StatusBadGateway, "failed to resolve video title")
		return
	}

	writeData(w, http.StatusOK, title)
}

// storeError maps store errors to HTTP status codes.
func (h *Handler) storeError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrOwnerNotFound), errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		zlog.Error().Err(err).Msg("rest: " + msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}
