package handler

import (
	"net/http"

	"fitpharm-api/internal/auth"
	"fitpharm-api/internal/service"
)

type FeedbackHandler struct {
	svc  *service.FeedbackService
	auth *auth.Issuer
}

func NewFeedbackHandler(svc *service.FeedbackService, issuer *auth.Issuer) *FeedbackHandler {
	return &FeedbackHandler{svc: svc, auth: issuer}
}

func actorFrom(r *http.Request) service.Actor {
	c, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return service.Actor{}
	}
	return service.Actor{UserID: c.Subject, Admin: c.Admin}
}

func (h *FeedbackHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *FeedbackHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListMine(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *FeedbackHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	f, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FeedbackHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CreateFeedbackInput
	if !decodeJSON(w, r, &in) {
		return
	}
	f, err := h.svc.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FeedbackHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var in service.UpdateFeedbackInput
	if !decodeJSON(w, r, &in) {
		return
	}
	f, err := h.svc.Update(r.Context(), actorFrom(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FeedbackHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "feedback.deleted")
}

// RegisterRoutes registers package feedback routes on the given mux.
func (h *FeedbackHandler) RegisterRoutes(mux *http.ServeMux) {
	authed := func(f http.HandlerFunc) http.Handler { return h.auth.Require(failAuth, f) }

	mux.HandleFunc("GET /api/package-feedback", h.HandleList)
	mux.HandleFunc("GET /api/package-feedback/{id}", h.HandleGet)
	mux.Handle("GET /api/package-feedback/mine", authed(h.HandleMine))
	mux.Handle("POST /api/package-feedback", authed(h.HandleCreate))
	mux.Handle("PUT /api/package-feedback/{id}", authed(h.HandleUpdate))
	mux.Handle("DELETE /api/package-feedback/{id}", authed(h.HandleDelete))
}
