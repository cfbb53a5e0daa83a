package handler

import (
	"net/http"

	"fitpharm-api/internal/service"
)

type ItemHandler struct {
	svc *service.ItemService
}

func NewItemHandler(svc *service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CreateItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.svc.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "item.deleted")
}

func (h *ItemHandler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	var in service.AddCartItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ci, err := h.svc.AddToCart(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ci)
}

func (h *ItemHandler) HandleCart(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Cart(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ItemHandler) HandleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateCartItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ci, err := h.svc.UpdateCartItem(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ci)
}

func (h *ItemHandler) HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveFromCart(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "cart.removed")
}

func (h *ItemHandler) HandleClearCart(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ClearCart(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "cart.cleared", map[string]any{"Count": n})
}

// RegisterRoutes registers item and cart routes on the given mux.
func (h *ItemHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/items", h.HandleList)
	mux.HandleFunc("POST /api/items", h.HandleCreate)
	mux.HandleFunc("GET /api/items/{id}", h.HandleGet)
	mux.HandleFunc("PUT /api/items/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /api/items/{id}", h.HandleDelete)

	mux.HandleFunc("POST /api/items/cart", h.HandleAddToCart)
	mux.HandleFunc("GET /api/items/cart/{userID}", h.HandleCart)
	mux.HandleFunc("PUT /api/items/cart/{id}", h.HandleUpdateCartItem)
	mux.HandleFunc("DELETE /api/items/cart/{id}", h.HandleRemoveFromCart)
	mux.HandleFunc("DELETE /api/items/cart/user/{userID}", h.HandleClearCart)
}
