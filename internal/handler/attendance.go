package handler

import (
	"net/http"

	"fitpharm-api/internal/service"
)

type AttendanceHandler struct {
	svc *service.AttendanceService
}

func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

func (h *AttendanceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreate records one day of attendance. A second record for the same
// employee and calendar day is rejected with 400.
func (h *AttendanceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CreateAttendanceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	a, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AttendanceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var in service.UpdateAttendanceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	a, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AttendanceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "attendance.deleted")
}

func (h *AttendanceHandler) HandleByEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListByEmployee(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AttendanceHandler) HandleByDate(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByDate(r.Context(), r.PathValue("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// RegisterRoutes registers all attendance routes on the given mux.
func (h *AttendanceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/attendance", h.HandleList)
	mux.HandleFunc("POST /api/attendance", h.HandleCreate)
	mux.HandleFunc("PUT /api/attendance/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /api/attendance/{id}", h.HandleDelete)
	mux.HandleFunc("GET /api/attendance/employee/{id}", h.HandleByEmployee)
	mux.HandleFunc("GET /api/attendance/date/{date}", h.HandleByDate)
}
