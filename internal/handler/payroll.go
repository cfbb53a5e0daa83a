package handler

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"fitpharm-api/internal/export"
	"fitpharm-api/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PayrollHandler struct {
	svc *service.PayrollService
}

func NewPayrollHandler(svc *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{svc: svc}
}

func (h *PayrollHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PayrollHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePayrollInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleProcess runs the batch for every employee. Per-employee failures
// are part of the 200 response, not an error status.
func (h *PayrollHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	var in service.ProcessPayrollInput
	if !decodeJSON(w, r, &in) {
		return
	}
	result, err := h.svc.ProcessAll(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PayrollHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PayrollHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var in service.UpdatePayrollInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PayrollHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "payroll.deleted")
}

func (h *PayrollHandler) HandleByEmployee(w http.ResponseWriter, r *http.Request) {
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

func (h *PayrollHandler) HandleByPeriod(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByPeriod(r.Context(), r.PathValue("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PayrollHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(r.Context(), r.PathValue("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleExport serves the period report as an .xlsx download.
func (h *PayrollHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	period := r.PathValue("period")
	report, err := h.svc.Report(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.PayrollReportXLSX(r.Context(), &buf, report); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%s.xlsx"`, period))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("ERROR writing payroll export: %v", err)
	}
}

// RegisterRoutes registers all payroll routes on the given mux.
func (h *PayrollHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/payroll", h.HandleList)
	mux.HandleFunc("POST /api/payroll", h.HandleCreate)
	mux.HandleFunc("POST /api/payroll/process", h.HandleProcess)
	mux.HandleFunc("GET /api/payroll/{id}", h.HandleGet)
	mux.HandleFunc("PUT /api/payroll/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /api/payroll/{id}", h.HandleDelete)
	mux.HandleFunc("GET /api/payroll/employee/{id}", h.HandleByEmployee)
	mux.HandleFunc("GET /api/payroll/period/{period}", h.HandleByPeriod)
	mux.HandleFunc("GET /api/payroll/report/{period}", h.HandleReport)
	mux.HandleFunc("GET /api/payroll/report/{period}/export", h.HandleExport)
}
