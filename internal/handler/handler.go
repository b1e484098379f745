package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dan9191/emi-tracker/internal/export"
	"github.com/Dan9191/emi-tracker/internal/models"
	"github.com/Dan9191/emi-tracker/internal/presenter"
	"github.com/Dan9191/emi-tracker/internal/service"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// NewRouter wires all routes
func (h *Handler) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/loans", h.Submit).Methods("POST")
	r.HandleFunc("/loans/{id}/edit", h.BeginEdit).Methods("POST")
	r.HandleFunc("/loans/{id}/delete", h.RequestDelete).Methods("POST")
	r.HandleFunc("/loans/{id}/paid", h.RequestMarkPaid).Methods("POST")
	r.HandleFunc("/edit/cancel", h.CancelEdit).Methods("POST")
	r.HandleFunc("/confirm", h.Confirm).Methods("POST")
	r.HandleFunc("/cancel", h.Cancel).Methods("POST")
	r.HandleFunc("/view/toggle", h.ToggleView).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/loans", h.ListLoans).Methods("GET")
	api.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	api.HandleFunc("/loans/export.xml", h.ExportXML).Methods("GET")

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
	return r
}

// Index renders the page
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := presenter.RenderPage(w, h.svc.Page()); err != nil {
		h.log.Errorf("Failed to render page: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// Submit handles the add/update form. Outcomes are reported through the
// service's notices, so every path redirects back to the page.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := models.LoanInput{
		Name:    r.PostFormValue("name"),
		Amount:  r.PostFormValue("amount"),
		EMIDate: r.PostFormValue("emiDate"),
	}
	h.svc.Submit(r.Context(), in)
	backToPage(w, r)
}

// BeginEdit handles the Edit button
func (h *Handler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := loanID(w, r)
	if !ok {
		return
	}
	h.svc.BeginEdit(id)
	backToPage(w, r)
}

// CancelEdit leaves edit mode
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.svc.CancelEdit()
	backToPage(w, r)
}

// RequestDelete opens the confirmation dialog for a delete
func (h *Handler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := loanID(w, r)
	if !ok {
		return
	}
	h.svc.RequestDelete(id)
	backToPage(w, r)
}

// RequestMarkPaid opens the confirmation dialog for mark-paid
func (h *Handler) RequestMarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := loanID(w, r)
	if !ok {
		return
	}
	h.svc.RequestMarkPaid(id)
	backToPage(w, r)
}

// Confirm accepts the dialog
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.svc.Confirm(r.Context())
	backToPage(w, r)
}

// Cancel dismisses the dialog
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.svc.Cancel()
	backToPage(w, r)
}

// ToggleView switches between Normal and Smart view
func (h *Handler) ToggleView(w http.ResponseWriter, r *http.Request) {
	h.svc.ToggleView()
	backToPage(w, r)
}

// ListLoans returns the current projection as JSON
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.svc.Projection()); err != nil {
		h.log.Errorf("Failed to encode loans: %v", err)
	}
}

// CreateLoan adds a loan from a JSON body and returns it
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var in models.LoanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	loan, err := h.svc.Add(r.Context(), in)
	if service.IsValidation(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Errorf("Failed to add loan: %v", err)
		http.Error(w, "failed to save loan", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(loan); err != nil {
		h.log.Errorf("Failed to encode loan: %v", err)
	}
}

// ExportXML returns the loan list as an XML attachment
func (h *Handler) ExportXML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="loans.xml"`)
	if err := export.WriteXML(w, h.svc.Loans()); err != nil {
		h.log.Errorf("Failed to export loans: %v", err)
	}
}

func loanID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "unknown loan", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func backToPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("Request handled")
	})
}
