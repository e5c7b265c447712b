// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"concierge/internal/app"
	"concierge/internal/domain"
)

const maxBody = 64 << 10

type Handlers struct {
	Engine *app.Engine
	Dir    *app.DirectoryService
	Secret string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/concierge/ask", h.ask)
	s.mux.Post("/v1/sms/inbound", h.smsInbound)
	s.mux.Group(func(r chi.Router) {
		r.Use(RequireSecret(h.Secret))
		r.Post("/v1/properties", h.registerProperty)
		r.Get("/v1/properties/{phone}", h.getProperty)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func (h *Handlers) registerProperty(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected a JSON object of string fields")
		return
	}

	p := domain.PropertyFromColumns(body)

	err := h.Dir.Register(r.Context(), p)
	switch {
	case err == nil:
		log.Info().Str("phone", strings.TrimSpace(p.Phone)).Msg("property registered")
		writeJSON(w, http.StatusCreated, map[string]string{"status": "created", "phone_number": strings.TrimSpace(p.Phone)})
	case errors.Is(err, domain.ErrDuplicateKey):
		writeProblem(w, http.StatusConflict, "Conflict", "a property is already registered for this phone number")
	case errors.Is(err, domain.ErrPhoneRequired):
		writeProblem(w, http.StatusBadRequest, "Invalid body", "phone_number is required")
	default:
		log.Error().Err(err).Msg("register property failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not register property")
	}
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	p, ok, err := h.Dir.Lookup(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		log.Error().Err(err).Msg("lookup property failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not load property")
		return
	}
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
		return
	}
	writeJSON(w, http.StatusOK, p.Columns())
}

type askRequest struct {
	Phone   string `json:"phone_number"`
	Message string `json:"message"`
}

type askResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
	Field  string `json:"field,omitempty"`
}

func (h *Handlers) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected {\"phone_number\", \"message\"}")
		return
	}
	rep := h.Engine.Resolve(r.Context(), req.Phone, req.Message)
	writeJSON(w, http.StatusOK, askResponse{Reply: rep.Text, Source: string(rep.Source), Field: string(rep.Field)})
}

// ---- Twilio-style inbound SMS webhook ----

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// smsInbound always answers with TwiML, even for malformed payloads; an
// empty From/Body simply falls through to the fallback path.
func (h *Handlers) smsInbound(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		log.Warn().Err(err).Msg("sms webhook: bad form payload")
	}
	from := r.PostForm.Get("From")
	body := r.PostForm.Get("Body")

	rep := h.Engine.Resolve(r.Context(), from, body)

	out, err := xml.Marshal(twimlResponse{Message: rep.Text})
	if err != nil {
		log.Error().Err(err).Msg("sms webhook: marshal TwiML failed")
		out, _ = xml.Marshal(twimlResponse{Message: app.ApologyReply})
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append([]byte(xml.Header), out...)); err != nil {
		log.Error().Err(err).Msg("failed to write TwiML body")
	}
}
