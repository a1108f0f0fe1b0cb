package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/roboclub/clubcms/submit"
)

const maxBody = 64 << 10

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Writing response failed", "err", err)
	}
}

type jsonError struct {
	Error string `json:"error"`
}

type jsonMessage struct {
	Message string `json:"message"`
}

func isForm(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

// decode reads a JSON body into v. Plain HTML form posts are accepted too,
// fields maps form field names to the destinations.
func decode(r *http.Request, v interface{}, fields map[string]*string) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
	if isForm(r) {
		if err := r.ParseMultipartForm(maxBody); err != nil && err != http.ErrNotMultipart {
			return err
		}
		for name, dst := range fields {
			*dst = r.PostFormValue(name)
		}
		return nil
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func allowPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", "POST")
	writeJSON(w, http.StatusMethodNotAllowed, jsonError{"Method not allowed"})
	return false
}

func (s *server) newsletter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowPost(w, r) {
			return
		}
		if s.submit == nil {
			slog.Error("Newsletter subscription without database")
			writeJSON(w, http.StatusInternalServerError, jsonError{"Internal server error"})
			return
		}

		var req struct {
			Email string `json:"email"`
		}
		if err := decode(r, &req, map[string]*string{"email": &req.Email}); err != nil {
			s.metrics.subscriptions.WithLabelValues("invalid").Inc()
			writeJSON(w, http.StatusBadRequest, jsonError{"Invalid email address"})
			return
		}

		_, err := s.submit.Subscribe(r.Context(), req.Email)
		switch errors.Cause(err) {
		case nil:
			s.metrics.subscriptions.WithLabelValues("ok").Inc()
			writeJSON(w, http.StatusOK, jsonMessage{"Successfully subscribed to newsletter"})
		case submit.ErrInvalidEmail:
			s.metrics.subscriptions.WithLabelValues("invalid").Inc()
			writeJSON(w, http.StatusBadRequest, jsonError{"Invalid email address"})
		case submit.ErrAlreadySubscribed:
			s.metrics.subscriptions.WithLabelValues("duplicate").Inc()
			writeJSON(w, http.StatusBadRequest, jsonError{"This email is already subscribed to our newsletter"})
		default:
			s.metrics.subscriptions.WithLabelValues("error").Inc()
			slog.Error("Newsletter subscription error", "err", err)
			writeJSON(w, http.StatusInternalServerError, jsonError{"Internal server error"})
		}
	}
}

// contactRequest accepts the flat form and the form-builder shape
// {"submissionData": [{"field": "name", "value": "..."}]}.
type contactRequest struct {
	submit.ContactForm
	SubmissionData []struct {
		Field string `json:"field"`
		Value string `json:"value"`
	} `json:"submissionData"`
}

func (c *contactRequest) form() submit.ContactForm {
	f := c.ContactForm
	for _, d := range c.SubmissionData {
		switch strings.ToLower(d.Field) {
		case "name":
			f.Name = d.Value
		case "email":
			f.Email = d.Value
		case "subject":
			f.Subject = d.Value
		case "message":
			f.Message = d.Value
		}
	}
	return f
}

func (s *server) contact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowPost(w, r) {
			return
		}
		if s.submit == nil {
			slog.Error("Contact submission without database")
			writeJSON(w, http.StatusInternalServerError, jsonMessage{"Internal server error"})
			return
		}

		var req contactRequest
		fields := map[string]*string{
			"name":    &req.Name,
			"email":   &req.Email,
			"subject": &req.Subject,
			"message": &req.Message,
		}
		if err := decode(r, &req, fields); err != nil {
			s.metrics.contacts.WithLabelValues("invalid").Inc()
			writeJSON(w, http.StatusBadRequest, jsonMessage{"Malformed request"})
			return
		}

		_, err := s.submit.SubmitContact(r.Context(), req.form())
		if ve, ok := errors.Cause(err).(*submit.ValidationError); ok {
			s.metrics.contacts.WithLabelValues("invalid").Inc()
			writeJSON(w, http.StatusBadRequest, jsonMessage{"Please check the following fields: " + strings.Join(ve.Fields, ", ")})
			return
		}
		if err != nil {
			s.metrics.contacts.WithLabelValues("error").Inc()
			slog.Error("Contact submission error", "err", err)
			writeJSON(w, http.StatusInternalServerError, jsonMessage{"Internal server error"})
			return
		}
		s.metrics.contacts.WithLabelValues("ok").Inc()
		writeJSON(w, http.StatusOK, jsonMessage{"Thank you for your message. We will get back to you soon."})
	}
}
