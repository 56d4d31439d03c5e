package kit

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const MaxBodyBytes = 1 << 20

var ErrTrailingData = errors.New("extra data after body")

type ErrorResponse struct {
	XMLName   xml.Name `json:"-" xml:"Error"`
	Error     string   `json:"error" xml:"Message"`
	Details   any      `json:"details,omitempty" xml:"-"`
	RequestID string   `json:"request_id,omitempty" xml:"RequestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteXML(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, xml.Header)
	_ = xml.NewEncoder(w).Encode(v)
}

// Write encodes v as XML when the client asks for it and as JSON otherwise.
func Write(w http.ResponseWriter, r *http.Request, status int, v any) {
	if WantsXML(r) {
		WriteXML(w, status, v)
		return
	}
	WriteJSON(w, status, v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, details any) {
	Write(w, r, status, ErrorResponse{
		Error:     msg,
		Details:   details,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

// WantsXML reports whether the Accept header prefers XML over JSON. The first
// listed media type wins; quality values are not weighed.
func WantsXML(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch {
		case isXML(mt):
			return true
		case mt == "application/json", strings.HasSuffix(mt, "+json"):
			return false
		}
	}
	return false
}

// DecodeBody reads one JSON or XML document into v, picking the format from
// Content-Type. An empty body yields io.EOF.
func DecodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if isXML(mt) {
		return xml.NewDecoder(r.Body).Decode(v)
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrTrailingData
	}
	return nil
}

func isXML(mt string) bool {
	return mt == "application/xml" || mt == "text/xml" || strings.HasSuffix(mt, "+xml")
}
