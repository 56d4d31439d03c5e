package catalog

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductStore/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

// productList is the XML envelope for product collections.
type productList struct {
	XMLName  xml.Name  `xml:"ArrayOfProduct"`
	Products []Product `xml:"Product"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			s.log().Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{id}", s.get)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.remove)
	})

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	var (
		products []Product
		err      error
	)

	q := r.URL.Query()
	if q.Has("category") {
		products, err = s.Store.ListByCategory(r.Context(), q.Get("category"))
	} else {
		products, err = s.Store.List(r.Context())
	}
	if err != nil {
		s.writeStoreError(w, r, err, zap.String("category", q.Get("category")))
		return
	}

	if kit.WantsXML(r) {
		kit.WriteXML(w, http.StatusOK, productList{Products: products})
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, found, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, zap.Int64("id", id))
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.Write(w, r, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	p, err := decodeProduct(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad body", map[string]any{"cause": err.Error()})
		return
	}

	created, err := s.Store.Add(r.Context(), p)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	w.Header().Set("Location", resourceURL(r, created.ID))
	kit.Write(w, r, http.StatusCreated, created)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := decodeProduct(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad body", map[string]any{"cause": err.Error()})
		return
	}
	if p != nil {
		p.ID = id
	}

	updated, err := s.Store.Update(r.Context(), p)
	if err != nil {
		s.writeStoreError(w, r, err, zap.Int64("id", id))
		return
	}
	if !updated {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	_, found, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, zap.Int64("id", id))
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	if err := s.Store.Remove(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err, zap.Int64("id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, fields ...zap.Field) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		kit.WriteError(w, r, http.StatusBadRequest, "product required", nil)
	case isTimeoutErr(err):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		s.log().Error("store failed", append(fields, zap.Error(err))...)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// decodeProduct returns a nil product for an empty or null body so that the
// store reports the missing argument.
func decodeProduct(w http.ResponseWriter, r *http.Request) (*Product, error) {
	var p *Product
	if err := kit.DecodeBody(w, r, &p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid id", map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

func resourceURL(r *http.Request, id int64) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s/products/%d", scheme, r.Host, id)
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
