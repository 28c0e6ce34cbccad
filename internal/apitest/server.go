// Package apitest provides an in-memory stand-in for the remote CRM API,
// answering with JSON:API envelopes. It is used by tests only.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Failure forces an answer for a route.
type Failure struct {
	Status  int
	Message string
}

// Request is a request seen by the stub.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          []byte
}

// Server is the stub API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	records  map[string]map[int]map[string]any
	nextID   int
	requests []Request
	failures map[string]Failure

	// Token is the only bearer token accepted on protected routes.
	Token string
	// Email and Password are the credentials /api/login accepts.
	Email    string
	Password string
	// User is returned by login, register and profile.
	User map[string]any
}

// New starts a stub with one known user.
func New() *Server {
	s := &Server{
		records:  map[string]map[int]map[string]any{},
		failures: map[string]Failure{},
		Token:    "valid-token",
		Email:    "demo@x.com",
		Password: "secret-password",
		User: map[string]any{
			"id":                1,
			"name":              "Demo User",
			"email":             "demo@x.com",
			"email_verified_at": nil,
			"created_at":        "2024-01-01T00:00:00Z",
			"updated_at":        "2024-01-01T00:00:00Z",
			"avatar":            nil,
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.login)
	mux.HandleFunc("POST /api/register", s.register)
	mux.HandleFunc("POST /api/logout", s.logout)
	mux.HandleFunc("GET /api/profile", s.profile)
	mux.HandleFunc("PATCH /api/profile", s.updateProfile)
	mux.HandleFunc("GET /api/{kind}", s.list)
	mux.HandleFunc("POST /api/{kind}", s.create)
	mux.HandleFunc("GET /api/{kind}/{id}", s.get)
	mux.HandleFunc("PUT /api/{kind}/{id}", s.update)
	mux.HandleFunc("DELETE /api/{kind}/{id}", s.remove)
	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// Fail forces every request matching method and path to answer with f.
func (s *Server) Fail(method, path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = f
}

// Seed stores a record and returns its id.
func (s *Server) Seed(kind string, attrs map[string]any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store(kind, attrs)
}

// Record returns the stored attributes of kind/id.
func (s *Server) Record(kind string, id int) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[kind][id]
	return rec, ok
}

// Requests returns the requests seen so far for method and path ("" matches any).
func (s *Server) Requests(method, path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if (method == "" || r.Method == method) && (path == "" || r.Path == path) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) store(kind string, attrs map[string]any) int {
	s.nextID++
	if s.records[kind] == nil {
		s.records[kind] = map[int]map[string]any{}
	}
	clean := map[string]any{}
	for k, v := range attrs {
		if k != "id" {
			clean[k] = v
		}
	}
	s.records[kind][s.nextID] = clean
	return s.nextID
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		f, failed := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if failed {
			writeJSON(w, f.Status, map[string]any{"message": f.Message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+s.Token
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Email != s.Email || in.Password != s.Password {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": s.Token, "user": s.User})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in map[string]string
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in["password"] != in["password_confirmation"] {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "The password field confirmation does not match."})
		return
	}
	s.mu.Lock()
	s.User["name"] = in["name"]
	s.User["email"] = in["email"]
	s.Email, s.Password = in["email"], in["password"]
	user := s.User
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"token": s.Token, "user": user})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.User)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
		return
	}
	var in map[string]any
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range in {
		if k == "password" {
			s.Password, _ = v.(string)
			continue
		}
		s.User[k] = v
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": "1", "type": "users", "attributes": s.User}})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
		return
	}
	kind := r.PathValue("kind")
	term := strings.ToLower(r.URL.Query().Get("search"))

	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.records[kind]))
	for id := range s.records[kind] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	data := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		attrs := s.records[kind][id]
		if term != "" && !matches(attrs, term) {
			continue
		}
		data = append(data, resourceObject(kind, id, attrs))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
		return
	}
	kind, id := r.PathValue("kind"), atoi(r.PathValue("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	attrs, ok := s.records[kind][id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resourceObject(kind, id, attrs)})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
		return
	}
	kind := r.PathValue("kind")
	var in map[string]any
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Malformed JSON"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.store(kind, in)
	writeJSON(w, http.StatusCreated, map[string]any{"data": resourceObject(kind, id, s.records[kind][id])})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
		return
	}
	kind, id := r.PathValue("kind"), atoi(r.PathValue("id"))
	var in map[string]any
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	defer s.mu.Unlock()
	attrs, ok := s.records[kind][id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		return
	}
	for k, v := range in {
		if k != "id" {
			attrs[k] = v
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resourceObject(kind, id, attrs)})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
		return
	}
	kind, id := r.PathValue("kind"), atoi(r.PathValue("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[kind][id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		return
	}
	delete(s.records[kind], id)
	w.WriteHeader(http.StatusNoContent)
}

func resourceObject(kind string, id int, attrs map[string]any) map[string]any {
	return map[string]any{"id": strconv.Itoa(id), "type": kind, "attributes": attrs}
}

func matches(attrs map[string]any, term string) bool {
	for _, v := range attrs {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
