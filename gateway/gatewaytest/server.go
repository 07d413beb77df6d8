// Package gatewaytest runs an in memory ledger service for tests.
//
// The server speaks the same routes as the remote service, including
// registration and the read only admin views. It issues signed tokens on
// login, keeps one ledger per user, and can be told to fail the next call on
// any route.
package gatewaytest

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/etnz/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("gatewaytest")

type user struct {
	id       int64
	admin    bool
	password string
	username string
	txs      []ledger.Transaction
	tasks    []ledger.Task
}

type failure struct {
	code    int
	message string
}

// Server is an in memory ledger service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]*user // by email
	nextID   int64
	nextUser int64
	failures map[string]failure // by "METHOD pattern"
	requests []string           // "METHOD path" in arrival order
}

// NewServer starts a new server. It is closed at the end of the test.
func NewServer(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		users:    make(map[string]*user),
		nextID:   1,
		nextUser: 1,
		failures: make(map[string]failure),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Post("/auth/login", s.login)
	r.Post("/auth/register", s.register)
	r.Post("/admin/login", s.adminLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/user", s.profile)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/admin/users", s.listUsers)
			r.Get("/admin/users/{email}/transactions", s.userTransactions)
			r.Get("/admin/users/{email}/tasks", s.userTasks)
		})
		r.Route("/finance", func(r chi.Router) {
			r.Get("/transactions", s.listTransactions)
			r.Post("/transaction", s.createTransaction)
			r.Delete("/transaction/{id}", s.deleteTransaction)
		})
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/user", s.listTasks)
			r.Post("/add", s.createTask)
			r.Patch("/{id}/status", s.updateTaskStatus)
			r.Delete("/task/{id}", s.deleteTask)
		})
	})
	return r
}

// AddUser registers a user and returns a valid token for it.
func (s *Server) AddUser(email, password, username string) string {
	s.addUser(email, password, username, false)
	return s.Token(email, time.Hour)
}

// AddAdmin registers an administrator and returns a valid token for it.
func (s *Server) AddAdmin(email, password, username string) string {
	s.addUser(email, password, username, true)
	return s.Token(email, time.Hour)
}

// Users returns the registered accounts, by id.
func (s *Server) Users() []ledger.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userList()
}

func (s *Server) addUser(email, password, username string, admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = &user{id: s.nextUser, admin: admin, password: password, username: username}
	s.nextUser++
}

// userList returns the accounts by id. Callers hold s.mu.
func (s *Server) userList() []ledger.User {
	users := make([]ledger.User, 0, len(s.users))
	for email, u := range s.users {
		users = append(users, ledger.User{ID: u.id, Name: u.username, Email: email})
	}
	slices.SortFunc(users, func(a, b ledger.User) int { return cmp.Compare(a.ID, b.ID) })
	return users
}

// Token signs a token for email valid for ttl. A negative ttl gives an expired token.
func (s *Server) Token(email string, ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		panic(err)
	}
	return token
}

// SeedTransactions appends transactions to the ledger of email. Transactions
// without an id get one.
func (s *Server) SeedTransactions(email string, txs ...ledger.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[email]
	for _, tx := range txs {
		if tx.ID == 0 {
			tx.ID = s.id()
		}
		u.txs = append(u.txs, tx)
	}
}

// SeedTasks appends tasks to the list of email. Tasks without an id get one.
func (s *Server) SeedTasks(email string, tasks ...ledger.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[email]
	for _, task := range tasks {
		if task.ID == 0 {
			task.ID = s.id()
		}
		u.tasks = append(u.tasks, task)
	}
}

// Transactions returns the server side transactions of email.
func (s *Server) Transactions(email string) []ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users[email].txs)
}

// Tasks returns the server side tasks of email.
func (s *Server) Tasks(email string) []ledger.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users[email].tasks)
}

// FailNext makes the next call matching method and route pattern (e.g.
// "/finance/transaction/{id}") answer code with message.
func (s *Server) FailNext(method, pattern string, code int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+pattern] = failure{code: code, message: message}
}

// Requests returns the "METHOD path" of every request received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

func (s *Server) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

// authenticate verifies the bearer token and stores the email in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.mu.Lock()
		_, exists := s.users[claims.Subject]
		s.mu.Unlock()
		if !exists {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		next.ServeHTTP(w, r.WithContext(withEmail(r, claims.Subject)))
	})
}

// requireAdmin rejects users that are not administrators.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		admin := s.user(r).admin
		s.mu.Unlock()
		if !admin {
			writeError(w, http.StatusForbidden, "administrators only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// fail answers an injected failure for the current route, if any.
func (s *Server) fail(w http.ResponseWriter, r *http.Request) bool {
	key := r.Method + " " + chi.RouteContext(r.Context()).RoutePattern()
	s.mu.Lock()
	f, ok := s.failures[key]
	delete(s.failures, key)
	s.mu.Unlock()
	if ok {
		writeError(w, f.code, f.message)
	}
	return ok
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	u, ok := s.users[req.Email]
	s.mu.Unlock()
	if !ok || u.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": s.Token(req.Email, time.Hour)})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reg, err := ledger.Registration{Name: req.Name, Email: req.Email, Password: req.Password}.Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	_, exists := s.users[reg.Email]
	s.mu.Unlock()
	if exists {
		// the service answers this one in plain text.
		http.Error(w, "Email already exists", http.StatusConflict)
		return
	}
	s.addUser(reg.Email, reg.Password, reg.Name, false)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	u, ok := s.users[req.Email]
	s.mu.Unlock()
	if !ok || !u.admin || u.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": s.Token(req.Email, time.Hour), "username": u.username})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	s.mu.Lock()
	users := s.userList()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) userTransactions(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	s.mu.Lock()
	u, ok := s.users[chi.URLParam(r, "email")]
	var txs []ledger.Transaction
	if ok {
		txs = slices.Clone(u.txs)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) userTasks(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	s.mu.Lock()
	u, ok := s.users[chi.URLParam(r, "email")]
	var tasks []ledger.Task
	if ok {
		tasks = slices.Clone(u.tasks)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if tasks == nil {
		tasks = []ledger.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	s.mu.Lock()
	name := s.user(r).username
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"username": name, "email": email(r)})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	s.mu.Lock()
	txs := slices.Clone(s.user(r).txs)
	s.mu.Unlock()
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	var req struct {
		Amount      ledger.Amount `json:"amount"`
		Kind        ledger.Kind   `json:"type"`
		Date        ledger.Date   `json:"date"`
		Description string        `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := ledger.NewDraft(req.Date, req.Kind, req.Amount, req.Description).Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	u := s.user(r)
	tx := ledger.Transaction{ID: s.id(), Amount: d.Amount, Kind: d.Kind, Date: d.Date, Description: d.Description}
	u.txs = append(u.txs, tx)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	u := s.user(r)
	u.txs = slices.DeleteFunc(u.txs, func(tx ledger.Transaction) bool { return tx.ID == id })
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	s.mu.Lock()
	tasks := slices.Clone(s.user(r).tasks)
	s.mu.Unlock()
	if tasks == nil {
		tasks = []ledger.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	var req struct {
		Title       string        `json:"title"`
		Description string        `json:"description"`
		DueDate     ledger.Date   `json:"dueDate"`
		Status      ledger.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := ledger.TaskDraft{Title: req.Title, Description: req.Description, DueDate: req.DueDate, Status: req.Status}.Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	u := s.user(r)
	task := ledger.Task{ID: s.id(), Title: d.Title, Description: d.Description, DueDate: d.DueDate, Status: d.Status}
	u.tasks = append(u.tasks, task)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	status, err := ledger.ParseStatus(r.URL.Query().Get("newStatus"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(r)
	i := slices.IndexFunc(u.tasks, func(t ledger.Task) bool { return t.ID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("task %d not found", id))
		return
	}
	u.tasks[i].Status = status
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	u := s.user(r)
	u.tasks = slices.DeleteFunc(u.tasks, func(t ledger.Task) bool { return t.ID == id })
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// user returns the authenticated user. Callers hold s.mu.
func (s *Server) user(r *http.Request) *user {
	return s.users[email(r)]
}

func withEmail(r *http.Request, email string) context.Context {
	return context.WithValue(r.Context(), ctxKey{}, email)
}

func email(r *http.Request) string {
	e, _ := r.Context().Value(ctxKey{}).(string)
	return e
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"message": message})
}
