package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/date"
	"github.com/etnz/ledger/gateway"
	"github.com/etnz/ledger/gateway/gatewaytest"
	"github.com/etnz/ledger/session"
)

const email = "ada@example.com"

func newClient(t *testing.T) (*gateway.Client, *gatewaytest.Server, session.Credential) {
	t.Helper()
	srv := gatewaytest.NewServer(t)
	token := srv.AddUser(email, "secret", "ada")
	c, err := gateway.New(srv.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, srv, session.Credential{Token: token, Username: "ada"}
}

func TestNew(t *testing.T) {
	testCases := []struct {
		url     string
		wantErr bool
	}{
		{url: "http://localhost:8080"},
		{url: "https://ledger.example.com/api"},
		{url: "localhost:8080", wantErr: true},
		{url: "ftp://example.com", wantErr: true},
		{url: "http://[::1", wantErr: true},
	}
	for _, tc := range testCases {
		_, err := gateway.New(tc.url)
		if (err != nil) != tc.wantErr {
			t.Errorf("New(%q) error = %v, wantErr %v", tc.url, err, tc.wantErr)
		}
	}
}

func TestClient_Transactions(t *testing.T) {
	c, srv, cred := newClient(t)
	ctx := context.Background()
	srv.SeedTransactions(email, ledger.Transaction{Amount: ledger.A(100.0), Kind: ledger.Income, Date: date.New(2024, 1, 1), Description: "Salary"})

	txs, err := c.ListTransactions(ctx, cred)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(txs) != 1 || txs[0].Description != "Salary" || !txs[0].Amount.Equal(ledger.A(100.0)) {
		t.Fatalf("ListTransactions() = %+v, want the seeded salary", txs)
	}

	tx, err := c.CreateTransaction(ctx, cred, ledger.NewDraft(date.New(2024, 1, 2), ledger.Expense, ledger.A(30.0), "Coffee"))
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	if tx.ID == 0 || tx.Kind != ledger.Expense || tx.Date != date.New(2024, 1, 2) {
		t.Errorf("CreateTransaction() = %+v, want an expense with an id", tx)
	}

	if err := c.DeleteTransaction(ctx, cred, txs[0].ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if got := srv.Transactions(email); len(got) != 1 || got[0].ID != tx.ID {
		t.Errorf("server transactions = %+v, want only the coffee", got)
	}
}

func TestClient_Tasks(t *testing.T) {
	c, srv, cred := newClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, cred, ledger.NewTaskDraft("Taxes", "File taxes", date.New(2024, 4, 15)))
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if err := c.UpdateTaskStatus(ctx, cred, task.ID, ledger.Delayed); err != nil {
		t.Fatalf("UpdateTaskStatus() error = %v", err)
	}
	tasks, err := c.ListTasks(ctx, cred)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != ledger.Delayed || tasks[0].DueDate != date.New(2024, 4, 15) {
		t.Fatalf("ListTasks() = %+v, want one delayed task", tasks)
	}

	want := "PATCH /tasks/" + strconv.FormatInt(task.ID, 10) + "/status"
	found := false
	for _, r := range srv.Requests() {
		found = found || r == want
	}
	if !found {
		t.Errorf("Requests() = %v, want %q", srv.Requests(), want)
	}

	if err := c.DeleteTask(ctx, cred, task.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if got := srv.Tasks(email); len(got) != 0 {
		t.Errorf("server tasks = %+v, want none", got)
	}
}

func TestClient_Errors(t *testing.T) {
	c, srv, cred := newClient(t)
	ctx := context.Background()

	testCases := []struct {
		name     string
		setup    func()
		call     func() error
		wantCode int
		wantErr  error
	}{
		{
			name:     "expired token",
			call:     func() error { _, err := c.ListTransactions(ctx, session.Credential{Token: srv.Token(email, -time.Hour)}); return err },
			wantCode: http.StatusUnauthorized,
			wantErr:  ledger.ErrUnauthorized,
		},
		{
			name:     "garbage token",
			call:     func() error { _, err := c.ListTasks(ctx, session.Credential{Token: "nope"}); return err },
			wantCode: http.StatusUnauthorized,
			wantErr:  ledger.ErrUnauthorized,
		},
		{
			name:     "unknown task",
			call:     func() error { return c.UpdateTaskStatus(ctx, cred, 9999, ledger.Done) },
			wantCode: http.StatusNotFound,
			wantErr:  ledger.ErrNotFound,
		},
		{
			name:     "injected failure",
			setup:    func() { srv.FailNext(http.MethodDelete, "/finance/transaction/{id}", http.StatusInternalServerError, "database down") },
			call:     func() error { return c.DeleteTransaction(ctx, cred, 1) },
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "rejected draft",
			call:     func() error { _, err := c.CreateTransaction(ctx, cred, ledger.Draft{}); return err },
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				tc.setup()
			}
			err := tc.call()
			var serr *gateway.StatusError
			if !errors.As(err, &serr) {
				t.Fatalf("error = %v, want *StatusError", err)
			}
			if serr.Code != tc.wantCode {
				t.Errorf("code = %d, want %d", serr.Code, tc.wantCode)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want wrapping %v", err, tc.wantErr)
			}
			if serr.Message == "" {
				t.Errorf("message is empty, want the server message")
			}
		})
	}
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()
	c, err := gateway.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.ListTransactions(context.Background(), session.Credential{Token: "t"})
	var serr *gateway.StatusError
	if !errors.As(err, &serr) || serr.Message != "bad gateway" {
		t.Errorf("error = %v, want a StatusError with message %q", err, "bad gateway")
	}
}

func TestClient_Headers(t *testing.T) {
	var mu sync.Mutex
	ids := make(map[string]bool)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer abc")
		}
		mu.Lock()
		ids[r.Header.Get("X-Request-ID")] = true
		mu.Unlock()
		w.Write([]byte("[]"))
	}))
	defer srv.Close()
	c, err := gateway.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if _, err := c.ListTasks(context.Background(), session.Credential{Token: "abc"}); err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if len(ids) != 3 || ids[""] {
		t.Errorf("request ids = %v, want 3 distinct ids", ids)
	}
}

func TestClient_RateLimit(t *testing.T) {
	srv := gatewaytest.NewServer(t)
	token := srv.AddUser(email, "secret", "ada")
	c, err := gateway.New(srv.URL, gateway.WithRateLimit(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	cred := session.Credential{Token: token}
	if _, err := c.ListTasks(context.Background(), cred); err != nil {
		t.Fatalf("first call error = %v", err)
	}
	// The bucket is empty: the next call cannot be served before the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.ListTasks(ctx, cred); err == nil {
		t.Error("second call should fail waiting for the limiter")
	}
}

func TestClient_Login(t *testing.T) {
	c, _, _ := newClient(t)
	ctx := context.Background()

	cred, err := c.Login(ctx, email, "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if cred.Username != "ada" || !cred.Valid() {
		t.Errorf("Login() = %+v, want a valid credential for ada", cred)
	}
	if exp, ok := cred.Expiry(); !ok || !exp.After(time.Now()) {
		t.Errorf("Expiry() = %v, %v; want a future expiry", exp, ok)
	}
	if _, err := c.ListTransactions(ctx, cred); err != nil {
		t.Errorf("ListTransactions() with the login credential error = %v", err)
	}

	if _, err := c.Login(ctx, email, "wrong"); !errors.Is(err, ledger.ErrUnauthorized) {
		t.Errorf("Login(wrong password) error = %v, want ErrUnauthorized", err)
	}
	if _, err := c.Login(ctx, "", ""); err == nil {
		t.Error("Login() without credentials should fail")
	}
}

