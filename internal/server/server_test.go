package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tripfolio/tripfolio/internal/auth"
	"github.com/tripfolio/tripfolio/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tripfolio-http-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	srv := httptest.NewServer(New(store, authenticator, jwtManager).Router())
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends a request with an optional token and decodes the response
// into out when it is non-nil.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func registerViaAPI(t *testing.T, srv *httptest.Server, name, email string) (token, userID string) {
	t.Helper()
	var resp authResponse
	status := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", registerRequest{
		Name:     name,
		Email:    email,
		Password: "correct-horse-battery",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register returned %d", status)
	}
	return resp.Token, resp.User.ID
}

func TestAuthEndpoints(t *testing.T) {
	srv := setupTestServer(t)

	token, _ := registerViaAPI(t, srv, "Alice", "alice@http.example.com")
	if token == "" {
		t.Fatal("expected a token from register")
	}

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", registerRequest{
			Name:     "Alice Again",
			Email:    "alice@http.example.com",
			Password: "another-password",
		}, nil)
		if status != http.StatusConflict {
			t.Errorf("expected 409, got %d", status)
		}
	})

	t.Run("short password is rejected", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", registerRequest{
			Name:     "Bob",
			Email:    "bob@http.example.com",
			Password: "short",
		}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("login with wrong password fails", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", loginRequest{
			Email:    "alice@http.example.com",
			Password: "wrong-password",
		}, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", status)
		}
	})

	t.Run("login returns a working token", func(t *testing.T) {
		var resp authResponse
		status := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", loginRequest{
			Email:    "alice@http.example.com",
			Password: "correct-horse-battery",
		}, &resp)
		if status != http.StatusOK {
			t.Fatalf("login returned %d", status)
		}

		status = doJSON(t, srv, http.MethodGet, "/api/trips", resp.Token, nil, nil)
		if status != http.StatusOK {
			t.Errorf("authenticated list trips returned %d", status)
		}
	})

	t.Run("missing token gets 401", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodGet, "/api/trips", "", nil, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", status)
		}
	})
}

func TestTripEndpoints(t *testing.T) {
	srv := setupTestServer(t)
	aliceToken, _ := registerViaAPI(t, srv, "Alice", "alice@trips.http.example.com")
	bobToken, bobID := registerViaAPI(t, srv, "Bob", "bob@trips.http.example.com")

	var trip tripView
	status := doJSON(t, srv, http.MethodPost, "/api/trips", aliceToken, tripRequest{
		Title:       "Lisbon",
		Destination: "Portugal",
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-15",
		Budget:      "1200.00",
	}, &trip)
	if status != http.StatusCreated {
		t.Fatalf("create trip returned %d", status)
	}
	if trip.InviteCode == "" {
		t.Fatal("expected an invite code")
	}
	if trip.Budget != "1200.00" {
		t.Errorf("budget: got %s, want 1200.00", trip.Budget)
	}

	t.Run("non-member gets 403", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodGet, "/api/trips/"+trip.ID, bobToken, nil, nil)
		if status != http.StatusForbidden {
			t.Errorf("expected 403, got %d", status)
		}
	})

	t.Run("join by invite code", func(t *testing.T) {
		var member memberView
		status := doJSON(t, srv, http.MethodPost, "/api/trips/code/"+trip.InviteCode+"/join", bobToken, nil, &member)
		if status != http.StatusCreated {
			t.Fatalf("join returned %d", status)
		}
		if member.Role != "VIEWER" {
			t.Errorf("expected VIEWER on join, got %s", member.Role)
		}

		status = doJSON(t, srv, http.MethodGet, "/api/trips/"+trip.ID, bobToken, nil, nil)
		if status != http.StatusOK {
			t.Errorf("member read returned %d", status)
		}
	})

	t.Run("expense round trip", func(t *testing.T) {
		body := map[string]any{
			"description": "Dinner",
			"amount":      "55.00",
			"date":        "2025-06-11",
			"split_type":  "EQUAL",
			"participants": []map[string]string{
				{"user_id": bobID},
			},
		}
		// Bob records it, so Bob is the payer and sole participant.
		var created expenseWithSplits
		status := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/trips/%s/expenses", trip.ID), bobToken, body, &created)
		if status != http.StatusCreated {
			t.Fatalf("create expense returned %d", status)
		}
		if len(created.Splits) != 1 || created.Splits[0].Amount != "55.00" {
			t.Fatalf("unexpected splits: %+v", created.Splits)
		}

		var debt totalDebtResponse
		status = doJSON(t, srv, http.MethodGet, "/api/users/"+bobID+"/total-debt", bobToken, nil, &debt)
		if status != http.StatusOK {
			t.Fatalf("total debt returned %d", status)
		}
		if debt.Total != "55.00" {
			t.Errorf("total debt: got %s, want 55.00", debt.Total)
		}

		var settled splitView
		status = doJSON(t, srv, http.MethodPut, "/api/splits/"+created.Splits[0].ID+"/pay", bobToken, nil, &settled)
		if status != http.StatusOK {
			t.Fatalf("pay returned %d", status)
		}
		if !settled.Paid {
			t.Error("expected split to be paid")
		}

		status = doJSON(t, srv, http.MethodGet, "/api/users/"+bobID+"/total-debt", bobToken, nil, &debt)
		if status != http.StatusOK || debt.Total != "0.00" {
			t.Errorf("total debt after settling: status %d, total %s", status, debt.Total)
		}

		status = doJSON(t, srv, http.MethodDelete, "/api/splits/"+created.Splits[0].ID, bobToken, nil, nil)
		if status != http.StatusNoContent {
			t.Fatalf("delete split returned %d", status)
		}
		status = doJSON(t, srv, http.MethodGet, "/api/splits/"+created.Splits[0].ID, bobToken, nil, nil)
		if status != http.StatusNotFound {
			t.Errorf("expected 404 after split delete, got %d", status)
		}
	})
}
