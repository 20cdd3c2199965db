package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServer runs a handler and returns a client pointed at it.
func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestCreate(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("request = %s %s, want POST /tasks", r.Method, r.URL.Path)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if payload["title"] != "Buy milk" {
			t.Errorf("title = %v, want %v", payload["title"], "Buy milk")
		}
		if _, ok := payload["description"]; ok {
			t.Error("nil description should be omitted from the payload")
		}

		writeJSON(w, http.StatusCreated, `{"id": 1, "title": "Buy milk", "completed": false, "priority": "Moderate", "status": "Not Started"}`)
	})

	task, err := c.Create(context.Background(), CreateTaskInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.ID != 1 {
		t.Errorf("task.ID = %v, want 1", task.ID)
	}
	if task.Title != "Buy milk" {
		t.Errorf("task.Title = %v, want %v", task.Title, "Buy milk")
	}
}

func TestCreateValidationError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"detail": "Title cannot be empty"}`)
	})

	_, err := c.Create(context.Background(), CreateTaskInput{Title: "  "})
	if err == nil {
		t.Fatal("Create() expected error, got nil")
	}
	if !IsValidation(err) {
		t.Errorf("IsValidation(%v) = false, want true", err)
	}
	if IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = true, want false", err)
	}

	if !strings.Contains(err.Error(), "Title cannot be empty") {
		t.Errorf("error = %v, want to contain detail message", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("error = %#v, want *APIError with status 400", err)
	}
}

func TestGetNotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"detail": "Task not found"}`)
	})

	_, err := c.Get(context.Background(), 999)
	if err == nil {
		t.Fatal("Get() expected error, got nil")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestListQueryParams(t *testing.T) {
	tests := []struct {
		name      string
		opts      ListOptions
		wantQuery string
	}{
		{
			name:      "defaults omit params",
			opts:      ListOptions{},
			wantQuery: "",
		},
		{
			name:      "explicit window",
			opts:      ListOptions{Limit: 25, Skip: 50},
			wantQuery: "limit=25&skip=50",
		},
		{
			name:      "completed filter",
			opts:      ListOptions{Completed: boolPtr(true)},
			wantQuery: "completed=true",
		},
		{
			name:      "explicit incomplete filter",
			opts:      ListOptions{Completed: boolPtr(false)},
			wantQuery: "completed=false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				writeJSON(w, http.StatusOK, `[]`)
			})

			tasks, err := c.List(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if gotQuery != tt.wantQuery {
				t.Errorf("query = %q, want %q", gotQuery, tt.wantQuery)
			}
			if len(tasks) != 0 {
				t.Errorf("len(tasks) = %v, want 0", len(tasks))
			}
		})
	}
}

func TestListDecodesBareArray(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id": 2, "title": "second"}, {"id": 1, "title": "first"}]`)
	})

	tasks, err := c.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %v, want 2", len(tasks))
	}
	if tasks[0].ID != 2 || tasks[1].ID != 1 {
		t.Errorf("task order = [%d, %d], want [2, 1]", tasks[0].ID, tasks[1].ID)
	}
}

func TestUpdateSendsOnlyProvidedFields(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/tasks/7" {
			t.Errorf("request = %s %s, want PUT /tasks/7", r.Method, r.URL.Path)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if len(payload) != 1 {
			t.Errorf("payload keys = %v, want only status", payload)
		}
		if payload["status"] != "In Progress" {
			t.Errorf("status = %v, want %v", payload["status"], "In Progress")
		}

		writeJSON(w, http.StatusOK, `{"id": 7, "title": "task", "status": "In Progress"}`)
	})

	status := "In Progress"
	task, err := c.Update(context.Background(), 7, UpdateTaskInput{Status: &status})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if task.Status != "In Progress" {
		t.Errorf("task.Status = %v, want %v", task.Status, "In Progress")
	}
}

func TestComplete(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks/3/complete" {
			t.Errorf("request = %s %s, want POST /tasks/3/complete", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, `{"id": 3, "title": "task", "completed": true, "status": "Completed"}`)
	})

	task, err := c.Complete(context.Background(), 3)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !task.Completed {
		t.Error("task.Completed = false, want true")
	}
}

func TestDelete(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/tasks/4" {
			t.Errorf("request = %s %s, want DELETE /tasks/4", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, `{"message": "Task deleted successfully"}`)
	})

	if err := c.Delete(context.Background(), 4); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	c := New(srv.URL)

	_, err := c.Get(context.Background(), 1)
	if err == nil {
		t.Fatal("Get() expected error, got nil")
	}
	if IsNotFound(err) || IsValidation(err) {
		t.Errorf("transport error classified as API error: %v", err)
	}
}

func boolPtr(b bool) *bool { return &b }
