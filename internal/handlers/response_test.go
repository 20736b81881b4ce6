package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/forumhive/forumhive-backend/internal/platform/apierr"
)

func testContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/", nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	// A wrapped apierr keeps its status and code.
	c, w := testContext(t, "")
	RespondServiceError(c, fmt.Errorf("update status: %w", apierr.NotFound("not_found", fmt.Errorf("match missing"))))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Error.Code != "not_found" {
		t.Fatalf("code = %q, want not_found", env.Error.Code)
	}

	// Anything else is an internal failure.
	c, w = testContext(t, "")
	RespondServiceError(c, fmt.Errorf("db down"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Error.Code != "internal" {
		t.Fatalf("code = %q, want internal", env.Error.Code)
	}
}

func TestBindOptionalJSON(t *testing.T) {
	var body struct {
		Force bool `json:"force"`
	}

	// Absent body keeps the zero value.
	c, w := testContext(t, "")
	if !bindOptionalJSON(c, &body) {
		t.Fatalf("empty body must bind cleanly")
	}
	if body.Force || w.Code == http.StatusBadRequest {
		t.Fatalf("empty body changed state: force=%v status=%d", body.Force, w.Code)
	}

	// A present body is parsed.
	c, _ = testContext(t, `{"force": true}`)
	if !bindOptionalJSON(c, &body) {
		t.Fatalf("valid body must bind")
	}
	if !body.Force {
		t.Fatalf("force not decoded")
	}

	// Malformed JSON is rejected, not silently ignored.
	c, w = testContext(t, `{"force": tru`)
	if bindOptionalJSON(c, &body) {
		t.Fatalf("malformed body must fail the bind")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
