package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/manumurali010/gst-sub002/internal/config"
	"github.com/manumurali010/gst-sub002/internal/model"
	"github.com/manumurali010/gst-sub002/internal/store"
)

func newTestHandler(t *testing.T) (*Handler, *gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "gstlens.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(st, &config.AppConfig{})
	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)
	return h, r, st
}

func seedPendingRequest(h *Handler) model.AmbiguityRequest {
	req := model.AmbiguityRequest{
		ID:       "req-001",
		ScopeID:  "liability_mismatch/detail",
		Key:      model.KeyTaxableValue,
		CacheKey: "liability_mismatch/detail:taxable_value",
		Candidates: []model.CandidateOption{
			{Label: "Taxable Value", NormalizedText: "taxable value", OriginalText: "Taxable Value", Category: model.CategoryRecommended},
			{Label: "Total Taxable Value", NormalizedText: "total taxable value", OriginalText: "Total Taxable Value", Category: model.CategoryOther},
		},
	}
	h.pending.put(req, "hash-a")
	return req
}

func TestListAmbiguities(t *testing.T) {
	h, r, _ := newTestHandler(t)
	seedPendingRequest(h)

	req := httptest.NewRequest(http.MethodGet, "/api/ambiguities", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Ambiguities []model.AmbiguityRequest `json:"ambiguities"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Ambiguities) != 1 || resp.Ambiguities[0].ID != "req-001" {
		t.Fatalf("ambiguities=%+v, want the one seeded request", resp.Ambiguities)
	}
	if len(resp.Ambiguities[0].Candidates) != 2 {
		t.Fatalf("candidates=%d, want 2", len(resp.Ambiguities[0].Candidates))
	}
}

func TestAnswerAmbiguityPersistsSelection(t *testing.T) {
	h, r, st := newTestHandler(t)
	pending := seedPendingRequest(h)

	body, _ := json.Marshal(AnswerRequest{SelectedNormalizedHeaderText: "taxable value"})
	req := httptest.NewRequest(http.MethodPost, "/api/ambiguities/"+pending.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	// 落盘后下一次扫描可以直接预载命中
	saved, err := st.LoadResolutions("hash-a")
	if err != nil {
		t.Fatalf("load resolutions: %v", err)
	}
	if saved[pending.CacheKey] != "taxable value" {
		t.Fatalf("persisted=%q, want selected header text", saved[pending.CacheKey])
	}

	// 已回答的请求从挂起表消失
	if _, ok := h.pending.get(pending.ID); ok {
		t.Fatalf("answered request must be removed from pending store")
	}
}

func TestAnswerAmbiguityRejectsUnknownCandidate(t *testing.T) {
	h, r, st := newTestHandler(t)
	pending := seedPendingRequest(h)

	body, _ := json.Marshal(AnswerRequest{SelectedNormalizedHeaderText: "igst amount"})
	req := httptest.NewRequest(http.MethodPost, "/api/ambiguities/"+pending.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	saved, err := st.LoadResolutions("hash-a")
	if err != nil {
		t.Fatalf("load resolutions: %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("rejected selection must not be persisted, got %v", saved)
	}
	if _, ok := h.pending.get(pending.ID); !ok {
		t.Fatalf("rejected selection must keep the request pending")
	}
}

func TestAnswerAmbiguityDecline(t *testing.T) {
	h, r, st := newTestHandler(t)
	pending := seedPendingRequest(h)

	body, _ := json.Marshal(AnswerRequest{Decline: true})
	req := httptest.NewRequest(http.MethodPost, "/api/ambiguities/"+pending.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	saved, err := st.LoadResolutions("hash-a")
	if err != nil {
		t.Fatalf("load resolutions: %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("declined request must not write a resolution, got %v", saved)
	}
	if _, ok := h.pending.get(pending.ID); ok {
		t.Fatalf("declined request must be removed from pending store")
	}
}

func TestPendingStoreSameAmbiguityAcrossFiles(t *testing.T) {
	s := newPendingStore()

	reqA := model.AmbiguityRequest{ID: "req-a", CacheKey: "outward_netting:note_value"}
	reqB := model.AmbiguityRequest{ID: "req-b", CacheKey: "outward_netting:note_value"}

	// 同一逻辑歧义来自两个不同文件：两个请求都保留
	s.put(reqA, "hash-a")
	s.put(reqB, "hash-b")

	if got := s.list(); len(got) != 2 {
		t.Fatalf("pending=%d, want 2 (one per file)", len(got))
	}

	// 同一文件重复登记仍去重
	s.put(model.AmbiguityRequest{ID: "req-a2", CacheKey: "outward_netting:note_value"}, "hash-a")
	if got := s.list(); len(got) != 2 {
		t.Fatalf("pending=%d after duplicate put, want 2", len(got))
	}

	// 回答一个文件的请求不影响另一个文件的
	s.remove("req-a")
	got := s.list()
	if len(got) != 1 || got[0].ID != "req-b" {
		t.Fatalf("pending=%+v, want only the other file's request", got)
	}
	// hash-a 的槽位已释放，可以重新登记
	s.put(model.AmbiguityRequest{ID: "req-a3", CacheKey: "outward_netting:note_value"}, "hash-a")
	if got := s.list(); len(got) != 2 {
		t.Fatalf("pending=%d after re-register, want 2", len(got))
	}
}

func TestAnswerAmbiguityUnknownID(t *testing.T) {
	_, r, _ := newTestHandler(t)

	body, _ := json.Marshal(AnswerRequest{SelectedNormalizedHeaderText: "taxable value"})
	req := httptest.NewRequest(http.MethodPost, "/api/ambiguities/no-such-id", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
}
