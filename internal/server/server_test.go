package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"serial_dashboard/internal/config"
	"serial_dashboard/internal/keyword"
	"serial_dashboard/internal/model"
	"serial_dashboard/internal/stats"
	"serial_dashboard/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *store.Store, string) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "serial.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	pid, err := st.CreateProject(context.Background(), "테스트 연재")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	dict := keyword.Default()
	collector := stats.NewCollector(st, dict, 30)
	router := SetupRouter(NewHandler(st, collector, dict), &config.Config{})
	return router, st, pid
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (int, APIResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, resp
}

func TestGetCompletionReturnsPlatformViews(t *testing.T) {
	router, st, pid := newTestRouter(t)
	ctx := context.Background()

	// 5000 non-space characters on munpia meets the minimum exactly.
	if _, err := st.PutEpisode(ctx, model.Episode{
		ProjectID: pid, Number: 1, Platform: "munpia",
		Content: strings.Repeat("가", 5000),
	}); err != nil {
		t.Fatalf("seed episode: %v", err)
	}

	code, resp := doJSON(t, router, http.MethodGet, "/api/projects/"+pid+"/completion", "")
	if code != http.StatusOK || !resp.Success {
		t.Fatalf("unexpected response: %d %+v", code, resp)
	}
	views, ok := resp.Data.([]any)
	if !ok || len(views) != 1 {
		t.Fatalf("expected one completion view, got %+v", resp.Data)
	}
	view := views[0].(map[string]any)
	if view["completionRate"].(float64) != 100.0 || view["completionStatus"] != "success" {
		t.Fatalf("5000/5000 must be 100.0 success, got %+v", view)
	}
}

func TestPutEpisodeContentRecomputesAndNotifies(t *testing.T) {
	router, st, pid := newTestRouter(t)
	ctx := context.Background()

	if _, err := st.PutEpisode(ctx, model.Episode{ProjectID: pid, Number: 1, Content: "초고"}); err != nil {
		t.Fatalf("seed episode: %v", err)
	}

	code, resp := doJSON(t, router, http.MethodPut,
		"/api/projects/"+pid+"/episodes/1/content",
		`{"content":"퇴고를 마친 본문"}`)
	if code != http.StatusOK || !resp.Success {
		t.Fatalf("unexpected response: %d %+v", code, resp)
	}
	ep := resp.Data.(map[string]any)
	want := float64(model.CountContent("퇴고를 마친 본문"))
	if ep["wordCount"].(float64) != want {
		t.Fatalf("word count must be recomputed server-side, got %v want %v", ep["wordCount"], want)
	}

	code, _ = doJSON(t, router, http.MethodPut,
		"/api/projects/"+pid+"/episodes/notanumber/content", `{"content":"x"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("non-integer episode number must be rejected, got %d", code)
	}
}

func TestGetStructureReportsActShares(t *testing.T) {
	router, st, pid := newTestRouter(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		act := model.ActIntroduction
		if i > 1 {
			act = model.ActRising
		}
		if _, err := st.PutEpisode(ctx, model.Episode{ProjectID: pid, Number: i, Act: act, Content: "본문"}); err != nil {
			t.Fatalf("seed episode %d: %v", i, err)
		}
	}

	code, resp := doJSON(t, router, http.MethodGet, "/api/projects/"+pid+"/structure", "")
	if code != http.StatusOK || !resp.Success {
		t.Fatalf("unexpected response: %d %+v", code, resp)
	}
	report := resp.Data.(map[string]any)
	if report["totalEpisodes"].(float64) != 4 {
		t.Fatalf("expected 4 episodes in the report, got %+v", report)
	}
	if len(report["shares"].([]any)) != 5 {
		t.Fatalf("report must cover all five acts, got %+v", report["shares"])
	}
}

func TestGetDashboardRefreshesOnFirstRequest(t *testing.T) {
	router, _, pid := newTestRouter(t)

	code, resp := doJSON(t, router, http.MethodGet, "/api/projects/"+pid+"/dashboard", "")
	if code != http.StatusOK || !resp.Success {
		t.Fatalf("unexpected response: %d %+v", code, resp)
	}
	snap := resp.Data.(map[string]any)
	if snap["projectId"] != pid {
		t.Fatalf("snapshot must be project-scoped, got %+v", snap)
	}
	summary := snap["summary"].(map[string]any)["summary"].(map[string]any)
	if _, ok := summary["nextActions"]; !ok {
		t.Fatalf("summary must carry next actions, got %+v", summary)
	}
}
