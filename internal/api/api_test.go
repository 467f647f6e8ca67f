package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/onair-go/internal/config"
	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/services/device"
	"github.com/bbernstein/onair-go/internal/services/export"
	importservice "github.com/bbernstein/onair-go/internal/services/import"
	"github.com/bbernstein/onair-go/internal/services/pubsub"
	"github.com/bbernstein/onair-go/internal/services/rundown"
	"github.com/bbernstein/onair-go/internal/services/sequencer"
	"github.com/bbernstein/onair-go/internal/services/testutil"
	"github.com/bbernstein/onair-go/internal/services/translate"
	"github.com/bbernstein/onair-go/internal/telemetry"
	"github.com/bbernstein/onair-go/pkg/vmix"
)

type recordingTransport struct {
	mu      sync.Mutex
	targets []config.DeviceTarget
	cmds    []vmix.Command
}

func (t *recordingTransport) Send(_ context.Context, target config.DeviceTarget, cmd vmix.Command) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.targets = append(t.targets, target)
	t.cmds = append(t.cmds, cmd)
	return nil
}

func (t *recordingTransport) functions() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.cmds))
	for _, c := range t.cmds {
		out = append(out, c.Function)
	}
	return out
}

type testEnv struct {
	api       *API
	handler   http.Handler
	db        *testutil.TestDB
	transport *recordingTransport
}

var defaultTarget = config.DeviceTarget{Name: "Default Playout", Host: "127.0.0.1", Port: 8088}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tdb, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	ps := pubsub.New()
	metrics := telemetry.New()
	tr := &recordingTransport{}
	adapter := device.New(device.DefaultConfig(defaultTarget), tr, metrics, zerolog.Nop())
	t.Cleanup(adapter.Close)

	seq := sequencer.New(adapter,
		sequencer.WithTarget(defaultTarget),
		sequencer.WithPubSub(ps),
		sequencer.WithLogSink(tdb.LogRepo),
		sequencer.WithMetrics(metrics),
		sequencer.WithTickInterval(time.Hour),
	)
	t.Cleanup(seq.Close)

	a := New(Deps{
		Programs:       tdb.ProgramRepo,
		Rundowns:       tdb.RundownRepo,
		Stories:        tdb.StoryRepo,
		Assets:         tdb.AssetRepo,
		Playlists:      tdb.PlaylistRepo,
		Logs:           tdb.LogRepo,
		Settings:       tdb.SettingRepo,
		RundownService: rundown.NewService(tdb.RundownRepo, tdb.ProgramRepo, tdb.AssetRepo, ps, zerolog.Nop()),
		Translator:     translate.New(tdb.AssetRepo, tdb.ProgramRepo, defaultTarget),
		Exporter:       export.NewService(tdb.RundownRepo, tdb.ProgramRepo, tdb.StoryRepo, tdb.AssetRepo, "test"),
		Importer:       importservice.NewService(tdb.RundownRepo, tdb.ProgramRepo, tdb.StoryRepo, tdb.AssetRepo),
		Sequencer:      seq,
		Device:         adapter,
		PubSub:         ps,
		Metrics:        metrics,
		Logger:         zerolog.Nop(),
		Version:        "test",
	})

	return &testEnv{
		api:       a,
		handler:   a.Router(RouterConfig{CORSOrigins: []string{"http://localhost:3000"}}),
		db:        tdb,
		transport: tr,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	streams, ok := body["streams"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.0, streams["playout"])
	assert.Equal(t, 0.0, streams["rundowns"])
}

func TestPrograms_CRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/programs", map[string]any{"name": "Evening News", "defaultStartTime": "19:00:00"})
	require.Equal(t, http.StatusCreated, rec.Code)
	program := decode[models.Program](t, rec)
	assert.NotEmpty(t, program.ID)
	assert.Equal(t, "00:28:00", program.DefaultDuration)

	rec = env.do(t, http.MethodGet, "/api/programs/"+program.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	program.Name = "Late News"
	rec = env.do(t, http.MethodPut, "/api/programs/"+program.ID, program)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Late News", decode[models.Program](t, rec).Name)

	rec = env.do(t, http.MethodPut, "/api/programs/missing", program)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/programs/"+program.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/programs/"+program.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "not found")
}

func TestRundown_ItemsAndTimeline(t *testing.T) {
	env := newTestEnv(t)
	program := env.db.CreateProgram(t, "Evening", "19:00:00")

	rec := env.do(t, http.MethodPost, "/api/rundowns", map[string]any{"programId": program.ID, "date": "2024-05-01", "title": "Evening"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rd := decode[models.Rundown](t, rec)
	assert.Equal(t, "19:00:00", rd.StartTime)

	rec = env.do(t, http.MethodPost, "/api/rundowns/"+rd.ID+"/items", map[string]any{"type": "STORY", "slug": "LEAD"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/rundowns/"+rd.ID+"/items", map[string]any{"type": "LIVE", "slug": "OPEN", "index": 0})
	require.Equal(t, http.StatusCreated, rec.Code)
	rd = decode[models.Rundown](t, rec)
	require.Len(t, rd.Items, 2)
	assert.Equal(t, "OPEN", rd.Items[0].Slug)
	assert.Equal(t, "00:01:30", rd.EstimatedTotalDuration)

	rec = env.do(t, http.MethodPatch, "/api/rundowns/"+rd.ID+"/items/"+rd.Items[0].ID, map[string]any{"status": "ON_AIR"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/rundowns/"+rd.ID+"/timeline", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tl := decode[rundown.Timeline](t, rec)
	assert.Equal(t, "19:01:30", tl.EndTime)
	assert.Equal(t, "00:01:00", tl.Remaining)
	require.Len(t, tl.Entries, 2)
	assert.Equal(t, "19:00:30", tl.Entries[1].StartTime)
}

func TestRundown_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	rd := env.db.CreateRundown(t, env.db.CreateProgram(t, "Evening", "19:00:00"),
		models.RundownItem{ID: "s1", Type: models.ItemTypeStory, Slug: "A", EstimatedDuration: "00:01:00", Status: models.ItemStatusDraft})

	rec := env.do(t, http.MethodPatch, "/api/rundowns/"+rd.ID+"/items/s1", map[string]any{"status": "LIVE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/rundowns/"+rd.ID+"/items", map[string]any{"type": "BREAK", "slug": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/rundowns/"+rd.ID+"/items/nope", map[string]any{"slug": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/rundowns/"+rd.ID, map[string]any{"startTime": "7pm"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/rundowns", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendToPlayoutAndTake(t *testing.T) {
	env := newTestEnv(t)
	program := env.db.CreateProgram(t, "Evening", "19:00:00")
	asset := env.db.CreateAsset(t, "Harbour", "00:01:10")
	vt := rundown.NewItem(models.ItemTypeVT, "HARBOUR")
	rd := env.db.CreateRundown(t, program,
		vt,
		models.RundownItem{ID: "c1", Type: models.ItemTypeCommercial, Slug: "BREAK", EstimatedDuration: "00:02:00", Status: models.ItemStatusReady},
		models.RundownItem{ID: "v2", Type: models.ItemTypeVT, Slug: "GONE", EstimatedDuration: "00:00:30", Status: models.ItemStatusReady, LinkedAssetID: strPtr("missing")},
	)

	rec := env.do(t, http.MethodPut, "/api/rundowns/"+rd.ID+"/items/"+vt.ID+"/asset", map[string]any{"assetId": asset.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/rundowns/"+rd.ID+"/playout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode[translate.Result](t, rec)
	require.Len(t, preview.Items, 3)
	assert.Equal(t, "MISSING: GONE", preview.Items[2].Name)

	rec = env.do(t, http.MethodPost, "/api/rundowns/"+rd.ID+"/playout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[sequencer.Status](t, rec)
	assert.Equal(t, sequencer.StateIdle, st.State)
	require.NotNil(t, st.Next)
	assert.Equal(t, "Harbour", st.Next.Name)
	assert.Equal(t, "Evening", st.Target.Name)

	rec = env.do(t, http.MethodPost, "/api/playout/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	next := decode[map[string]json.RawMessage](t, rec)
	assert.Equal(t, "true", string(next["advanced"]))

	rec = env.do(t, http.MethodPost, "/api/playout/next", nil)
	assert.Equal(t, "false", string(decode[map[string]json.RawMessage](t, rec)["advanced"]))

	assert.Eventually(t, func() bool {
		f := env.transport.functions()
		return len(f) == 2 && f[0] == vmix.FunctionPreviewInput && f[1] == vmix.FunctionCut
	}, 2*time.Second, 10*time.Millisecond)

	rec = env.do(t, http.MethodPost, "/api/playout/stop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sequencer.StateIdle, decode[sequencer.Status](t, rec).State)

	rec = env.do(t, http.MethodGet, "/api/playout/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]models.PlayoutLog](t, rec)
	assert.NotEmpty(t, logs)
}

func TestPlayout_SaveAndLoad(t *testing.T) {
	env := newTestEnv(t)

	items := []models.PlayoutItem{
		{ID: "a", Name: "A", Type: models.SourceVideo, Duration: "00:00:20", Status: models.SourceOK},
		{ID: "b", Name: "B", Type: models.SourceVideo, Duration: "00:00:40", Status: models.SourceOK},
	}
	rec := env.do(t, http.MethodPost, "/api/playout/load", map[string]any{"name": "Manual", "items": items})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/playout/items", models.PlayoutItem{Name: "C", Type: models.SourceImage, Duration: "00:00:05"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/playout/save", map[string]any{"name": "Saved"})
	require.Equal(t, http.StatusCreated, rec.Code)
	saved := decode[models.Playlist](t, rec)
	assert.Len(t, saved.Items, 3)
	assert.Equal(t, "00:01:05", saved.TotalDuration)

	rec = env.do(t, http.MethodPost, "/api/playout/load", map[string]any{"playlistId": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/playout/load", map[string]any{"playlistId": saved.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[sequencer.Status](t, rec)
	assert.Equal(t, "Saved", st.Name)
	assert.Len(t, st.Queue, 3)

	rec = env.do(t, http.MethodGet, "/api/playlists", nil)
	assert.Len(t, decode[[]models.Playlist](t, rec), 1)
}

func TestPlayout_LoadRejectsOverlayChannelOutOfRange(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/playout/load", map[string]any{
		"name": "Inline",
		"items": []map[string]any{{
			"id": "v1", "name": "Clip", "type": "VIDEO", "duration": "00:00:10", "status": "OK",
			"graphicsEvents": []map[string]any{{"id": "g1", "startTime": 0, "vMixInput": "Title", "vMixOverlayChannel": 7}},
		}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/playout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[sequencer.Status](t, rec).Queue)
}

func TestPlayout_Target(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/playout/target", map[string]any{"name": "Backup", "ip": "10.0.0.2", "port": 8088})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10.0.0.2", env.api.Device.Target().Host)

	rec = env.do(t, http.MethodGet, "/api/device", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[struct {
		Target config.DeviceTarget `json:"target"`
	}](t, rec)
	assert.Equal(t, config.DeviceTarget{Name: "Backup", Host: "10.0.0.2", Port: 8088}, got.Target)

	rec = env.do(t, http.MethodPut, "/api/playout/target", map[string]any{"name": "Nothing"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeviceCommand(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/device/command", map[string]any{"command": "Input=1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/device/command", map[string]any{"ip": "10.9.9.9", "port": 9000, "command": "Function=OverlayInput1On&Input=Title"})
	require.Equal(t, http.StatusOK, rec.Code)

	env.transport.mu.Lock()
	defer env.transport.mu.Unlock()
	require.Len(t, env.transport.cmds, 1)
	assert.Equal(t, "OverlayInput1On", env.transport.cmds[0].Function)
	assert.Equal(t, "Title", env.transport.cmds[0].Input)
	assert.Equal(t, "10.9.9.9", env.transport.targets[0].Host)
}

func TestDevicePreviewAndActive(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/device/preview", map[string]any{"input": "Cam 1"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/device/active", map[string]any{"input": "Cam 2"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/device/active", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Eventually(t, func() bool { return len(env.transport.functions()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{vmix.FunctionPreviewInput, vmix.FunctionActiveInput}, env.transport.functions())
	env.transport.mu.Lock()
	defer env.transport.mu.Unlock()
	assert.Equal(t, "Cam 1", env.transport.cmds[0].Input)
	assert.Equal(t, "Cam 2", env.transport.cmds[1].Input)
}

func TestDeviceCommand_RejectsOverlayChannelOutOfRange(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/device/command", map[string]any{"command": "Function=OverlayInput5On&Input=Title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/device/command", map[string]any{"ip": "10.9.9.9", "command": "Function=OverlayInput0Off"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A valid command afterwards is the only one the switcher sees.
	rec = env.do(t, http.MethodPost, "/api/device/command", map[string]any{"command": "Function=Cut"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Cut"}, env.transport.functions())
}

func TestStoryDelete_UnlinksRundownItems(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/stories", map[string]any{"title": "Fire"})
	require.Equal(t, http.StatusCreated, rec.Code)
	story := decode[models.Story](t, rec)
	assert.Equal(t, models.StoryStatusDraft, story.Status)

	rd := env.db.CreateRundown(t, env.db.CreateProgram(t, "Evening", "19:00:00"),
		models.RundownItem{ID: "s1", Type: models.ItemTypeStory, Slug: "FIRE", EstimatedDuration: "00:01:00", Status: models.ItemStatusDraft, StoryID: strPtr(story.ID)})

	rec = env.do(t, http.MethodDelete, "/api/stories/"+story.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/rundowns/"+rd.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[models.Rundown](t, rec).Items[0].StoryID)
}

func TestAssets_Search(t *testing.T) {
	env := newTestEnv(t)
	env.db.CreateAsset(t, "harbour fire", "00:01:00")
	env.db.CreateAsset(t, "election night", "00:02:00")

	rec := env.do(t, http.MethodGet, "/api/assets?q=fire", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assets := decode[[]models.Asset](t, rec)
	require.Len(t, assets, 1)
	assert.Equal(t, "harbour fire", assets[0].Name)

	rec = env.do(t, http.MethodPost, "/api/assets", map[string]any{"name": "bad", "type": "HOLOGRAM"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings_ValidateDefaultTarget(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/settings/vmix_default_target", map[string]any{"value": "not-an-address"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/settings/vmix_default_target", map[string]any{"value": "10.0.0.5:8088"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/settings", nil)
	settings := decode[[]models.Setting](t, rec)
	require.Len(t, settings, 1)
	assert.Equal(t, "10.0.0.5:8088", settings[0].Value)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/programs", nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "onair_api_requests_total")
	assert.Contains(t, body, `endpoint="/api/programs"`)
	assert.Contains(t, body, "go_goroutines")
}

func TestPlayoutSocket_StreamsStatus(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/playout", nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first struct {
		Type string           `json:"type"`
		Data sequencer.Status `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, string(pubsub.TopicPlayoutStatus), first.Type)
	assert.Equal(t, sequencer.StateIdle, first.Data.State)

	require.Eventually(t, func() bool { return env.api.PubSub.SubscriberCount(pubsub.TopicPlayoutStatus) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, env.api.Sequencer.Load("Live", []models.PlayoutItem{
		{ID: "a", Name: "A", Type: models.SourceVideo, Duration: "00:00:10", Status: models.SourceOK},
	}))

	var update struct {
		Data sequencer.Status `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, "Live", update.Data.Name)
	require.NotNil(t, update.Data.Next)
	assert.Equal(t, "a", update.Data.Next.ID)
}

func TestRundown_ExportImport(t *testing.T) {
	env := newTestEnv(t)
	rd := env.db.CreateRundown(t, env.db.CreateProgram(t, "Evening", "19:00:00"),
		models.RundownItem{ID: "s1", Type: models.ItemTypeStory, Slug: "LEAD", EstimatedDuration: "00:01:00", Status: models.ItemStatusReady})

	rec := env.do(t, http.MethodGet, "/api/rundowns/"+rd.ID+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "rundown-"+rd.ID+".json")
	doc := json.RawMessage(rec.Body.Bytes())

	rec = env.do(t, http.MethodPost, "/api/rundowns/import", map[string]any{
		"document": doc,
		"options":  map[string]any{"mode": "CREATE", "title": "Evening (copy)"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[importResponse](t, rec)
	assert.NotEqual(t, rd.ID, resp.RundownID)
	assert.Equal(t, 1, resp.Stats.ItemsCreated)
	assert.Empty(t, resp.Warnings)

	rec = env.do(t, http.MethodGet, "/api/rundowns/"+resp.RundownID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Evening (copy)", decode[models.Rundown](t, rec).Title)

	rec = env.do(t, http.MethodPost, "/api/rundowns/import", map[string]any{
		"document": map[string]any{"version": "9.9"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/rundowns/missing/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func strPtr(s string) *string { return &s }
