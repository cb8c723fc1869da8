package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/testutil"
	"github.com/Hi-chem22/AFRAN-2025/internal/modules/importer"
	"github.com/Hi-chem22/AFRAN-2025/internal/services"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	chairs := services.NewChairpersonService(log, set.Chairperson, nil)
	rec := importer.NewReconciler(log, importer.Store{
		Sessions:    set.Session,
		Subsessions: set.Subsession,
		Speakers:    set.Speaker,
		Rooms:       set.Room,
		Days:        set.Day,
	}, chairs)
	sessions := services.NewSessionService(db, log, set, chairs, rec, nil)

	sh := NewSessionHandler(log, sessions, 1<<20)
	ch := NewChairpersonHandler(log, chairs)
	vh := NewVenueHandler(log, services.NewVenueService(log, set.Room, set.Day, sessions))
	subh := NewSubsessionHandler(log, services.NewSubsessionService(db, log, set, sessions))

	r := gin.New()
	api := r.Group("/api")
	api.POST("/sessions", sh.Create)
	api.GET("/sessions", sh.List)
	api.GET("/sessions/byDayAndRoom", sh.ByDayAndRoom)
	api.POST("/sessions/import", sh.Import)
	api.GET("/sessions/:id", sh.Get)
	api.PUT("/sessions/:id", sh.Update)
	api.GET("/chairpersons", ch.List)
	api.POST("/rooms", vh.CreateRoom)
	api.POST("/subsessions", subh.Create)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: err=%v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: err=%v", rec.Body.String(), err)
	}
	return out
}

// readSessionEverywhere returns the session as served by get-one, get-many and
// byDayAndRoom, failing unless all three agree.
func readSessionEverywhere(t *testing.T, r *gin.Engine, id string) map[string]any {
	t.Helper()
	getRec := doJSON(t, r, http.MethodGet, "/api/sessions/"+id, nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get session: status=%d", getRec.Code)
	}
	got := decode[map[string]any](t, getRec)

	listRec := doJSON(t, r, http.MethodGet, "/api/sessions", nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("list sessions: status=%d", listRec.Code)
	}
	many := decode[[]map[string]any](t, listRec)
	if len(many) != 1 {
		t.Fatalf("expected 1 session, got %d", len(many))
	}

	byRec := doJSON(t, r, http.MethodGet, "/api/sessions/byDayAndRoom?day=1&room=Hall%20A", nil)
	if byRec.Code != http.StatusOK {
		t.Fatalf("byDayAndRoom: status=%d body=%s", byRec.Code, byRec.Body.String())
	}
	filtered := decode[[]map[string]any](t, byRec)
	if len(filtered) != 1 {
		t.Fatalf("byDayAndRoom: expected 1 session, got %d", len(filtered))
	}

	if !reflect.DeepEqual(got, many[0]) {
		t.Fatalf("get-one and get-many differ:\none=%v\nmany=%v", got, many[0])
	}
	if !reflect.DeepEqual(got, filtered[0]) {
		t.Fatalf("get-one and byDayAndRoom differ:\none=%v\nfiltered=%v", got, filtered[0])
	}
	return got
}

func TestSessionReadsShareOneShape(t *testing.T) {
	r := newTestEngine(t)

	roomRec := doJSON(t, r, http.MethodPost, "/api/rooms", map[string]any{"name": "Hall A"})
	if roomRec.Code != http.StatusCreated {
		t.Fatalf("create room: status=%d body=%s", roomRec.Code, roomRec.Body.String())
	}
	room := decode[map[string]any](t, roomRec)

	created := doJSON(t, r, http.MethodPost, "/api/sessions", map[string]any{
		"title":        "Opening",
		"roomId":       room["_id"],
		"day":          1,
		"startTime":    "09:00",
		"endTime":      "10:30",
		"chairpersons": "Dr A, Dr B",
		"subsessionTexts": []map[string]any{{
			"title":     "Welcome",
			"startTime": "09:00",
			"endTime":   "09:15",
			"subsubsessions": []map[string]any{
				{"title": "Address", "startTime": "09:00", "endTime": "09:05"},
			},
		}},
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("create session: status=%d body=%s", created.Code, created.Body.String())
	}
	posted := decode[map[string]any](t, created)
	id := posted["_id"].(string)

	got := readSessionEverywhere(t, r, id)
	if !reflect.DeepEqual(got, posted) {
		t.Fatalf("create response and get-one differ:\ncreate=%v\nget=%v", posted, got)
	}
	if got["duration"] != "1h 30m" {
		t.Fatalf("unexpected duration %v", got["duration"])
	}
	if rm, ok := got["roomId"].(map[string]any); !ok || rm["name"] != "Hall A" {
		t.Fatalf("room not embedded: %v", got["roomId"])
	}

	subRec := doJSON(t, r, http.MethodPost, "/api/subsessions", map[string]any{
		"sessionId": id,
		"title":     "Keynote",
		"startTime": "09:15",
		"endTime":   "10:00",
	})
	if subRec.Code != http.StatusCreated {
		t.Fatalf("create subsession: status=%d body=%s", subRec.Code, subRec.Body.String())
	}

	updated := doJSON(t, r, http.MethodPut, "/api/sessions/"+id, map[string]any{"description": "Opening remarks"})
	if updated.Code != http.StatusOK {
		t.Fatalf("update session: status=%d body=%s", updated.Code, updated.Body.String())
	}
	put := decode[map[string]any](t, updated)

	got = readSessionEverywhere(t, r, id)
	if !reflect.DeepEqual(got, put) {
		t.Fatalf("update response and get-one differ:\nupdate=%v\nget=%v", put, got)
	}
	texts, _ := got["subsessionTexts"].([]any)
	refs, _ := got["subsessions"].([]any)
	if len(texts) == 0 || len(refs) != 1 {
		t.Fatalf("expected text and ref subsessions: texts=%v refs=%v", texts, refs)
	}
}

func TestChairpersonTextRoundTrip(t *testing.T) {
	r := newTestEngine(t)

	created := doJSON(t, r, http.MethodPost, "/api/sessions", map[string]any{
		"title":        "Nephrology",
		"startTime":    "14:00",
		"endTime":      "15:00",
		"chairpersons": "Dr A, Dr B",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("create session: status=%d body=%s", created.Code, created.Body.String())
	}
	session := decode[map[string]any](t, created)
	id := session["_id"].(string)

	updated := doJSON(t, r, http.MethodPut, "/api/sessions/"+id, map[string]any{
		"chairpersons": session["chairpersons"],
	})
	if updated.Code != http.StatusOK {
		t.Fatalf("update session: status=%d body=%s", updated.Code, updated.Body.String())
	}
	after := decode[map[string]any](t, updated)
	if after["chairpersons"] != session["chairpersons"] {
		t.Fatalf("chairpersons text changed: %v -> %v", session["chairpersons"], after["chairpersons"])
	}
	if refs, _ := after["chairpersonRefs"].([]any); len(refs) != 2 {
		t.Fatalf("expected 2 chairperson refs, got %v", after["chairpersonRefs"])
	}

	chairs := decode[[]map[string]any](t, doJSON(t, r, http.MethodGet, "/api/chairpersons", nil))
	if len(chairs) != 2 {
		t.Fatalf("expected 2 chairpersons after round trip, got %d", len(chairs))
	}
}

func TestGetSessionErrors(t *testing.T) {
	r := newTestEngine(t)

	cases := []struct {
		path string
		want int
		code string
	}{
		{"/api/sessions/not-a-uuid", http.StatusBadRequest, "invalid_id"},
		{"/api/sessions/00000000-0000-0000-0000-000000000001", http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		rec := doJSON(t, r, http.MethodGet, tc.path, nil)
		if rec.Code != tc.want {
			t.Fatalf("%s: status=%d want=%d", tc.path, rec.Code, tc.want)
		}
		env := decode[map[string]map[string]any](t, rec)
		if env["error"]["code"] != tc.code {
			t.Fatalf("%s: code=%v want=%s", tc.path, env["error"]["code"], tc.code)
		}
	}
}

func TestCreateSessionValidation(t *testing.T) {
	r := newTestEngine(t)
	rec := doJSON(t, r, http.MethodPost, "/api/sessions", map[string]any{"title": "No times"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400 body=%s", rec.Code, rec.Body.String())
	}
}

func upload(t *testing.T, r *gin.Engine, path string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if content != nil {
		fw, err := mw.CreateFormFile(uploadField, "program.xlsx")
		if err != nil {
			t.Fatalf("form file: err=%v", err)
		}
		_, _ = fw.Write(content)
	}
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestImportSessionsUpload(t *testing.T) {
	r := newTestEngine(t)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", importer.SheetSessions); err != nil {
		t.Fatalf("rename sheet: err=%v", err)
	}
	rows := [][]any{
		{importer.ColID, importer.ColSessionTitle, importer.ColRoom, importer.ColDay, importer.ColStartTime, importer.ColEndTime},
		{"S1", "Opening", "Hall A", 1, "09:00", "10:00"},
		{"S2", "Closing", "Hall A", 2, "17:00", "17:30"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(importer.SheetSessions, cell, &row); err != nil {
			t.Fatalf("set row: err=%v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: err=%v", err)
	}

	rec := upload(t, r, "/api/sessions/import", buf.Bytes())
	if rec.Code != http.StatusOK {
		t.Fatalf("import: status=%d body=%s", rec.Code, rec.Body.String())
	}
	res := decode[importer.Result](t, rec)
	if res.Sessions != 2 || res.Errors != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	many := decode[[]map[string]any](t, doJSON(t, r, http.MethodGet, "/api/sessions", nil))
	if len(many) != 2 {
		t.Fatalf("expected 2 sessions after import, got %d", len(many))
	}
}

func TestImportRequiresFile(t *testing.T) {
	r := newTestEngine(t)
	rec := upload(t, r, "/api/sessions/import", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rec.Code)
	}
}
