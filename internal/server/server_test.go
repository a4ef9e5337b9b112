package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kokorolabs/soulscope/pkg/masterdata"
	"github.com/kokorolabs/soulscope/pkg/zodiac"
)

func testServer(t *testing.T, mapping string) *httptest.Server {
	t.Helper()
	store := masterdata.NewStore(masterdata.Config{
		Ranges:  "testdata/dragon_head_ranges.json",
		Mapping: mapping,
	})
	ts := httptest.NewServer(New(store).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postDiagnose(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/diagnose", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestDiagnose_KnownCases(t *testing.T) {
	ts := testServer(t, "testdata/zodiac_theme_map.json")

	cases := []struct {
		birthdate string
		want      zodiac.Diagnosis
	}{
		{"1970-07-24", zodiac.Diagnosis{HeadZodiac: "魚座", TailZodiac: "乙女座", SoulTheme: "4-3", ReverseTheme: "2-2"}},
		{"1965-03-18", zodiac.Diagnosis{HeadZodiac: "双子座", TailZodiac: "射手座", SoulTheme: "3-1", ReverseTheme: "1-3"}},
		{"1940-04-07", zodiac.Diagnosis{HeadZodiac: "天秤座", TailZodiac: "牡羊座", SoulTheme: "3-2", ReverseTheme: "1-1"}},
		{"1966-04-29", zodiac.Diagnosis{HeadZodiac: "牡牛座", TailZodiac: "蠍座", SoulTheme: "2-1", ReverseTheme: "4-2"}},
		{"1971-01-11", zodiac.Diagnosis{HeadZodiac: "水瓶座", TailZodiac: "獅子座", SoulTheme: "3-3", ReverseTheme: "1-2"}},
	}

	for _, c := range cases {
		resp := postDiagnose(t, ts, `{"birthdate":"`+c.birthdate+`"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", c.birthdate, resp.StatusCode)
		}
		var got zodiac.Diagnosis
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("%s: decode failed: %v", c.birthdate, err)
		}
		if got != c.want {
			t.Fatalf("%s: expected %+v, got %+v", c.birthdate, c.want, got)
		}
	}
}

func TestDiagnose_AcceptsAlternateFormats(t *testing.T) {
	ts := testServer(t, "testdata/zodiac_theme_map.json")

	for _, birthdate := range []string{"1970/7/24", "19700724", "1970年7月24日"} {
		resp := postDiagnose(t, ts, `{"birthdate":"`+birthdate+`"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", birthdate, resp.StatusCode)
		}
	}
}

func TestDiagnose_InvalidFormat(t *testing.T) {
	ts := testServer(t, "testdata/zodiac_theme_map.json")

	resp := postDiagnose(t, ts, `{"birthdate":"not-a-date"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body.Detail, "1970-07-24") {
		t.Fatalf("detail should list accepted format examples, got %q", body.Detail)
	}
}

func TestDiagnose_OutOfRange(t *testing.T) {
	ts := testServer(t, "testdata/zodiac_theme_map.json")

	resp := postDiagnose(t, ts, `{"birthdate":"1900-01-01"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestDiagnose_MappingIncomplete(t *testing.T) {
	ts := testServer(t, "testdata/zodiac_theme_map_missing.json")

	resp := postDiagnose(t, ts, `{"birthdate":"1970-07-24"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body.Detail, "魚座") {
		t.Fatalf("detail should name the missing zodiac, got %q", body.Detail)
	}
}

func TestDiagnose_DataUnavailableHidesPath(t *testing.T) {
	ts := testServer(t, "testdata/no_such_mapping.json")

	resp := postDiagnose(t, ts, `{"birthdate":"1970-07-24"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(body.Detail, "testdata") {
		t.Fatalf("detail must not leak internal file paths, got %q", body.Detail)
	}
}

func TestDiagnose_MalformedBody(t *testing.T) {
	ts := testServer(t, "testdata/zodiac_theme_map.json")

	resp := postDiagnose(t, ts, `{"birthdate":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := testServer(t, "testdata/zodiac_theme_map.json")

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		OK        bool   `json:"ok"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.OK || body.Timestamp == "" {
		t.Fatalf("unexpected health body: %+v", body)
	}
}
