package submit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func testForms(endpoint string) map[Kind]FormSpec {
	fields := func(names ...string) map[string]string {
		m := make(map[string]string, len(names))
		for i, n := range names {
			m[n] = "entry." + string(rune('a'+i))
		}
		return m
	}
	return map[Kind]FormSpec{
		KindLoot:       {URL: endpoint, Fields: fields("drop_name", "drop_rarity", "drop_count", "hunt_tier", "threat", "behemoth", "hunt_type", "patch", "user")},
		KindBounty:     {URL: endpoint, Fields: fields("rarity", "patch", "user")},
		KindEscalation: {URL: endpoint, Fields: fields("token", "token_count", "tier", "patch", "user")},
	}
}

func TestFormsGatewaySubmit(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		got = r.PostForm
	}))
	defer srv.Close()

	g := NewFormsGateway(testForms(srv.URL))
	rec := BountyRecord("Silver", "1.5.3", "ABCDEF")
	if err := g.Submit(KindBounty, rec); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if got.Get("draftResponse") != "[]" || got.Get("pageHistory") != "0" {
		t.Errorf("form framing fields missing: %v", got)
	}
	if got.Get("entry.a") != "Silver" {
		t.Errorf("rarity entry = %q, want Silver", got.Get("entry.a"))
	}
}

func TestFormsGatewayRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewFormsGateway(testForms(srv.URL))
	if err := g.Submit(KindBounty, BountyRecord("Gold", "1.5.3", "U")); err == nil {
		t.Fatal("want error for 502 response")
	}
}

func TestFormsGatewayMissingField(t *testing.T) {
	g := NewFormsGateway(testForms("http://127.0.0.1:0"))
	rec := Record{"rarity": "Bronze"}
	if err := g.Submit(KindBounty, rec); err == nil {
		t.Fatal("want error for record missing mapped fields")
	}
}

type flakyGateway struct {
	failures int
	calls    int
}

func (g *flakyGateway) Submit(kind Kind, rec Record) error {
	g.calls++
	if g.calls <= g.failures {
		return errors.New("transient")
	}
	return nil
}

func TestWithRetry(t *testing.T) {
	g := &flakyGateway{failures: 1}
	if err := WithRetry(g, KindLoot, Record{}); err != nil {
		t.Fatalf("want success after one retry, got %v", err)
	}
	if g.calls != 2 {
		t.Errorf("calls = %d, want 2", g.calls)
	}

	g = &flakyGateway{failures: 2}
	if err := WithRetry(g, KindLoot, Record{}); err == nil {
		t.Fatal("want error after both attempts fail")
	}
	if g.calls != 2 {
		t.Errorf("calls = %d, want 2", g.calls)
	}
}

func TestLoadForms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forms.json")

	complete := `{
		"loot": {"url": "https://example.com/a", "fields": {"drop_name": "entry.1"}},
		"bounty": {"url": "https://example.com/b", "fields": {"rarity": "entry.2"}},
		"escalation": {"url": "https://example.com/c", "fields": {"token": "entry.3"}}
	}`
	if err := os.WriteFile(path, []byte(complete), 0o644); err != nil {
		t.Fatal(err)
	}
	forms, err := LoadForms(path)
	if err != nil {
		t.Fatalf("LoadForms: %v", err)
	}
	if forms[KindBounty].Fields["rarity"] != "entry.2" {
		t.Errorf("bounty mapping = %v", forms[KindBounty].Fields)
	}

	partial := `{"loot": {"url": "https://example.com/a", "fields": {"drop_name": "entry.1"}}}`
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadForms(path); err == nil {
		t.Fatal("want error for missing bounty and escalation forms")
	}
}

func TestEscalationRecordTokenPresence(t *testing.T) {
	rec := EscalationRecord(true, 3, "Escalation 10-50", "1.5.3", "U")
	if rec["token"] != "Yes" || rec["token_count"] != "3" {
		t.Errorf("record = %v", rec)
	}
	rec = EscalationRecord(false, 0, "Escalation 1-13", "1.5.3", "U")
	if rec["token"] != "No" {
		t.Errorf("record = %v", rec)
	}
}
