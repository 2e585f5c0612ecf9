// Package submit packages finalized readings into flat records and
// transmits them to the collection endpoint. The endpoint is a set of
// pre-built web forms, one per record kind.
package submit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Kind selects the destination form.
type Kind string

const (
	KindLoot       Kind = "loot"
	KindBounty     Kind = "bounty"
	KindEscalation Kind = "escalation"
)

// Record is one flattened key-value payload. Immutable once built.
type Record map[string]string

// Gateway transmits records. The controller treats any failure as
// retryable-once-then-report; nothing here is fatal to the process.
type Gateway interface {
	Submit(kind Kind, rec Record) error
}

// FormSpec describes one destination form: its endpoint and the mapping
// from record field names to form entry ids.
type FormSpec struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

// LoadForms reads the form catalog and verifies a spec exists for every
// record kind. A missing form is a startup error.
func LoadForms(path string) (map[Kind]FormSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	var forms map[Kind]FormSpec
	if err := json.Unmarshal(data, &forms); err != nil {
		return nil, fmt.Errorf("submit: parse %s: %w", path, err)
	}
	for _, kind := range []Kind{KindLoot, KindBounty, KindEscalation} {
		spec, ok := forms[kind]
		if !ok {
			return nil, fmt.Errorf("submit: no form configured for %q", kind)
		}
		if spec.URL == "" || len(spec.Fields) == 0 {
			return nil, fmt.Errorf("submit: form %q is incomplete", kind)
		}
	}
	return forms, nil
}

// FormsGateway posts records to the configured forms.
type FormsGateway struct {
	client *http.Client
	forms  map[Kind]FormSpec
}

// NewFormsGateway creates a gateway with a bounded request timeout.
func NewFormsGateway(forms map[Kind]FormSpec) *FormsGateway {
	return &FormsGateway{
		client: &http.Client{Timeout: 15 * time.Second},
		forms:  forms,
	}
}

// Submit posts one record. Every record field must have a configured
// form entry id; a missing mapping is a configuration defect surfaced on
// first use.
func (g *FormsGateway) Submit(kind Kind, rec Record) error {
	spec, ok := g.forms[kind]
	if !ok {
		return fmt.Errorf("submit: unknown record kind %q", kind)
	}

	payload := url.Values{}
	payload.Set("draftResponse", "[]")
	payload.Set("pageHistory", "0")
	for field, entry := range spec.Fields {
		value, ok := rec[field]
		if !ok {
			return fmt.Errorf("submit: record for %q lacks field %q", kind, field)
		}
		payload.Set(entry, value)
	}

	resp, err := g.client.PostForm(spec.URL, payload)
	if err != nil {
		return fmt.Errorf("submit: post %s: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("submit: %s form answered %d", kind, resp.StatusCode)
	}
	return nil
}

// WithRetry submits a record, retrying once on failure. The second
// failure is returned for reporting; it never aborts the encounter's
// remaining submissions.
func WithRetry(g Gateway, kind Kind, rec Record) error {
	if err := g.Submit(kind, rec); err == nil {
		return nil
	}
	return g.Submit(kind, rec)
}

// LootRecord flattens one reconciled drop roll.
func LootRecord(behemoth, tier string, threat int, huntType, dropName, dropRarity string, dropCount int, patch, user string) Record {
	return Record{
		"drop_name":   dropName,
		"drop_rarity": dropRarity,
		"drop_count":  strconv.Itoa(dropCount),
		"hunt_tier":   tier,
		"threat":      strconv.Itoa(threat),
		"behemoth":    behemoth,
		"hunt_type":   huntType,
		"patch":       patch,
		"user":        user,
	}
}

// BountyRecord flattens one drafted bounty.
func BountyRecord(rarity, patch, user string) Record {
	return Record{
		"rarity": rarity,
		"patch":  patch,
		"user":   user,
	}
}

// EscalationRecord flattens one escalation reward-token reading.
func EscalationRecord(tokenPresent bool, tokenCount int, tier, patch, user string) Record {
	present := "No"
	if tokenPresent {
		present = "Yes"
	}
	return Record{
		"token":       present,
		"token_count": strconv.Itoa(tokenCount),
		"tier":        tier,
		"patch":       patch,
		"user":        user,
	}
}
