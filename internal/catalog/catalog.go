package catalog

import (
	"strings"

	"threatboard/pkg/models"
)

// Entry is what the catalog knows about one ATT&CK technique.
type Entry struct {
	Label    string
	Owasp    string
	Severity string
}

// Catalog maps technique IDs and hostnames to display metadata.
type Catalog struct {
	techniques map[string]Entry
	identities map[string]string
}

// Builtin returns a catalog holding the techniques the WAF parser detects.
func Builtin() *Catalog {
	c := &Catalog{
		techniques: make(map[string]Entry, len(builtinLabels)),
		identities: make(map[string]string, len(builtinIdentities)),
	}
	for id, label := range builtinLabels {
		c.techniques[id] = Entry{Label: label, Owasp: builtinOwasp[id]}
	}
	for host, identity := range builtinIdentities {
		c.identities[host] = identity
	}
	return c
}

// Len returns the number of known techniques.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.techniques)
}

// Lookup finds a technique by ID, ignoring case and surrounding space.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.techniques[normalizeID(id)]
	return e, ok
}

// Identity returns the system name of a monitored hostname.
func (c *Catalog) Identity(hostname string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.identities[strings.ToLower(strings.TrimSpace(hostname))]
	return v, ok
}

// merge adds fields that are still empty; existing values win.
func (c *Catalog) merge(id string, in Entry) {
	id = normalizeID(id)
	e := c.techniques[id]
	if e.Label == "" {
		e.Label = in.Label
	}
	if e.Owasp == "" {
		e.Owasp = in.Owasp
	}
	if e.Severity == "" {
		e.Severity = in.Severity
	}
	c.techniques[id] = e
}

// Enrich fills empty descriptive fields of a snapshot in place and returns
// how many fields were filled. Severity is only filled when fillSeverity is
// set because it changes the high/critical signals.
func (c *Catalog) Enrich(s *models.Snapshot, fillSeverity bool) int {
	if c == nil || s == nil {
		return 0
	}
	filled := 0
	for i := range s.Techniques {
		t := &s.Techniques[i]
		e, ok := c.Lookup(t.MitreID)
		if !ok {
			continue
		}
		if t.Category == "" && e.Label != "" {
			t.Category = e.Label
			filled++
		}
		if t.OwaspCategory == "" && e.Owasp != "" {
			t.OwaspCategory = e.Owasp
			filled++
		}
		if fillSeverity && t.Severity == "" && e.Severity != "" {
			t.Severity = e.Severity
			filled++
		}
	}
	for i := range s.Tenants {
		t := &s.Tenants[i]
		if t.Identity != "" {
			continue
		}
		if v, ok := c.Identity(t.Hostname); ok {
			t.Identity = v
			filled++
		}
	}
	if s.Identity == "" {
		if v, ok := c.Identity(s.Hostname); ok {
			s.Identity = v
			filled++
		}
	}
	return filled
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
