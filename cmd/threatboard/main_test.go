package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatboard/config"
	"threatboard/internal/pipeline"
	"threatboard/pkg/models"
)

const snapshotJSON = `{"hostname": "praya.pelindo.co.id", "total_attacks": 4,
 "timeline": {"labels": ["2025-11-15", "2025-11-16"], "values": [1, 3]},
 "tenants": [{"hostname": "praya.pelindo.co.id", "events": 4}],
 "mitre": [{"mitre_id": "T1055", "severity": "medium", "count": 4}]}`

func TestRunDeriveStdinToStdout(t *testing.T) {
	var out bytes.Buffer
	code := runDerive([]string{"-width", "400", "-height", "300"}, strings.NewReader(snapshotJSON), &out)
	require.Equal(t, 0, code)

	var d models.Dashboard
	require.NoError(t, json.Unmarshal(out.Bytes(), &d))
	assert.Equal(t, "1.0 days", d.Slot.Label)
	assert.Equal(t, "T1055", d.TopTechnique)
	assert.Equal(t, "Cross-Site Scripting (XSS)", d.Techniques[0].Category)
	assert.Equal(t, 90.0, d.Layout.Radius)
}

func TestRunDeriveFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "snapshot.json")
	out := filepath.Join(dir, "out", "dashboard.json")
	require.NoError(t, os.WriteFile(in, []byte(snapshotJSON), 0o644))

	code := runDerive([]string{"-input", in, "-output", out}, nil, nil)
	require.Equal(t, 0, code)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var d models.Dashboard
	require.NoError(t, json.Unmarshal(raw, &d))
	assert.Equal(t, 4, d.TotalAttacks)
}

func TestRunDeriveConfigWithoutSource(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "derive.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
threatboard:
  layout:
    width: 500
    height: 400
    margin: 50
`), 0o644))

	var out bytes.Buffer
	code := runDerive([]string{"-config", cfgPath}, strings.NewReader(snapshotJSON), &out)
	require.Equal(t, 0, code)

	var d models.Dashboard
	require.NoError(t, json.Unmarshal(out.Bytes(), &d))
	assert.Equal(t, 150.0, d.Layout.Radius)
}

func TestRunDeriveRejectsNonJSON(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 1, runDerive(nil, strings.NewReader("oops"), &out))
	assert.Equal(t, 2, runDerive([]string{"-bogus"}, strings.NewReader(""), &out))
}

func TestNewWriterModes(t *testing.T) {
	w, err := newWriter(config.OutputConfig{Mode: "none"})
	require.NoError(t, err)
	assert.IsType(t, pipeline.NopWriter{}, w)

	w, err = newWriter(config.OutputConfig{Mode: "file", File: config.FileOutputConfig{Path: filepath.Join(t.TempDir(), "d.jsonl")}})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = newWriter(config.OutputConfig{Mode: "kafka"})
	assert.Error(t, err)
}

func TestNewSourceModes(t *testing.T) {
	s, err := newSource(config.SourceConfig{Mode: "file", File: config.FileSourceConfig{Path: "snapshot.json"}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = newSource(config.SourceConfig{Mode: "redis", Redis: config.RedisConfig{Key: "snap", Mode: "key"}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = newSource(config.SourceConfig{Mode: "http"})
	assert.Error(t, err)

	_, err = newSource(config.SourceConfig{Mode: "kafka"})
	assert.Error(t, err)
}
