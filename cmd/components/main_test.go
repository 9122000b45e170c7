package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunPrintsOneLinePerFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pts", "1.0\n0,0\n0.5,0\n10,10\n")
	b := writeFile(t, dir, "b.pts", "2.0\n0,0\n1.5,0\n3,0\n4.5,0\n")
	c := writeFile(t, dir, "c.pts", "0.0\n5,5\n5,5\n5,6\n")
	d := writeFile(t, dir, "d.pts", "1.0\n")

	out, err := execute(t, a, b, c, d)
	require.NoError(t, err)
	assert.Equal(t, "[2, 1]\n[4]\n[2, 1]\n[]\n", out)
}

func TestRunMalformedFileDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.pts", "1.0\n0,0,0\n")
	good := writeFile(t, dir, "good.pts", "1.0\n0,0\n0.5,0\n")

	out, err := execute(t, bad, good)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 inputs failed")
	assert.Equal(t, "[2]\n", out)
}

func TestRunThresholdOverrideAndIndex(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.pts", "1.0\n0,0\n0.5,0\n10,10\n")

	out, err := execute(t, "--threshold", "20", "--index", "rtree", "--workers", "2", path)
	require.NoError(t, err)
	assert.Equal(t, "[3]\n", out)
}

func TestRunRejectsUnknownIndex(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.pts", "1.0\n0,0\n")

	_, err := execute(t, "--index", "kdtree", path)
	assert.Error(t, err)
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "threshold: 100\nindex: rtree\n")
	path := writeFile(t, dir, "a.pts", "1.0\n0,0\n0.5,0\n10,10\n")

	out, err := execute(t, "--config", cfg, path)
	require.NoError(t, err)
	assert.Equal(t, "[3]\n", out)
}

func TestRunWritesPlot(t *testing.T) {
	dir := t.TempDir()
	plots := filepath.Join(dir, "plots")
	path := writeFile(t, dir, "cloud.pts", "1.0\n0,0\n0.5,0\n0.9,0.4\n10,10\n")

	out, err := execute(t, "--plot", plots, path)
	require.NoError(t, err)
	assert.Equal(t, "[3, 1]\n", out)

	_, err = os.Stat(filepath.Join(plots, "cloud.png"))
	assert.NoError(t, err)
}

func TestRunRequiresArgs(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
}

func TestRunOSMWithoutThreshold(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "city.osm.pbf"))
	assert.Error(t, err)
}

func TestParseBBox(t *testing.T) {
	b, err := parseBBox(nil)
	require.NoError(t, err)
	assert.Equal(t, orb.Bound{}, b)

	b, err = parseBBox([]float64{103.6, 1.2, 104.1, 1.5})
	require.NoError(t, err)
	assert.Equal(t, orb.Bound{Min: orb.Point{103.6, 1.2}, Max: orb.Point{104.1, 1.5}}, b)

	_, err = parseBBox([]float64{1, 2, 3})
	assert.Error(t, err)
	_, err = parseBBox([]float64{5, 0, 1, 1})
	assert.Error(t, err)
}

func TestRunRejectsBadBBox(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.pts", "1.0\n0,0\n")

	_, err := execute(t, "--bbox", "1,2,3", path)
	assert.Error(t, err)
}
