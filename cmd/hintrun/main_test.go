package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chunkproc/cairohints/internal/stats"
	"github.com/chunkproc/cairohints/vm"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	runFlags.input, runFlags.script, runFlags.schema, runFlags.dump, runFlags.stats = "", "", "", "", ""
	schemaPath = ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const bundle = `{
	"from_block_number_high": 100,
	"to_block_number_low": "90",
	"mmr_last_len": 0,
	"poseidon_mmr_last_peaks": [],
	"keccak_mmr_last_peaks": [],
	"block_headers_array": [["0x636261"]],
	"bytes_len_array": [3]
}`

func TestNormalize(t *testing.T) {
	assert := require.New(t)
	dir := t.TempDir()

	out, err := execute(t, "normalize", writeFile(t, dir, "in.json", bundle))
	assert.NoError(err)
	assert.Contains(out, `"from_block_number_high": "0x64"`)
	assert.Contains(out, `"to_block_number_low": "0x5a"`)
}

func TestValidate(t *testing.T) {
	assert := require.New(t)
	dir := t.TempDir()

	out, err := execute(t, "validate", writeFile(t, dir, "in.json", bundle))
	assert.NoError(err)
	assert.True(strings.HasSuffix(strings.TrimSpace(out), "ok (7 fields)"))

	_, err = execute(t, "validate", writeFile(t, dir, "bad.json", `{"bytes_len_array": [-1]}`))
	assert.Error(err)
}

func TestRun(t *testing.T) {
	assert := require.New(t)
	dir := t.TempDir()

	script := writeFile(t, dir, "run.yaml", `
frame:
  - name: from_block_number_high
  - name: to_block_number_low
  - name: mmr_offset
  - name: mmr_last_root_poseidon
  - name: mmr_last_root_keccak
    size: 2
  - name: block_n_plus_one_parent_hash_little
    size: 2
  - name: block_headers_array
    pointer: true
  - name: block_headers_array_bytes_len
    pointer: true
  - name: bytes_len_array
    pointer: true
    values: [3]
  - name: index
    values: [0]
steps:
  - hint: read_input
  - hint: read_block_headers
`)
	dump := filepath.Join(dir, "mem.cbor")
	statsPath := filepath.Join(dir, "stats.gob")

	_, err := execute(t, "run",
		"--input", writeFile(t, dir, "in.json", bundle),
		"--script", script,
		"--schema", writeFile(t, dir, "schema.json", `{"type": "object"}`),
		"--dump", dump,
		"--stats", statsPath,
	)
	assert.NoError(err)

	data, err := os.ReadFile(dump)
	assert.NoError(err)
	mem := vm.NewMemory()
	assert.NoError(mem.UnmarshalBinary(data))
	high, err := mem.GetFelt(vm.NewRelocatable(1, 0))
	assert.NoError(err)
	assert.Equal("100", high.String())

	s := stats.NewGlobalStats()
	assert.NoError(s.Load(statsPath))
	assert.Equal([]string{"read_block_headers", "read_input"}, s.Names())
	assert.Equal(3, s.Get("read_block_headers").NbCells)
}

func TestRunStopsOnUnknownHint(t *testing.T) {
	assert := require.New(t)
	dir := t.TempDir()

	script := writeFile(t, dir, "run.yaml", "steps:\n  - code: \"print(1)\"\n")
	_, err := execute(t, "run", "--script", script)
	assert.ErrorContains(err, "steps[0]")
	assert.ErrorContains(err, "unknown hint")

	script = writeFile(t, dir, "named.yaml", "steps:\n  - hint: no_such_hint\n")
	_, err = execute(t, "run", "--script", script)
	assert.ErrorContains(err, "no hint named no_such_hint")
}
