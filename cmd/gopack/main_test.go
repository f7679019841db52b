/*
 * main_test.go, part of gopack
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/gopack/config"
	"github.com/rmera/gopack/confio"
	"github.com/rmera/gopack/dcd"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runTOML = `seed = 11

[box]
l = [8.0]

[radii]
A = 0.5
W = 0.45

[[generator]]
kind = "polymer"
repeat = 4
bond_length = 1.0
types = ["A", "A", "A", "A"]

[[generator]]
kind = "monomer"
repeat = 10
types = ["W"]

[output]
snapshot = "$GOPACK_TEST/init"
compression = "zst"
angles = true
xyz = "$GOPACK_TEST/init.xyz"
json = "$GOPACK_TEST/init.json"
`

func writeRun(Te *testing.T) (string, string) {
	dir := Te.TempDir()
	Te.Setenv("GOPACK_TEST", dir)
	path := filepath.Join(dir, "run.toml")
	require.NoError(Te, os.WriteFile(path, []byte(runTOML), 0o644))
	return dir, path
}

func TestWithTag(Te *testing.T) {
	assert.Equal(Te, "a/init-s3.xyz", withTag("a/init.xyz", "-s3"))
	assert.Equal(Te, "a/init-s3", withTag("a/init", "-s3"))
	assert.Equal(Te, "a/init.xyz", withTag("a/init.xyz", ""))
	assert.Equal(Te, "", withTag("", "-s3"))
}

func TestGenerate(Te *testing.T) {
	dir, path := writeRun(Te)
	R, err := config.Load(path)
	require.NoError(Te, err)
	log, hook := test.NewNullLogger()
	G, files, err := generate(R, R.Seed, "", log)
	require.NoError(Te, err)
	assert.Equal(Te, 26, G.NumParticles())
	require.Equal(Te, []string{
		filepath.Join(dir, "init.0000000000.bin.zst"),
		filepath.Join(dir, "init.xyz"),
		filepath.Join(dir, "init.json"),
	}, files)
	for _, f := range files {
		st, err := os.Stat(f)
		require.NoError(Te, err)
		assert.NotZero(Te, st.Size())
	}
	C, err := confio.ReadFile(files[2])
	require.NoError(Te, err)
	assert.Equal(Te, uint64(11), C.Seed)
	assert.Len(Te, C.Particles, 26)
	assert.Len(Te, C.Bonds, 12)
	assert.NotEmpty(Te, C.RunID)
	var run any
	for _, e := range hook.AllEntries() {
		if e.Message == "configuration generated" {
			run = e.Data["run"]
		}
	}
	assert.Equal(Te, C.RunID, run)
}

func TestEnsemble(Te *testing.T) {
	dir, path := writeRun(Te)
	R, err := config.Load(path)
	require.NoError(Te, err)
	log, _ := test.NewNullLogger()
	traj := filepath.Join(dir, "ens.dcd")
	files, err := ensemble(context.Background(), R, 3, 2, traj, log)
	require.NoError(Te, err)
	require.Len(Te, files, 3)
	for i, f := range files {
		seed := R.Seed + uint64(i)
		require.Len(Te, f, 3)
		assert.Equal(Te, filepath.Join(dir, fmt.Sprintf("init-s%d.0000000000.bin.zst", seed)), f[0])
		assert.Equal(Te, filepath.Join(dir, fmt.Sprintf("init-s%d.xyz", seed)), f[1])
		C, err := confio.ReadFile(f[2])
		require.NoError(Te, err)
		assert.Equal(Te, seed, C.Seed)
	}
	f, err := os.Open(traj)
	require.NoError(Te, err)
	defer f.Close()
	D, err := dcd.NewReader(f)
	require.NoError(Te, err)
	assert.Equal(Te, 26, D.Len())
	assert.Equal(Te, 3, D.Frames())
	_, err = ensemble(context.Background(), R, 0, 2, "", log)
	assert.Error(Te, err)
}

func TestEnsembleFailure(Te *testing.T) {
	_, path := writeRun(Te)
	R, err := config.Load(path)
	require.NoError(Te, err)
	R.Box.L = []float64{1.2}
	log, _ := test.NewNullLogger()
	_, err = ensemble(context.Background(), R, 4, 2, "", log)
	assert.Error(Te, err)
}

func TestAnalyze(Te *testing.T) {
	dir, path := writeRun(Te)
	R, err := config.Load(path)
	require.NoError(Te, err)
	log, _ := test.NewNullLogger()
	png := filepath.Join(dir, "gr.png")
	var out bytes.Buffer
	require.NoError(Te, analyze(R, png, 40, 0, 2, &out, log))
	s := out.String()
	assert.Contains(Te, s, "particles 26 types 2 overlaps 0")
	assert.Contains(Te, s, "bonds 12 length 1.0000")
	assert.Contains(Te, s, "molecules 14")
	for _, p := range []string{"A-A", "A-W", "W-W"} {
		assert.Contains(Te, s, "pairs "+p+" ")
	}
	_, err = os.Stat(png)
	assert.NoError(Te, err)
}

func TestRootGenerate(Te *testing.T) {
	dir, path := writeRun(Te)
	var out, errs bytes.Buffer
	Root.SetOut(&out)
	Root.SetErr(&errs)
	Root.SetArgs([]string{"generate", "--config", path})
	defer Root.SetArgs(nil)
	require.NoError(Te, Root.Execute())
	lines := strings.Fields(out.String())
	require.Len(Te, lines, 3)
	assert.Equal(Te, filepath.Join(dir, "init.xyz"), lines[1])
	assert.Contains(Te, errs.String(), "configuration generated")
}
