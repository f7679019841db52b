/*
 * run.go, part of gopack
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
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	pack "github.com/rmera/gopack"
	"github.com/rmera/gopack/config"
	"github.com/rmera/gopack/confio"
	"github.com/rmera/gopack/dcd"
	"github.com/rmera/gopack/rdf"
	"github.com/rmera/gopack/snapshot"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// withTag inserts tag in name, right before the extension.
func withTag(name, tag string) string {
	if name == "" || tag == "" {
		return name
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + tag + ext
}

// generate builds and runs the generator described by R, with the given seed,
// and writes the result to every output R asks for. The names of the written files
// carry tag. It returns the generator and the names of the files written.
func generate(R *config.Run, seed uint64, tag string, log logrus.FieldLogger) (*pack.RandomGenerator, []string, error) {
	runID := uuid.New().String()
	log = log.WithFields(logrus.Fields{"run": runID, "seed": seed})
	G, err := R.Build(seed, log)
	if err != nil {
		return nil, nil, err
	}
	if err := G.Generate(); err != nil {
		return nil, nil, err
	}
	files, err := output(G, R.Output, tag, runID, log)
	return G, files, err
}

// output writes the configuration in G to the files named in o.
func output(G *pack.RandomGenerator, o config.Output, tag, runID string, log logrus.FieldLogger) ([]string, error) {
	var written []string
	if o.Snapshot != "" {
		S, err := snapshot.FromInitializer(G)
		if err != nil {
			return written, err
		}
		if o.Angles && S.Topology != nil {
			na := S.Topology.DeriveAngles()
			nd := S.Topology.DeriveDihedrals()
			log.WithFields(logrus.Fields{"angles": na, "dihedrals": nd}).Debug("derived bonded terms")
		}
		var opts []snapshot.Option
		if o.Double {
			opts = append(opts, snapshot.WithDouble())
		}
		if o.Compression != "" {
			opts = append(opts, snapshot.WithCompression(o.Compression))
		}
		W, err := snapshot.NewWriter(withTag(o.Snapshot, tag), opts...)
		if err != nil {
			return written, err
		}
		name, err := W.Analyze(S, o.Timestep)
		if err != nil {
			return written, err
		}
		written = append(written, name)
	}
	if o.XYZ == "" && o.JSON == "" && o.Msgpack == "" {
		return written, nil
	}
	C, err := confio.FromGenerator(G, runID)
	if err != nil {
		return written, err
	}
	if o.XYZ != "" {
		name := withTag(o.XYZ, tag)
		if err := writeXYZ(name, C, o.Unwrap); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	for _, name := range []string{o.JSON, o.Msgpack} {
		if name == "" {
			continue
		}
		name = withTag(name, tag)
		if err := confio.WriteFile(name, C); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	for _, w := range written {
		log.WithField("file", w).Info("written")
	}
	return written, nil
}

func writeXYZ(name string, C *confio.Configuration, unwrap bool) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := confio.WriteXYZ(f, C, unwrap); err != nil {
		return err
	}
	return f.Close()
}

// ensemble generates n configurations, with seeds R.Seed, R.Seed+1...R.Seed+n-1,
// running at most workers at the same time. Each member is written to its own
// files, tagged with "-s" and the seed. If traj is not empty, the members are also
// written, in seed order, as the frames of a DCD trajectory with that name.
// It returns the files written by each member.
func ensemble(ctx context.Context, R *config.Run, n, workers int, traj string, log logrus.FieldLogger) ([][]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("gopack: ensemble needs at least one member, got %d", n)
	}
	if workers < 1 {
		workers = 1
	}
	ensembleID := uuid.New().String()
	log = log.WithField("ensemble", ensembleID)
	files := make([][]string, n)
	members := make([]*pack.RandomGenerator, n)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < n; i++ {
		seed := R.Seed + uint64(i)
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			G, f, err := generate(R, seed, fmt.Sprintf("-s%d", seed), log)
			if err != nil {
				return fmt.Errorf("gopack: ensemble member with seed %d: %w", seed, err)
			}
			files[i] = f
			members[i] = G
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if traj != "" {
		if err := writeFrames(traj, members, ensembleID); err != nil {
			return files, err
		}
		log.WithField("file", traj).Info("written")
	}
	log.WithField("members", n).Info("ensemble done")
	return files, nil
}

// writeFrames writes the configurations in G as the frames of the DCD file name.
func writeFrames(name string, G []*pack.RandomGenerator, title string) error {
	W, err := dcd.Create(name, G[0].NumParticles(), title)
	if err != nil {
		return err
	}
	defer W.Close()
	for _, g := range G {
		C, err := g.Coords()
		if err != nil {
			return err
		}
		if err := W.WNext(C, g.Box()); err != nil {
			return err
		}
	}
	return W.Close()
}

// analyze generates the configuration described by R, without writing it, and
// prints to out the overlap check, the bond length statistics and, if png is
// not empty, plots g(r) for every pair of types into it. rmax <= 0 means half
// the shortest box edge.
func analyze(R *config.Run, png string, bins int, rmax float64, cpus int, out io.Writer, log logrus.FieldLogger) error {
	G, err := R.Build(R.Seed, log)
	if err != nil {
		return err
	}
	if err := G.Generate(); err != nil {
		return err
	}
	o := rdf.DefaultOptions()
	o.Cpus(cpus)
	V, err := rdf.Violations(G, R.Radii, 1e-9, o)
	if err != nil {
		return err
	}
	d, i, j := rdf.MinDistance(G)
	fmt.Fprintf(out, "particles %d types %d overlaps %d\n", G.NumParticles(), G.NumParticleTypes(), len(V))
	if i >= 0 {
		fmt.Fprintf(out, "closest pair %d-%d at %.4f\n", i, j, d)
	}
	T, err := G.Topology()
	if err != nil {
		return err
	}
	if len(T.Bonds) > 0 {
		b, err := rdf.Bonds(G, T)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "bonds %d length %.4f +- %.4f [%.4f, %.4f] molecules %d\n", b.N, b.Mean, b.Std, b.Min, b.Max, len(T.Molecules()))
		if b.Histo != nil {
			log.Debugf("bond lengths:\n%s", b.Histo)
		}
	}
	if png == "" {
		return nil
	}
	l := G.Box().L()
	if half := floats.Min(l[:]) / 2; rmax <= 0 || rmax > half {
		rmax = half
	}
	if bins < 1 {
		bins = 100
	}
	o.End(rmax)
	o.Step(rmax / float64(bins))
	g, err := rdf.Compute(G, o)
	if err != nil {
		return err
	}
	if err := rdf.Plot(g, fmt.Sprintf("g(r), seed %d", R.Seed), png); err != nil {
		return err
	}
	peak := 0.0
	pairs := g.Pairs()
	D := g.Distributions()
	for a := range g.Types {
		for b := a; b < len(g.Types); b++ {
			v, _ := g.G(g.Types[a], g.Types[b])
			peak = math.Max(peak, floats.Max(v))
			for k, f := range D.View(a, b).View() {
				if f > 0 {
					fmt.Fprintf(out, "pairs %s-%s %.0f closest bin %.3f holds %.2f%%\n", g.Types[a], g.Types[b], pairs[a][b], g.R[k], 100*f)
					break
				}
			}
		}
	}
	fmt.Fprintf(out, "g(r) written to %s, highest peak %.3f\n", png, peak)
	return nil
}
