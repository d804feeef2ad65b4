/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gopipe/pipeline"
	"github.com/notargets/gopipe/units"
	"github.com/notargets/gopipe/utils"
)

// SweepCmd represents the sweep command
var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep the upstream pressure and report the inlet mass flow",
	Long: `
Solves copies of one pipeline in parallel over a range of upstream pressures,
holding the downstream pressure fixed.

gopipe sweep -I pipeline.yaml --from 800 --to 1500 --steps 15`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("inputConditionsFile")
		from, _ := cmd.Flags().GetFloat64("from")
		to, _ := cmd.Flags().GetFloat64("to")
		steps, _ := cmd.Flags().GetInt("steps")
		workers, _ := cmd.Flags().GetInt("parallel")
		pp := processInput(inputFile)
		base, err := pp.Build(solverOptions())
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if steps < 2 {
			steps = 2
		}
		points := make([]float64, steps)
		floats.Span(points, units.Psi(from), units.Psi(to))
		rates, converged, err := sweepUpstream(base, points, workers)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Printf("%12s %16s %10s\n", "P_up [psi]", "m_in [kg/s]", "converged")
		for k, P := range points {
			fmt.Printf("%12.2f %16.6g %10v\n", units.ToPsi(P), rates[k], converged[k])
		}
		fmt.Printf("peak mass flow %.6g kg/s\n", floats.Max(rates))
		fmt.Println(utils.MemUsage())
	},
}

func init() {
	rootCmd.AddCommand(SweepCmd)
	SweepCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the pipeline")
	SweepCmd.Flags().Float64("from", 100, "first upstream pressure, psi")
	SweepCmd.Flags().Float64("to", 1000, "last upstream pressure, psi")
	SweepCmd.Flags().IntP("steps", "s", 10, "number of pressures in the sweep")
	SweepCmd.Flags().IntP("parallel", "p", 0, "number of workers, 0 uses one per CPU")
}

// sweepUpstream solves a clone of base per worker, each over its own
// contiguous range of upstream pressures
func sweepUpstream(base *pipeline.Pipeline, points []float64, workers int) (rates []float64, converged []bool, err error) {
	var (
		pm = utils.NewPartitionMap(workers, len(points))
		g  errgroup.Group
	)
	rates = make([]float64, len(points))
	converged = make([]bool, len(points))
	for n := 0; n < pm.ParallelDegree; n++ {
		var pl *pipeline.Pipeline
		if pl, err = base.Clone(); err != nil {
			return
		}
		kMin, kMax := pm.GetBucketRange(n)
		g.Go(func() error {
			for k := kMin; k < kMax; k++ {
				if err := pl.SetUpstreamPressure(points[k]); err != nil {
					return fmt.Errorf("%.2f psi: %w", units.ToPsi(points[k]), err)
				}
				rates[k], converged[k] = pl.InletMassRate(), pl.Converged()
			}
			return nil
		})
	}
	err = g.Wait()
	return
}
