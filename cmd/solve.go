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
	"io/ioutil"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gopipe/InputParameters"
	"github.com/notargets/gopipe/pipeline"
)

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a pipeline definition and print the steady state",
	Long: `
Reads a YAML pipeline definition, finds the inlet mass flow that meets the
downstream boundary pressure and prints the state of every pipe in SI units.

gopipe solve -I pipeline.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("inputConditionsFile")
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		pp := processInput(inputFile)
		pp.Print()
		pl, err := pp.Build(solverOptions())
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if err = printSnapshot(pl); err != nil {
			panic(err)
		}
		if !pl.Converged() {
			fmt.Println("error: pipeline did not converge")
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the pipeline")
	SolveCmd.Flags().Bool("profile", false, "write a CPU profile to the current directory")
}

const exampleFile = `
########################################
Title: "Test Case"
Fluid:
  Name: methane
  Phase: gas
  Pressure: 1000 psi
  Temperature: 20 C
UpstreamPressure: 1200 psi
DownstreamPressure: 792 psi
Pipes:
  - Name: inlet
    Length: 10 m
    Diameter: 0.3 m
    Roughness: 0.045 mm
    Direction: east
    Leaks:
      - Location: 0.5
        Diameter: 5 mm
    Valves:
      - Position: end
        State: open
########################################
`

func processInput(inputFile string) (pp *InputParameters.PipelineParameters) {
	var (
		err  error
		data []byte
	)
	if len(inputFile) == 0 {
		err = fmt.Errorf("must supply a pipeline definition (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = ioutil.ReadFile(inputFile); err != nil {
		panic(err)
	}
	pp = &InputParameters.PipelineParameters{}
	if err = pp.Parse(data); err != nil {
		panic(err)
	}
	return
}

func printSnapshot(pl *pipeline.Pipeline) (err error) {
	var out []byte
	if out, err = yaml.Marshal(pl.Snapshot()); err != nil {
		return
	}
	fmt.Println(pl)
	fmt.Print(string(out))
	return
}
