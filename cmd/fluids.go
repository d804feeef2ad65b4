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

	"github.com/spf13/cobra"

	"github.com/notargets/gopipe/fluids"
	"github.com/notargets/gopipe/units"
)

// FluidsCmd represents the fluids command
var FluidsCmd = &cobra.Command{
	Use:   "fluids",
	Short: "List the fluids known to the property library",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-16s %-8s %12s %14s %14s\n", "name", "phase", "M [g/mol]", "rho_sc [kg/m3]", "mu_sc [Pa s]")
		for _, name := range fluids.Default.Names() {
			phase, err := fluids.Default.PhaseOf(name)
			if err != nil {
				panic(err)
			}
			f, err := fluids.NewFluid(name, phase, units.StandardPressure, units.StandardTemperature)
			if err != nil {
				panic(err)
			}
			props, err := fluids.Default.PropertiesAt(*f, f.Pressure, f.Temperature)
			if err != nil {
				fmt.Printf("%-16s %-8s %12.4f %14s %14s\n", name, phase, f.MolecularWeight*1000, "-", "-")
				continue
			}
			fmt.Printf("%-16s %-8s %12.4f %14.5g %14.5g\n", name, phase, f.MolecularWeight*1000,
				props.Density, props.Viscosity)
		}
	},
}

func init() {
	rootCmd.AddCommand(FluidsCmd)
}
