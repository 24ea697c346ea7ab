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
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/nekprobe/InputParameters"
)

// ResampleCmd represents the resample command
var ResampleCmd = &cobra.Command{
	Use:   "resample",
	Short: "Resample every field onto a symmetric lattice per element",
	Long: `Interpolates every field of the YAML input onto an equispaced lattice with
the given number of points per element edge, for plotting or comparison with
low order tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		ip := readProbeInput(viper.GetString("resample.inputFile"))
		applyGridFlags(ip, "resample")
		if n := viper.GetInt("resample.points"); n != 0 {
			ip.Resample = n
		}
		if err := RunResample(os.Stdout, ip, viper.GetBool("verbose")); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

// RunResample writes the lattice position and field values of every element
func RunResample(w io.Writer, ip *InputParameters.ProbeParameters, verbose bool) (err error) {
	if ip.Resample == 0 {
		ip.Resample = 3
	}
	lc, fields, err := setupLocator(ip, verbose)
	if err != nil {
		return
	}
	for id, el := range lc.Mesh.Elements {
		pts, err := lc.SymmetricPoints(el, ip.Resample)
		if err != nil {
			return err
		}
		vals := make([][]float64, len(fields))
		for n, f := range fields {
			if vals[n], err = lc.InterpSymmetricPoints(el, ip.Resample, f.Values[id]); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "element %d %v\n", id, el.Kind())
		for i, p := range pts {
			fmt.Fprintf(w, "  (%10.6f,%10.6f,%10.6f)", p.X, p.Y, p.Z)
			for n := range fields {
				fmt.Fprintf(w, " %16.8e", vals[n][i])
			}
			fmt.Fprintln(w)
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(ResampleCmd)
	ResampleCmd.Flags().StringP("inputFile", "I", "", "YAML file describing the mesh and fields")
	ResampleCmd.Flags().IntP("points", "n", 0, "lattice points per edge, overrides Resample in the input file")
	_ = viper.BindPFlag("resample.inputFile", ResampleCmd.Flags().Lookup("inputFile"))
	_ = viper.BindPFlag("resample.points", ResampleCmd.Flags().Lookup("points"))
	addGridFlags(ResampleCmd)
}
