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
	"math"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/nekprobe/polylib"
	"github.com/notargets/nekprobe/utils"
)

// QuadratureCmd represents the quadrature command
var QuadratureCmd = &cobra.Command{
	Use:   "quadrature",
	Short: "Print the nodes and weights of a Gauss-Jacobi family rule",
	Long: `Print the nodes and weights of a Gauss, Gauss-Radau or Gauss-Lobatto rule
with Jacobi weight (1-z)^alpha (1+z)^beta on [-1,1]`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			kind  = viper.GetString("quadrature.kind")
			n     = viper.GetInt("quadrature.points")
			alpha = viper.GetFloat64("quadrature.alpha")
			beta  = viper.GetFloat64("quadrature.beta")
		)
		if err := PrintQuadrature(os.Stdout, kind, n, alpha, beta); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func PrintQuadrature(w io.Writer, label string, n int, alpha, beta float64) (err error) {
	var kind polylib.Kind
	if kind, err = polylib.ParseKind(label); err != nil {
		return
	}
	if n < 1 || !halfInteger(alpha) || !halfInteger(beta) {
		return fmt.Errorf("%w: need n >= 1 and alpha, beta half integers > -1, have n = %d, alpha = %g, beta = %g",
			polylib.ErrUnsupportedConfiguration, n, alpha, beta)
	}
	r := polylib.NewRule(kind, n, alpha, beta)
	fmt.Fprintf(w, "%s n = %d, alpha = %g, beta = %g\n", r.Kind, r.N, r.Alpha, r.Beta)
	for i := range r.Nodes {
		fmt.Fprintf(w, "%3d %24.16e %24.16e\n", i, r.Nodes[i], r.Weights[i])
	}
	fmt.Fprintf(w, "sum of weights = %.16e, exact = %.16e\n", r.Integrate(utils.ConstArray(n, 1)), weightIntegral(alpha, beta))
	return
}

func halfInteger(x float64) bool {
	return x > -1 && 2*x == math.Trunc(2*x)
}

// weightIntegral is the integral of (1-z)^alpha (1+z)^beta over [-1,1]
func weightIntegral(alpha, beta float64) float64 {
	lg := func(x float64) float64 {
		v, _ := math.Lgamma(x)
		return v
	}
	return math.Exp((alpha+beta+1)*math.Ln2 + lg(alpha+1) + lg(beta+1) - lg(alpha+beta+2))
}

func init() {
	rootCmd.AddCommand(QuadratureCmd)
	QuadratureCmd.Flags().StringP("kind", "k", "Lobatto", "rule: Gauss, RadauLeft, RadauRight or Lobatto")
	QuadratureCmd.Flags().IntP("points", "n", 5, "number of quadrature points")
	QuadratureCmd.Flags().Float64P("alpha", "a", 0, "Jacobi weight exponent of (1-z)")
	QuadratureCmd.Flags().Float64P("beta", "b", 0, "Jacobi weight exponent of (1+z)")
	for _, name := range []string{"kind", "points", "alpha", "beta"} {
		_ = viper.BindPFlag("quadrature."+name, QuadratureCmd.Flags().Lookup(name))
	}
}
