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
	"log"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/nekprobe/InputParameters"
	"github.com/notargets/nekprobe/locate"
	"github.com/notargets/nekprobe/mesh"
	"github.com/notargets/nekprobe/utils"
)

// ProbeCmd represents the probe command
var ProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Locate points in a mesh and interpolate fields there",
	Long: `Reads a YAML description of a mesh, its fields and a list of probe points,
locates every point and prints the interpolated field values. Points outside the
mesh report the sentinel value.`,
	Run: func(cmd *cobra.Command, args []string) {
		ip := readProbeInput(viper.GetString("probe.inputFile"))
		applyGridFlags(ip, "probe")
		np := viper.GetInt("probe.parallel")
		if err := RunProbe(os.Stdout, ip, np, viper.GetBool("verbose")); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func readProbeInput(fileName string) (ip *InputParameters.ProbeParameters) {
	var (
		err  error
		data []byte
	)
	if len(fileName) == 0 {
		err = fmt.Errorf("must supply an input file (-I, --inputFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Unit square"
Dimension: 2
Elements:
  - Shape: Quad
    Order: [4]
    Vertices: [[0, 0], [1, 0], [1, 1], [0, 1]]
Fields:
  - Name: u
    Terms:
      - {Coef: 1, Px: 2}
Points:
  - [0.5, 0.5]
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = os.ReadFile(fileName); err != nil {
		panic(err)
	}
	ip = &InputParameters.ProbeParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

// applyGridFlags lets --gridFile and --order override the input file
func applyGridFlags(ip *InputParameters.ProbeParameters, command string) {
	if gf := viper.GetString(command + ".gridFile"); len(gf) != 0 {
		ip.GridFile = gf
	}
	if q := viper.GetInt(command + ".order"); q != 0 {
		ip.GridOrder = q
	}
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("gridFile", "F", "", "Grid file to read in SU2 (.su2) format, replaces the input file elements")
	cmd.Flags().IntP("order", "q", 0, "quadrature points per direction for grid file elements")
	_ = viper.BindPFlag(cmd.Name()+".gridFile", cmd.Flags().Lookup("gridFile"))
	_ = viper.BindPFlag(cmd.Name()+".order", cmd.Flags().Lookup("order"))
}

func setupLocator(ip *InputParameters.ProbeParameters, verbose bool) (lc *locate.Locator, fields []*mesh.Field, err error) {
	var m *mesh.Mesh
	if m, err = ip.BuildMesh(); err != nil {
		return
	}
	if fields, err = ip.BuildFields(m); err != nil {
		return
	}
	if lc, err = locate.NewLocator(m, ip.Config()); err != nil {
		return
	}
	if verbose {
		lc.Logger = log.New(os.Stderr, "nekprobe: ", log.LstdFlags)
	}
	return
}

// RunProbe locates every probe point of ip using np goroutines and writes one
// line per point
func RunProbe(w io.Writer, ip *InputParameters.ProbeParameters, np int, verbose bool) (err error) {
	var (
		lc     *locate.Locator
		fields []*mesh.Field
		vals   [][]float64
		locs   []locate.Location
	)
	if verbose {
		ip.Print()
	}
	if lc, fields, err = setupLocator(ip, verbose); err != nil {
		return
	}
	pts, err := ip.ProbePoints()
	if err != nil {
		return
	}
	start := time.Now()
	if vals, locs, err = lc.ProbeParallel(pts, fields, np); err != nil {
		return
	}
	if verbose {
		log.Printf("located %d points in %v\n", len(pts), time.Since(start))
		log.Println(utils.GetMemUsage())
	}
	fmt.Fprintf(w, "%-6s %-36s %8s", "point", "position", "element")
	for _, f := range fields {
		fmt.Fprintf(w, " %16s", f.Name)
	}
	fmt.Fprintln(w)
	for i, p := range pts {
		status := ""
		switch {
		case !locs[i].Found():
			status = " (not found)"
		case !locs[i].Exact:
			status = " (nearest)"
		}
		fmt.Fprintf(w, "%-6d (%10.6f,%10.6f,%10.6f) %8d", i, p.X, p.Y, p.Z, locs[i].Element)
		for _, v := range vals[i] {
			fmt.Fprintf(w, " %16.8e", v)
		}
		fmt.Fprintf(w, "%s\n", status)
	}
	return
}

func init() {
	rootCmd.AddCommand(ProbeCmd)
	ProbeCmd.Flags().StringP("inputFile", "I", "", "YAML file describing the mesh, fields and probe points")
	ProbeCmd.Flags().IntP("parallel", "p", runtime.NumCPU(), "number of goroutines locating points")
	_ = viper.BindPFlag("probe.inputFile", ProbeCmd.Flags().Lookup("inputFile"))
	_ = viper.BindPFlag("probe.parallel", ProbeCmd.Flags().Lookup("parallel"))
	addGridFlags(ProbeCmd)
}
