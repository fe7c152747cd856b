// Command sedsim generates synthetic 3D sedimentary structure and hydraulic
// property models from a parameter file.
package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/sedsim/sedsim/config"
	"github.com/sedsim/sedsim/geometry"
	"github.com/sedsim/sedsim/grid"
	"github.com/sedsim/sedsim/simulation"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sedsim",
		Short: "synthetic sedimentary structure simulator",
	}
	rootCmd.AddCommand(runCmd(), channelsCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <paramfile>",
		Short: "run the simulation described by a parameter file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := config.SetupLogger(conf.Run.LogLevel); err != nil {
				return err
			}
			log.Debugf("configuration: %#v", conf.Run)

			sim := &simulation.Simulator{
				Run:        &conf.Run,
				Domain:     &conf.Domain,
				Sequences:  conf.Sequences,
				Elements:   conf.Elements,
				Hydraulics: &conf.Hydraulics,
			}
			return sim.Execute()
		},
	}
}

// channelsCmd previews meander centrelines for a parameter combination, so
// channel parameters can be tuned without running a full model.
func channelsCmd() *cobra.Command {
	var (
		h, k, ds, eps float64
		lx, ly, dx    float64
		count         int
		seed          uint64
	)
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "print meander centrelines as CSV for parameter checking",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grid.FromExtents(lx, ly, 1, dx, dx, 1)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			rng := rand.New(rand.NewSource(seed))

			fmt.Println("channel,x,y,vx,vy")
			for n := 0; n < count; n++ {
				pts := geometry.Ferguson(g, h, k, ds, eps, 0, true, rng)
				for _, p := range pts {
					fmt.Printf("%d,%.4f,%.4f,%.4f,%.4f\n", n+1, p.X, p.Y, p.Vx, p.Vy)
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&h, "h", 0.3, "meander damping, 0 < h < 1")
	cmd.Flags().Float64Var(&k, "k", 0.8, "meander wavenumber")
	cmd.Flags().Float64Var(&ds, "ds", 0.5, "centreline step length")
	cmd.Flags().Float64Var(&eps, "eps-factor", 0.1, "disturbance standard deviation factor")
	cmd.Flags().Float64Var(&lx, "lx", 100, "domain length")
	cmd.Flags().Float64Var(&ly, "ly", 50, "domain width")
	cmd.Flags().Float64Var(&dx, "dx", 0.5, "grid spacing")
	cmd.Flags().IntVar(&count, "count", 1, "number of centrelines")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed, 0 means time-based")
	return cmd
}
