package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sasic-place/sasic-place/place/design"
	"github.com/sasic-place/sasic-place/place/report"
)

var mapIn string // Placement map to validate

var errInvalidPlacement = errors.New("placement is not a legal complete assignment")

// checkCmd validates an existing placement map against a design
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a placement map and report its wirelength",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if err := runCheck(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("check: %v", err)
		}
	},
}

// runCheck writes the check report to w. An illegal placement still gets a
// report and then returns errInvalidPlacement.
func runCheck(w io.Writer) error {
	d, err := loadDesign(designPath)
	if err != nil {
		return err
	}
	if mapIn == "" {
		return errors.New("--map is required")
	}
	p, err := expandPath(mapIn)
	if err != nil {
		return err
	}
	f, err := os.Open(p)
	if err != nil {
		return errors.Wrap(err, "opening placement map")
	}
	defer f.Close()
	m, err := design.ReadMap(f)
	if err != nil {
		return err
	}
	s, err := design.ApplyMap(d, m)
	if err != nil {
		return err
	}
	rep := report.Check(d.Name, s, histogramBins)
	if err := report.Write(w, rep); err != nil {
		return err
	}
	if !rep.Valid {
		return errors.Wrap(errInvalidPlacement, rep.Problem)
	}
	return nil
}

func addCheckFlags(c *cobra.Command) {
	addCommonFlags(c)
	c.Flags().StringVar(&mapIn, "map", "", "Placement map to validate")
}
