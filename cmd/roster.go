package cmd

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
	"github.com/KaramelBytes/inflammation-cli/internal/models"
	"github.com/KaramelBytes/inflammation-cli/internal/utils"
	"github.com/KaramelBytes/inflammation-cli/internal/views"
)

var (
	rosterForce bool
	observeDay  int
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the doctor's patient roster",
}

var rosterInitCmd = &cobra.Command{
	Use:   "init <doctor>",
	Short: "Create an empty roster for a doctor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := rosterDir()
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing roster.
		if models.RosterExists(dir) && !rosterForce {
			return errors.WithHint(
				errors.Newf("roster already exists at %s", models.RosterPath(dir)),
				"pass --force to replace it")
		}
		d := models.NewDoctor(args[0])
		if err := models.SaveRoster(dir, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Roster initialized for %s: %s\n", okMark, d.Name, models.RosterPath(dir))
		return nil
	},
}

var rosterAddPatientCmd = &cobra.Command{
	Use:   "add-patient <name>",
	Short: "Register a patient with the doctor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, d, err := openRoster()
		if err != nil {
			return err
		}
		added, err := d.AddPatient(models.NewPatient(args[0]))
		if err != nil {
			return err
		}
		if !added {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Patient %s is already registered\n", warnMark, args[0])
			return nil
		}
		if err := models.SaveRoster(dir, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Added patient %s\n", okMark, args[0])
		return nil
	},
}

var rosterObserveCmd = &cobra.Command{
	Use:   "observe <patient> <value>",
	Short: "Record an inflammation reading for a patient",
	Long: `Record a reading for a registered patient. Without --day the reading is
placed on the day after the patient's last observation (day 0 for the first).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[1], err)
		}
		if math.IsInf(value, 0) {
			return errors.WithHint(
				errors.Wrapf(errors.ErrDomain, "reading %s is not finite", args[1]),
				"record a number, or nan for a missing reading")
		}
		dir, d, err := openRoster()
		if err != nil {
			return err
		}
		p, err := lookupPatient(d, args[0])
		if err != nil {
			return err
		}
		var o models.Observation
		if cmd.Flags().Changed("day") {
			o, err = p.AddObservationOn(observeDay, value)
			if err != nil {
				return err
			}
		} else {
			o = p.AddObservation(value)
		}
		if err := models.SaveRoster(dir, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s day %d: %s\n", okMark, p.Name, o.Day(), strconv.FormatFloat(o.Value(), 'f', -1, 64))
		return nil
	},
}

var rosterShowCmd = &cobra.Command{
	Use:   "show <patient>",
	Short: "Print a patient's observations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, d, err := openRoster()
		if err != nil {
			return err
		}
		p, err := lookupPatient(d, args[0])
		if err != nil {
			return err
		}
		return views.DisplayPatient(cmd.OutOrStdout(), p)
	},
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered patients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, d, err := openRoster()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Doctor: %s\n", d.Name)
		if d.Len() == 0 {
			fmt.Fprintln(out, "No patients registered")
			return nil
		}
		for _, p := range d.Patients() {
			obs := p.Observations()
			fmt.Fprintf(out, "- %s (%d observations)\n", p.Name, len(obs))
		}
		return nil
	},
}

func rosterDir() (string, error) {
	dir := currentConfig().RosterDir
	if dir == "" {
		dir = filepath.Join("~", ".inflammation", "roster")
	}
	return utils.ExpandHome(dir)
}

func openRoster() (string, *models.Doctor, error) {
	dir, err := rosterDir()
	if err != nil {
		return "", nil, err
	}
	d, err := models.LoadRoster(dir)
	if err != nil {
		return "", nil, err
	}
	return dir, d, nil
}

func lookupPatient(d *models.Doctor, name string) (*models.Patient, error) {
	p, ok := d.Patient(name)
	if !ok {
		return nil, errors.WithHintf(
			errors.Newf("patient %q is not registered with %s", name, d.Name),
			"register them with: inflammation roster add-patient %s", name)
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.AddCommand(rosterInitCmd, rosterAddPatientCmd, rosterObserveCmd, rosterShowCmd, rosterListCmd)
	rosterInitCmd.Flags().BoolVar(&rosterForce, "force", false, "replace an existing roster")
	rosterObserveCmd.Flags().IntVar(&observeDay, "day", 0, "explicit 0-based day index")
}
