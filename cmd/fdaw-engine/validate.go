package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project.json>",
		Short: "Load a project file and report any structural errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			song, err := loadSong(args[0])
			if err != nil {
				return err
			}
			errs := validateSong(song)
			for _, e := range errs {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d validation error(s)", len(errs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q: %d track(s), no errors\n", song.Name, len(song.Tracks))
			return nil
		},
	}
}

// validateSong re-checks invariants persistence.Unmarshal already enforces
// at the wire level (unresolved references, duplicate ids) plus a few that
// only make sense to check once the whole song is in memory: riff
// references pointing at a riff the track doesn't own, and zero-length
// riffs (never scheduled per §4.3, so flagged here rather than silently
// accepted).
func validateSong(song *project.Song) []error {
	var errs []error
	seen := make(map[string]bool)

	for _, t := range song.Tracks {
		if seen[t.ID.String()] {
			errs = append(errs, fmt.Errorf("track %s: %w", t.ID, fdawerr.ErrDuplicateTrackID))
		}
		seen[t.ID.String()] = true

		if t.Kind != project.TrackInstrument {
			continue
		}
		for _, ref := range t.RiffReferences {
			if _, ok := t.Riffs[ref.LinkedTo]; !ok {
				errs = append(errs, fmt.Errorf("track %q: reference %s: %w", t.Name, ref.ID, fdawerr.ErrUnknownRiff))
			}
		}
		for _, r := range t.Riffs {
			if r.Length <= 0 {
				errs = append(errs, fmt.Errorf("track %q: riff %q has non-positive length %v", t.Name, r.Name, r.Length))
			}
		}
	}

	for _, rs := range song.RiffSets {
		for trackID := range rs.Mapping {
			if _, err := song.Track(trackID); err != nil {
				errs = append(errs, fmt.Errorf("riff set %q: %w", rs.Name, err))
			}
		}
	}
	for _, seq := range song.RiffSequences {
		for _, rsID := range seq.RiffSets {
			if _, ok := song.RiffSet(rsID); !ok {
				errs = append(errs, fmt.Errorf("riff sequence %q: unresolved riff set %s", seq.Name, rsID))
			}
		}
	}

	return errs
}
