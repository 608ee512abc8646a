package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/khremeviuc1004/riff-daw/pkg/project"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <project.json>",
		Short: "Print a human-readable summary of a project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			song, err := loadSong(args[0])
			if err != nil {
				return err
			}
			dumpSong(cmd.OutOrStdout(), song)
			return nil
		},
	}
}

func dumpSong(w io.Writer, song *project.Song) {
	fmt.Fprintf(w, "%s  %.1f BPM  %d/%d  %.0f Hz  block=%d\n",
		song.Name, song.Tempo, song.TimeSignature.Numerator, song.TimeSignature.Denominator,
		song.SampleRate, song.BlockSize)

	for _, t := range song.Tracks {
		fmt.Fprintf(w, "  track %-20s kind=%-10s mute=%-5v solo=%-5v vol=%.2f pan=%+.2f\n",
			t.Name, trackKindName(t.Kind), t.Mute, t.Solo, t.Volume, t.Pan)
		if t.Instrument != nil {
			fmt.Fprintf(w, "    instrument: %s (%s)\n", t.Instrument.Name, t.Instrument.Format)
		}
		for _, fx := range t.Effects {
			fmt.Fprintf(w, "    effect: %s (%s)\n", fx.Name, fx.Format)
		}
		for _, r := range t.Riffs {
			fmt.Fprintf(w, "    riff %q: %.1f beats, %d event(s)\n", r.Name, r.Length, len(r.Events))
		}
	}

	for _, rs := range song.RiffSets {
		fmt.Fprintf(w, "  riff set %q: %d track mapping(s)\n", rs.Name, len(rs.Mapping))
	}
	for _, seq := range song.RiffSequences {
		fmt.Fprintf(w, "  riff sequence %q: %d riff set(s)\n", seq.Name, len(seq.RiffSets))
	}
	for _, arr := range song.RiffArrangements {
		fmt.Fprintf(w, "  riff arrangement %q: %d item(s)\n", arr.Name, len(arr.Items))
	}
}

func trackKindName(k project.TrackKind) string {
	switch k {
	case project.TrackInstrument:
		return "Instrument"
	case project.TrackAudio:
		return "Audio"
	case project.TrackMidi:
		return "Midi"
	default:
		return "Unknown"
	}
}
