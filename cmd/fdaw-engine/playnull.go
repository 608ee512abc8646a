package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/khremeviuc1004/riff-daw/pkg/controlplane"
	"github.com/khremeviuc1004/riff-daw/pkg/engine"
	"github.com/khremeviuc1004/riff-daw/pkg/performance"
	"github.com/khremeviuc1004/riff-daw/pkg/plugin"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
	"github.com/khremeviuc1004/riff-daw/pkg/transport"
)

func newPlayNullCmd() *cobra.Command {
	var blocks int
	var mode string
	var cpuProfile string

	cmd := &cobra.Command{
		Use:   "play-null <project.json>",
		Short: "Run a project through a fixed number of blocks with no real audio device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			song, err := loadSong(args[0])
			if err != nil {
				return err
			}

			playMode, err := parsePlayMode(mode)
			if err != nil {
				return err
			}

			log := logrus.New()
			host := plugin.NewHost(log)
			host.RegisterBackend(plugin.FormatVST2, plugin.NewMemoryBackendFactory(nil))
			host.RegisterBackend(plugin.FormatVST3, plugin.NewMemoryBackendFactory(nil))
			host.RegisterBackend(plugin.FormatCLAP, plugin.NewMemoryBackendFactory(nil))

			eng := engine.New(song, host, log)
			if err := bindMemoryInstances(eng, host, song); err != nil {
				return err
			}

			eng.Bridge().Submit(controlplane.Command{
				Sequence: 1,
				Kind:     controlplane.CmdTransportPlay,
				Mode:     uint8(playMode),
			})

			var prof *performance.Profiler
			if cpuProfile != "" {
				prof = performance.NewProfiler()
				if err := prof.StartCPUProfile(cpuProfile); err != nil {
					return err
				}
				defer prof.StopCPUProfile()
			}

			for i := 0; i < blocks; i++ {
				if _, _, err := eng.ProcessBlock(); err != nil {
					return err
				}
			}

			stats := eng.Graph().Metrics().Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d block(s), %d xrun(s), avg %s, max %s\n",
				stats.BlockCount, stats.Xruns, stats.AvgBlockTime, stats.MaxBlockTime)
			return nil
		},
	}

	cmd.Flags().IntVar(&blocks, "blocks", 100, "number of blocks to process")
	cmd.Flags().StringVar(&mode, "mode", "song", "play mode: song, riff-set, riff-sequence, riff-arrangement, loop-range")
	cmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this file (no-op unless built with -tags debug)")
	return cmd
}

func parsePlayMode(s string) (transport.PlayMode, error) {
	switch s {
	case "song":
		return transport.PlayModeSongArrangement, nil
	case "riff-set":
		return transport.PlayModeRiffSet, nil
	case "riff-sequence":
		return transport.PlayModeRiffSequence, nil
	case "riff-arrangement":
		return transport.PlayModeRiffArrangement, nil
	case "loop-range":
		return transport.PlayModeLoopRange, nil
	default:
		return 0, fmt.Errorf("unknown play mode %q", s)
	}
}

// bindMemoryInstances creates a memoryBackend instance for every plugin
// slot in song (instrument and effects alike) and binds it into the
// engine's graph, standing in for the worker-thread module-load flow a
// real native-format host performs.
func bindMemoryInstances(eng *engine.Engine, host *plugin.Host, song *project.Song) error {
	for _, t := range song.Tracks {
		if t.Kind != project.TrackInstrument {
			continue
		}
		slots := make([]*project.Plugin, 0, len(t.Effects)+1)
		if t.Instrument != nil {
			slots = append(slots, t.Instrument)
		}
		slots = append(slots, t.Effects...)

		for _, slot := range slots {
			format, err := formatFromTag(slot.Format)
			if err != nil {
				return err
			}
			id, err := host.Create(format, slot.Path, slot.ID.String(), song.SampleRate, song.BlockSize, plugin.Callbacks{})
			if err != nil {
				return err
			}
			inst, err := host.Get(id)
			if err != nil {
				return err
			}
			if err := inst.Activate(true, song.SampleRate, song.BlockSize); err != nil {
				return err
			}
			if err := inst.SetProcessing(true); err != nil {
				return err
			}
			eng.Graph().BindPlugin(slot.ID, inst)
		}
	}
	return nil
}

func formatFromTag(tag string) (plugin.Format, error) {
	switch tag {
	case "VST2":
		return plugin.FormatVST2, nil
	case "VST3":
		return plugin.FormatVST3, nil
	case "CLAP":
		return plugin.FormatCLAP, nil
	default:
		return 0, fmt.Errorf("unknown plugin format %q", tag)
	}
}
