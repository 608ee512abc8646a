package main

import (
	"os"

	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
	"github.com/khremeviuc1004/riff-daw/pkg/persistence"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
)

func loadSong(path string) (*project.Song, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fdawerr.Wrap(fdawerr.KindPersistence, err)
	}
	data, err := persistence.ReadDocument(raw)
	if err != nil {
		return nil, err
	}
	return persistence.Unmarshal(data)
}
