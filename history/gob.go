package history

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gitlab.com/lologarithm/rangewatch/station"
)

const filePrefix = "rs_"

// GobFile appends snapshots to a gob stream on disk.
// Every open starts a new file so each file holds exactly one gob stream.
type GobFile struct {
	mu   sync.Mutex
	file *os.File
	enc  *gob.Encoder
}

// OpenGobFile creates a new stats file in dir.
func OpenGobFile(dir string, when time.Time) (*GobFile, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	name := filePrefix + strconv.FormatInt(when.UnixNano(), 10)
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open stats file: %w", err)
	}
	return &GobFile{file: f, enc: gob.NewEncoder(f)}, nil
}

func (g *GobFile) Record(_ context.Context, s station.Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enc.Encode(&s)
}

func (g *GobFile) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.file.Sync()
	return g.file.Close()
}

// Load will load all snapshots from the stats files in dir, oldest file first.
// A missing dir is not an error.
func Load(dir string) ([]station.Snapshot, error) {
	files, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snaps := []station.Snapshot{}
	for _, fi := range files {
		name := fi.Name()
		if fi.IsDir() || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		file, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			log.Printf("[Error] Failed to open existing stats file: %s", err)
			continue
		}
		dec := gob.NewDecoder(file)
		for {
			var s station.Snapshot
			err = dec.Decode(&s)
			if err != nil {
				if err != io.EOF {
					log.Printf("[Error] Failed to deserialize stats in %s: %s", name, err)
				}
				break
			}
			snaps = append(snaps, s)
		}
		file.Close()
	}
	return snaps, nil
}
