// Command dlna-meta extracts now-playing metadata from a DLNA renderer's log
// output and maintains a JSON metadata file for one of the 4 sources. It
// reads renderer log lines from stdin, or follows a log file when --follow
// is given.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fsnotify/fsnotify"
)

var (
	// DIDL-Lite metadata fields, e.g. dc:title>Song</dc:title or
	// upnp:artist>Name</upnp:artist embedded in renderer log lines.
	metaRe = regexp.MustCompile(`dc:(.*?)>(.*?)</dc:|upnp:(.*?)>(.*?)</upnp:`)

	// Renderer transport state transitions, e.g. "TransportState: PLAYING".
	transportRe = regexp.MustCompile(`TransportState: ([A-Z\S]*)`)
)

func main() {
	var (
		src    = flag.Int("src", 0, "source id (0-3)")
		dir    = flag.String("dir", "/home/pi/config/dlna", "metadata directory root")
		follow = flag.String("follow", "", "follow a renderer log file instead of reading stdin")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if *src < 0 || *src > 3 {
		slog.Error("invalid source choice, sources range from 0 to 3", "src", *src)
		os.Exit(1)
	}

	outDir := filepath.Join(*dir, fmt.Sprintf("%d", *src))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		slog.Error("cannot create metadata directory", "path", outDir, "err", err)
		os.Exit(1)
	}
	outPath := filepath.Join(outDir, "currentSong")

	meta := map[string]string{"TransportState": "PLAYING"}
	if err := writeMeta(outPath, meta); err != nil {
		slog.Error("cannot write metadata file", "path", outPath, "err", err)
		os.Exit(1)
	}

	handle := func(line string) {
		field, ok := logField(line)
		if !ok {
			return
		}
		if updateMeta(meta, field) {
			slog.Info("metadata updated", "state", meta["TransportState"], "title", meta["title"])
			if err := writeMeta(outPath, meta); err != nil {
				slog.Warn("cannot write metadata file", "path", outPath, "err", err)
			}
		}
	}

	if *follow != "" {
		if err := followFile(*follow, handle); err != nil {
			slog.Error("follow failed", "path", *follow, "err", err)
			os.Exit(1)
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		handle(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		slog.Error("stdin read failed", "err", err)
		os.Exit(1)
	}
}

// logField extracts the payload of a renderer INFO log line. Lines look like
// "INFO [timestamp] <payload>"; anything else is ignored.
func logField(line string) (string, bool) {
	if !strings.HasPrefix(line, "INFO") {
		return "", false
	}
	parts := strings.SplitN(line, "] ", 2)
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

// updateMeta merges transport state and DIDL-Lite fields found in the
// payload into meta, reporting whether anything was found.
func updateMeta(meta map[string]string, field string) bool {
	found := false
	for _, m := range transportRe.FindAllStringSubmatch(field, -1) {
		if m[1] != "" {
			meta["TransportState"] = m[1]
			found = true
		}
	}
	for _, m := range metaRe.FindAllStringSubmatch(field, -1) {
		if m[1] != "" {
			meta[m[1]] = m[2]
		} else {
			meta[m[3]] = m[4]
		}
		found = true
	}
	return found
}

// writeMeta atomically replaces the metadata file so readers never observe a
// partial write.
func writeMeta(path string, meta map[string]string) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// followFile tails a log file: it reads from the current end and delivers
// complete new lines as the renderer appends them.
func followFile(path string, handle func(string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return err
	}

	reader := bufio.NewReader(f)
	var partial strings.Builder
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Write == 0 {
				continue
			}
			for {
				chunk, err := reader.ReadString('\n')
				if err == nil {
					partial.WriteString(strings.TrimRight(chunk, "\n"))
					handle(partial.String())
					partial.Reset()
					continue
				}
				// Keep incomplete tail for the next write event.
				partial.WriteString(chunk)
				break
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
