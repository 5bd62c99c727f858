// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command evqstress runs the FIFO stress scenario: several writers push
// tagged user events while several readers drain them, optionally with a
// watcher freezing the queue every millisecond. It exits non-zero when an
// event is lost or read twice.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joeycumines/logiface"
	"golang.org/x/sys/unix"

	"code.hybscloud.com/evq/internal/stress"
	"code.hybscloud.com/evq/internal/zlog"
)

func main() {
	def := stress.DefaultConfig()
	writers := flag.Int("writers", def.Writers, "number of producer goroutines")
	readers := flag.Int("readers", def.Readers, "number of consumer goroutines")
	events := flag.Int("events", def.EventsPerWriter, "events pushed by each writer")
	capacity := flag.Int("capacity", def.Capacity, "ring capacity, rounded up to a power of two")
	mode := flag.String("mode", string(def.Mode), "ring or events")
	watcher := flag.Bool("watcher", def.Watcher, "freeze the queue once per millisecond")
	mpsc := flag.Bool("mpsc", false, "use the single consumer ring (requires -readers=1)")
	batch := flag.Int("batch", def.Batch, "PeepEvents buffer size in events mode")
	verbose := flag.Bool("v", false, "log queue internals at debug level")
	flag.Parse()

	level := logiface.LevelInformational
	if *verbose {
		level = logiface.LevelDebug
	}
	log := zlog.Console(os.Stderr, level)

	ctx, cancel := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer cancel()

	cfg := stress.Config{
		Writers:         *writers,
		Readers:         *readers,
		EventsPerWriter: *events,
		Capacity:        *capacity,
		Mode:            stress.Mode(*mode),
		SingleConsumer:  *mpsc,
		Watcher:         *watcher,
		Batch:           *batch,
		Logger:          log,
	}

	res, err := stress.Run(ctx, cfg)
	if err != nil {
		log.Err().Err(err).Log("fifo test aborted")
		os.Exit(2)
	}
	if err := res.Verify(cfg); err != nil {
		log.Err().Err(err).Log("fifo test failed")
		os.Exit(1)
	}
	fmt.Printf("Readers read %d total events in %v\n", res.Total(), res.Elapsed)
}
