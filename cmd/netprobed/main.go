/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// netprobed passively decodes ARP, DHCP, mDNS, LLDP, CDP, STP, SSDP and
// WOL traffic off a link and maintains a deduplicated, timestamped host
// inventory, snapshotted to disk as JSON on SIGUSR1 and once more on exit.
package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/coreos/go-systemd/daemon"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/An0n1mity/netprobe/internal/aggregate"
	"github.com/An0n1mity/netprobe/internal/capture"
	"github.com/An0n1mity/netprobe/internal/decode"
	"github.com/An0n1mity/netprobe/internal/inventory"
	"github.com/An0n1mity/netprobe/internal/metrics"
	"github.com/An0n1mity/netprobe/internal/vendor"
)

func main() {
	var (
		iface       string
		pcapFile    string
		bpfFilter   string
		output      string
		vendorDB    string
		logLevel    string
		metricsAddr string
		duration    int
	)

	flag.StringVar(&iface, "interface", "", "Network interface to capture on (mutually exclusive with -pcapfile)")
	flag.StringVar(&pcapFile, "pcapfile", "", "Replay a .pcap/.pcapng capture file instead of a live interface")
	flag.StringVar(&bpfFilter, "bpf", "", "BPF filter expression applied to live capture")
	flag.StringVar(&output, "output", "netprobe-inventory.json", "Path the host inventory snapshot is written to")
	flag.StringVar(&vendorDB, "vendordb", "", "Path to an OUI-prefix to vendor-name database; unknown vendors if unset")
	flag.StringVar(&logLevel, "loglevel", "info", "Set a log level. Can be: debug, info, warning, error")
	flag.StringVar(&metricsAddr, "metricsaddr", "", "Address to serve Prometheus metrics on, e.g. :9107; disabled if unset")
	flag.IntVar(&duration, "duration", -1, "Stop capturing after this many seconds; -1 runs until signaled")
	flag.Parse()

	switch logLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warning":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Fatalf("Unrecognized log level: %v", logLevel)
	}

	if (iface == "") == (pcapFile == "") {
		log.Fatal("Exactly one of -interface or -pcapfile must be set")
	}

	vendors := vendor.Empty()
	if vendorDB != "" {
		t, err := vendor.Load(vendorDB)
		if err != nil {
			log.Errorf("Failed to load vendor database %s: %v. Vendors will render as %q", vendorDB, err, vendor.UnknownVendor)
		} else {
			vendors = t
		}
	}

	var source capture.Source
	var err error
	if pcapFile != "" {
		source, err = capture.OpenReplay(pcapFile)
	} else {
		var live *capture.Live
		live, err = capture.OpenLive(iface)
		if err == nil && bpfFilter != "" {
			if ferr := live.SetBPFFilter(bpfFilter); ferr != nil {
				log.Fatalf("Failed to set BPF filter: %v", ferr)
			}
		}
		source = live
	}
	if err != nil {
		log.Fatalf("Failed to open capture source: %v", err)
	}
	defer source.Close()

	reg := metrics.NewRegistry()
	if metricsAddr != "" {
		go func() {
			if err := reg.ListenAndServe(metricsAddr); err != nil {
				log.Errorf("Metrics server stopped: %v", err)
			}
		}()
	}

	view := inventory.NewView(vendors)
	agg := aggregate.NewAggregator(view)
	agg.Metrics = reg
	dispatcher := decode.NewDispatcher()
	dispatcher.Metrics = reg

	var stopping, snapshotRequested atomic.Bool

	sigStop := make(chan os.Signal, 1)
	signal.Notify(sigStop, unix.SIGINT, unix.SIGQUIT, unix.SIGTERM)
	sigSnapshot := make(chan os.Signal, 1)
	signal.Notify(sigSnapshot, unix.SIGUSR1)

	go func() {
		<-sigStop
		log.Warning("Received shutdown signal, finishing current frame and exiting")
		stopping.Store(true)
	}()
	go func() {
		for range sigSnapshot {
			snapshotRequested.Store(true)
		}
	}()

	var deadline <-chan time.Time
	if duration > 0 {
		deadline = time.After(time.Duration(duration) * time.Second)
	}

	if err := sdNotifyReady(); err != nil {
		log.Warningf("sd_notify failed: %v", err)
	}

	log.Infof("netprobed starting, writing snapshots to %s", output)

	var captureErr error
loop:
	for !stopping.Load() {
		select {
		case <-deadline:
			log.Info("Capture duration elapsed")
			break loop
		default:
		}

		f, err := source.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Infof("Capture source exhausted: %v", err)
			} else {
				captureErr = err
			}
			break loop
		}

		if snapshotRequested.CompareAndSwap(true, false) {
			if err := view.DumpJSON(output); err != nil {
				log.Errorf("Failed to write snapshot: %v", err)
			} else {
				log.Infof("Wrote snapshot: %d hosts", view.Len())
			}
		}

		if f == nil {
			// read timeout; nothing captured this poll, loop back
			// around to re-check the shutdown/deadline/snapshot flags.
			continue
		}

		for _, obs := range dispatcher.Dispatch(f) {
			agg.Submit(obs)
		}
	}

	if err := view.DumpJSON(output); err != nil {
		log.Errorf("Failed to write final snapshot: %v", err)
	}
	if captureErr != nil {
		log.Fatalf("Capture source failed: %v", captureErr)
	}
	log.Infof("netprobed exiting, %d hosts known", view.Len())
}

// sdNotifyReady tells systemd the daemon has finished its startup work,
// a no-op when NOTIFY_SOCKET isn't set (i.e. not run under systemd).
func sdNotifyReady() error {
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if !supported && err != nil {
		return err
	} else if !supported {
		log.Debug("sd_notify not supported")
	}
	return nil
}
