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

package capture

import (
	"fmt"
	"os"

	"github.com/google/gopacket/pcapgo"
)

// Replay reads frames back out of a previously recorded .pcap or
// .pcapng file, for offline testing of the decode/aggregate pipeline
// against a known capture.
type Replay struct {
	*genericSource
	file *os.File
}

// OpenReplay opens path, trying the newer pcapng format first and
// falling back to classic pcap, since the file extension alone isn't a
// reliable signal.
func OpenReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capture file %s: %w", path, err)
	}

	handle, err := pcapgo.NewNgReader(f, pcapgo.DefaultNgReaderOptions)
	if err != nil {
		if _, serr := f.Seek(0, 0); serr != nil {
			f.Close()
			return nil, fmt.Errorf("seeking in %s: %w", path, serr)
		}
		r, rerr := pcapgo.NewReader(f)
		if rerr != nil {
			f.Close()
			return nil, fmt.Errorf("decoding %s as pcap or pcapng: %w", path, rerr)
		}
		gs, gerr := newGenericSource(r, f.Close)
		if gerr != nil {
			f.Close()
			return nil, gerr
		}
		return &Replay{genericSource: gs, file: f}, nil
	}

	gs, gerr := newGenericSource(handle, f.Close)
	if gerr != nil {
		f.Close()
		return nil, gerr
	}
	return &Replay{genericSource: gs, file: f}, nil
}
