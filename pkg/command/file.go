/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package command

import (
	"bufio"
	"io"
	"os"
	"time"

	"jinr.ru/greenlab/go-s7k/pkg/catalog"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/log"
	"jinr.ru/greenlab/go-s7k/pkg/nav"
	"jinr.ru/greenlab/go-s7k/pkg/records"
	"jinr.ru/greenlab/go-s7k/pkg/stream"
)

// FileReport summarizes one pass over a recorded stream
type FileReport struct {
	File          string         `json:"file"`
	Bytes         int64          `json:"bytes"`
	RecordingName string         `json:"recording_name,omitempty"`
	Devices       []uint32       `json:"devices,omitempty"`
	Start         string         `json:"start,omitempty"`
	End           string         `json:"end,omitempty"`
	Results       map[string]int `json:"results"`
	Pings         int            `json:"pings"`
	Salvaged      int            `json:"salvaged"`
	Written       int64          `json:"written,omitempty"`
	Nav           map[string]int `json:"nav"`
	Stats         stream.Stats   `json:"stats"`

	first, last float64
}

func (r *FileReport) add(res *stream.Result) {
	r.Results[res.Kind.String()]++
	if res.Ping != nil {
		r.Pings++
		if res.Salvaged {
			r.Salvaged++
		}
	}
	if h, ok := res.Record.(*records.FileHeader); ok && r.RecordingName == "" {
		r.RecordingName = h.RecordingName
		for _, d := range h.DeviceTable {
			r.Devices = append(r.Devices, d.DeviceID)
		}
	}
	if res.Epoch > 0 {
		if r.first == 0 || res.Epoch < r.first {
			r.first = res.Epoch
		}
		if res.Epoch > r.last {
			r.last = res.Epoch
		}
	}
}

func formatEpoch(epoch float64) string {
	if epoch == 0 {
		return ""
	}
	return layers.EpochToTime(epoch).Format(time.RFC3339Nano)
}

// ProcessFile reads the stream stored at path and passes every result to fn.
// observer and fn may be nil.
func ProcessFile(path string, cfg *config.ReaderConfig, observer stream.RecordObserver, fn func(res *stream.Result) error) (*FileReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := stream.NewReader(f, cfg)
	if err != nil {
		return nil, err
	}
	buffer := nav.NewBuffer(nav.DefaultCapacity)
	reader.SetNavSink(buffer)
	if observer != nil {
		reader.SetObserver(observer)
	}

	report := &FileReport{
		File:    path,
		Bytes:   info.Size(),
		Results: map[string]int{},
	}
	for {
		res, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Error("Stopped reading %s at offset %d: %s", path, reader.Tell(), err)
			break
		}
		report.add(res)
		if fn != nil {
			if err := fn(res); err != nil {
				return nil, err
			}
		}
	}
	report.Start = formatEpoch(report.first)
	report.End = formatEpoch(report.last)
	report.Nav = buffer.Counts()
	report.Stats = reader.Stats()
	return report, nil
}

// CopyFile reads src and writes the records it yields to dst
func CopyFile(src, dst string, cfg *config.Config) (*FileReport, error) {
	f, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out := bufio.NewWriter(f)
	writer := stream.NewWriter(out, cfg.WriterConfig)

	report, err := ProcessFile(src, cfg.ReaderConfig, nil, writer.WriteResult)
	if err != nil {
		return nil, err
	}
	if err := out.Flush(); err != nil {
		return nil, err
	}
	report.Written = writer.Tell()
	return report, nil
}

// BuildCatalog catalogs every record of the file at path as stream name,
// replacing an earlier catalog of the same stream
func BuildCatalog(cat *catalog.Catalog, name, path string, cfg *config.ReaderConfig) (*FileReport, error) {
	recorder, err := cat.NewRecorder(name, true, 0)
	if err != nil {
		return nil, err
	}
	report, err := ProcessFile(path, cfg, recorder, nil)
	if err != nil {
		return nil, err
	}
	if err := recorder.Flush(); err != nil {
		return nil, err
	}
	return report, nil
}
