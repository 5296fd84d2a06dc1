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

package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-s7k/pkg/bathy"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/log"
	"jinr.ru/greenlab/go-s7k/pkg/records"
)

const (
	readBufferSize = 64 * 1024

	dropIncomplete     = "incomplete"
	dropUnintelligible = "unintelligible"
	dropOversized      = "oversized"
	dropEndOfStream    = "end of stream"
)

// Reader decodes a 7k byte stream into standalone records and assembled pings.
// It recovers from corrupted bytes between records by resynchronizing on the
// next valid header. A Reader is used from one goroutine, only Stats and
// BadRecords may be called concurrently.
type Reader struct {
	cfg    *config.ReaderConfig
	src    *bufio.Reader
	offset int64
	window [layers.HeaderSize]byte
	buf    []byte
	err    error
	// replay is set while the lookahead record is handled a second time
	replay bool

	acc        *Accumulator
	completion records.PartSet
	standalone map[layers.RecordType]records.Record

	clock         clock
	swap          *bathy.SwapDetector
	reconstructor *bathy.Reconstructor
	env           bathy.Environment
	installation  records.InstallationParameters
	fileYear      int
	lastType      layers.RecordType
	lastEmitted   float64

	nav      NavSink
	observer RecordObserver
	metrics  *Metrics
	bad      BadRecordCounter

	statsMu sync.Mutex
	stats   Stats
}

// NewReader creates a reader of src. A nil cfg selects the defaults.
func NewReader(src io.Reader, cfg *config.ReaderConfig) (*Reader, error) {
	if cfg == nil {
		cfg = config.NewDefaultReaderConfig()
	}
	completion, err := records.ParseParts(cfg.CompletionParts)
	if err != nil {
		return nil, err
	}
	if completion == 0 {
		completion, _ = records.ParseParts(config.DefaultCompletionParts)
	}
	r := &Reader{
		cfg:        cfg,
		src:        bufio.NewReaderSize(src, readBufferSize),
		acc:        NewAccumulator(),
		completion: completion,
		standalone: make(map[layers.RecordType]records.Record),
		clock: clock{
			lastBuggyYear: cfg.ClockBugLastYear,
			minOffset:     cfg.MinClockOffset,
			staleAge:      cfg.StaleClockAge,
		},
		swap: bathy.NewSwapDetector(cfg.SwapCutoffYear),
		nav:  nopNavSink{},
		stats: Stats{
			Types: make(map[string]uint64),
		},
	}
	r.stats.SwapState = r.swap.State().String()
	r.SetNavSink(nil)
	return r, nil
}

// SetNavSink routes navigation samples to sink. When sink can also interpolate
// motion, the bathymetry reconstruction uses it.
func (r *Reader) SetNavSink(sink NavSink) {
	var motion bathy.MotionSource
	if sink == nil {
		r.nav = nopNavSink{}
	} else {
		r.nav = sink
		motion, _ = sink.(bathy.MotionSource)
	}
	if r.cfg.ReconstructBathymetry {
		r.reconstructor = bathy.NewReconstructor(r.cfg.DefaultSoundSpeed, motion)
	}
}

func (r *Reader) SetObserver(observer RecordObserver) {
	r.observer = observer
}

func (r *Reader) SetMetrics(metrics *Metrics) {
	r.metrics = metrics
}

// Tell returns the stream offset of the next byte the reader will consume
func (r *Reader) Tell() int64 {
	return r.offset
}

func (r *Reader) BadRecords() *BadRecordCounter {
	return &r.bad
}

func (r *Reader) Stats() Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	s := r.stats
	s.Types = make(map[string]uint64, len(r.stats.Types))
	for k, v := range r.stats.Types {
		s.Types[k] = v
	}
	s.BadBytes = r.bad.Bytes()
	s.Resyncs = r.bad.Events()
	return s
}

// updateSwapState publishes the swap decision to Stats, which may run on another goroutine
func (r *Reader) updateSwapState() {
	state := r.swap.State().String()
	r.updateStats(func(s *Stats) { s.SwapState = state })
}

func (r *Reader) updateStats(f func(s *Stats)) {
	r.statsMu.Lock()
	f(&r.stats)
	r.stats.Offset = r.offset
	r.statsMu.Unlock()
}

// Read returns the next standalone record or assembled ping.
// It returns io.EOF at the end of the stream. After any error the reader
// keeps returning the same error.
func (r *Reader) Read() (*Result, error) {
	if r.err != nil {
		return nil, r.err
	}
	for {
		data, offset, err := r.next()
		if err != nil {
			return r.fail(err)
		}
		if res := r.handle(data, offset); res != nil {
			return res, nil
		}
	}
}

// fail ends the session, the ping in progress is emitted when it is complete
func (r *Reader) fail(err error) (*Result, error) {
	r.err = err
	if r.acc.Complete(r.completion) {
		salvaged := !errors.Is(err, io.EOF)
		if salvaged {
			log.Warning("Salvaging ping %d after read failure: %s", r.acc.Ping.Number, err)
		}
		if res := r.emitPing(salvaged); res != nil {
			return res, nil
		}
		return nil, err
	}
	if !r.acc.Free {
		r.dropPing(dropEndOfStream)
	}
	if n := r.acc.Pending(); n > 0 {
		log.Debug("Dropping %d records without ping number at the end of the stream", n)
	}
	return nil, err
}

// next returns the bytes of the next framed record and its stream offset
func (r *Reader) next() ([]byte, int64, error) {
	data, offset, ok := r.acc.release()
	r.replay = ok
	if ok {
		return data, offset, nil
	}
	for {
		start := r.offset
		n, err := io.ReadFull(r.src, r.window[:])
		r.offset += int64(n)
		switch {
		case err == io.EOF:
			return nil, start, io.EOF
		case err == io.ErrUnexpectedEOF && truncatedHeader(r.window[:n]):
			log.Warning("Stream ends inside the header of a record at offset %d", start)
			return nil, start, ErrRead{Offset: start, Err: err}
		case err == io.ErrUnexpectedEOF:
			log.Warning("Trailing %d bytes at offset %d do not form a record", n, start)
			r.addBadBytes(n)
			return nil, start, io.EOF
		case err != nil:
			return nil, start, ErrRead{Offset: start, Err: err}
		}

		summary, err := layers.Check(r.window[:])
		if err != nil {
			summary, start, err = r.resync(start)
			if err != nil {
				return nil, start, err
			}
		}

		size := int(summary.Size)
		if r.cfg.MaxRecordSize > 0 && size > r.cfg.MaxRecordSize {
			if err := r.skipRecord(summary, start); err != nil {
				return nil, start, err
			}
			continue
		}

		if cap(r.buf) < size {
			r.buf = make([]byte, size)
		}
		r.buf = r.buf[:size]
		copy(r.buf, r.window[:])
		n, err = io.ReadFull(r.src, r.buf[layers.HeaderSize:])
		r.offset += int64(n)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, start, ErrRead{Offset: start, Err: err}
		}
		return r.buf, start, nil
	}
}

// truncatedHeader reports whether the bytes left at the end of the stream
// start like a record header
func truncatedHeader(tail []byte) bool {
	return len(tail) >= 8 && binary.LittleEndian.Uint32(tail[4:8]) == layers.SyncPattern
}

// resync shifts the header window one byte at a time until it holds a valid header
func (r *Reader) resync(start int64) (layers.Summary, int64, error) {
	skipped := 0
	for {
		b, err := r.src.ReadByte()
		if err != nil {
			log.Warning("Resync: no valid record in the last %d bytes at offset %d, previous record: %s",
				skipped+layers.HeaderSize, start, r.lastType)
			r.addBadBytes(skipped + layers.HeaderSize)
			if err == io.EOF {
				return layers.Summary{}, start, io.EOF
			}
			return layers.Summary{}, start, ErrRead{Offset: r.offset, Err: err}
		}
		r.offset++
		copy(r.window[:], r.window[1:])
		r.window[layers.HeaderSize-1] = b
		skipped++
		summary, err := layers.Check(r.window[:])
		if err == nil {
			log.Warning("Resync: skipped %d bytes at offset %d, previous record: %s, next record: %s",
				skipped, start, r.lastType, summary.RecordType)
			r.addBadBytes(skipped)
			return summary, start + int64(skipped), nil
		}
	}
}

func (r *Reader) addBadBytes(n int) {
	r.bad.Add(n)
	r.metrics.resync(n)
}

// skipRecord discards a record that is larger than the buffer limit
func (r *Reader) skipRecord(summary layers.Summary, start int64) error {
	tooLarge := ErrRecordTooLarge{RecordType: summary.RecordType, Size: summary.Size, Limit: r.cfg.MaxRecordSize}
	log.Error("%s at offset %d, skipping", tooLarge, start)
	r.metrics.recordDropped(dropOversized)
	r.updateStats(func(s *Stats) { s.Oversized++ })
	skipped, err := io.CopyN(io.Discard, r.src, int64(summary.Size)-layers.HeaderSize)
	r.offset += skipped
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return ErrRead{Offset: start, Err: err}
	}
	r.lastType = summary.RecordType
	return nil
}

// handle decodes one framed record. It returns a result when the record
// is standalone or closes a complete ping.
func (r *Reader) handle(data []byte, offset int64) *Result {
	var frame layers.DataRecordFrame
	if err := frame.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		summary, _ := layers.Check(data)
		r.unintelligible(summary.RecordType, offset, err)
		return nil
	}
	hdr := frame.Header
	part, isPart := records.PartOf(hdr.RecordType)
	ping := int64(-1)
	var number uint32
	numbered := false
	if isPart {
		number, numbered = pingNumber(hdr, data)
		if numbered {
			ping = int64(number)
		}
	}

	if !r.replay {
		r.lastType = hdr.RecordType
		r.metrics.recordRead(hdr.RecordType.Name())
		r.updateStats(func(s *Stats) {
			s.Records++
			s.Types[hdr.RecordType.Name()]++
		})
		if r.fileYear == 0 && hdr.Time.Year != 0 {
			r.fileYear = int(hdr.Time.Year)
			r.swap.SetFileYear(r.fileYear)
			r.updateSwapState()
		}
		if r.observer != nil {
			r.observer.ObserveRecord(offset, hdr, ping)
		}
	}

	checksumErr := r.verifyChecksum(&frame, data)
	if !isPart {
		if checksumErr != nil {
			r.unintelligible(hdr.RecordType, offset, checksumErr)
			return nil
		}
		return r.handleStandalone(hdr, data, offset)
	}

	if !numbered {
		if r.acc.Free || r.acc.Ping.Has(part) {
			if r.acc.postpone(part, data, offset) {
				log.Debug("Replacing the pending %s with the one at offset %d", hdr.RecordType, offset)
			}
			return nil
		}
		number = r.acc.Ping.Number
	}

	if !r.acc.Free && r.acc.Ping.Number != number {
		if r.acc.Complete(r.completion) {
			r.acc.hold(data, offset)
			return r.emitPing(false)
		}
		r.dropPing(dropIncomplete)
	}
	if r.acc.Free {
		r.acc.Start(number)
		r.attachPending()
	}

	if checksumErr != nil {
		return r.rejectRecord(hdr, offset, checksumErr, part)
	}
	if err := r.decodePart(hdr, part, data); err != nil {
		return r.rejectRecord(hdr, offset, err, part)
	}
	return nil
}

// decodePart decodes a record into the ping in progress
func (r *Reader) decodePart(hdr layers.Header, part records.Part, data []byte) error {
	rec := r.acc.Ping.Record(part)
	if err := decode(hdr, data, rec); err != nil {
		return err
	}
	r.acc.Ping.Parts.Set(part)

	switch part {
	case records.PartBathymetry, records.PartBackscatter, records.PartBeamData, records.PartImage:
		r.correctClock(rec)
	}
	if r.completion.Has(part) {
		r.acc.geometryEpoch = rec.Header().Epoch()
	}
	return nil
}

// attachPending moves the records without ping number that arrived ahead of
// their ping into the ping that just started
func (r *Reader) attachPending() {
	for _, p := range r.acc.takePending() {
		var frame layers.DataRecordFrame
		err := frame.DecodeFromBytes(p.data, gopacket.NilDecodeFeedback)
		if err == nil {
			err = r.verifyChecksum(&frame, p.data)
		}
		if err == nil {
			err = r.decodePart(frame.Header, p.part, p.data)
		}
		if err != nil {
			r.unintelligible(frame.Header.RecordType, p.offset, err)
			continue
		}
		log.Debug("Ping %d: attached %s read at offset %d", r.acc.Ping.Number, frame.Header.RecordType, p.offset)
	}
}

// rejectRecord discards a record that could not be decoded. A complete ping
// in progress is salvaged, an incomplete one is dropped.
func (r *Reader) rejectRecord(hdr layers.Header, offset int64, err error, part records.Part) *Result {
	r.unintelligible(hdr.RecordType, offset, err)
	r.acc.Ping.Parts.Clear(part)
	if r.acc.Complete(r.completion) {
		return r.emitPing(true)
	}
	r.dropPing(dropUnintelligible)
	return nil
}

// verifyChecksum checks records that declare a valid checksum when verification is on
func (r *Reader) verifyChecksum(frame *layers.DataRecordFrame, data []byte) error {
	if !r.cfg.VerifyChecksum || frame.Flags&layers.FlagChecksum == 0 || frame.ChecksumValid() {
		return nil
	}
	return records.ErrDecode{RecordType: frame.RecordType,
		Err: layers.ErrChecksum{Stored: frame.Checksum, Computed: layers.Checksum(data[:frame.PayloadEnd()])}}
}

func (r *Reader) unintelligible(t layers.RecordType, offset int64, err error) {
	log.Warning("Dropping record %s at offset %d: %s", t, offset, err)
	r.metrics.recordDropped(dropUnintelligible)
	r.updateStats(func(s *Stats) { s.Unintelligible++ })
}

func decode(hdr layers.Header, data []byte, rec records.Record) error {
	codec, err := records.Lookup(hdr.RecordType)
	if err != nil {
		return err
	}
	return codec.Decode(data, hdr, rec)
}

// pingNumber returns the ping of a ping part. Beam geometry never carries one
// and backscatter writes zero on some firmware. Such records join the ping in
// progress unless it already has that part, then they wait for the next ping.
func pingNumber(hdr layers.Header, data []byte) (uint32, bool) {
	number, ok := layers.PingNumber(hdr.RecordType, data, hdr.Offset)
	if !ok || (hdr.RecordType == layers.RecordTypeBackscatter && number == 0) {
		return 0, false
	}
	return number, true
}

func (r *Reader) dropPing(reason string) {
	log.Debug("Dropping ping %d (%s): parts: %s", r.acc.Ping.Number, reason, r.acc.Ping.Parts)
	r.acc.Clear()
	r.metrics.ping(pingDropped)
	r.updateStats(func(s *Stats) { s.PingsDropped++ })
}

// correctClock moves the datalogger time of rec onto the device clock
func (r *Reader) correctClock(rec records.Record) {
	hdr := rec.Header()
	corrected, ok := r.clock.correct(*hdr)
	if !ok {
		return
	}
	if corrected < r.lastEmitted {
		corrected = r.lastEmitted
	}
	log.Debug("Ping %d: %s time corrected by %.3f s", r.acc.Ping.Number, hdr.RecordType, corrected-hdr.Epoch())
	hdr.Time = layers.TimeFromEpoch(corrected)
	if !r.acc.corrected {
		r.acc.corrected = true
		r.acc.correctedEpoch = corrected
	}
}

func (r *Reader) emitted(epoch float64) {
	if epoch > r.lastEmitted {
		r.lastEmitted = epoch
	}
}

// emitPing finishes the ping in progress. It returns nil when the ping
// turns out to be unusable and is dropped.
func (r *Reader) emitPing(salvaged bool) *Result {
	p := r.acc.Ping
	if r.reconstructor != nil {
		src, err := r.reconstructor.Reconstruct(p, r.env)
		switch {
		case err != nil:
			r.unintelligible(layers.RecordTypeBathymetry, r.offset, err)
			r.dropPing(dropUnintelligible)
			return nil
		case src != bathy.SourceNone:
			r.metrics.ping(pingReconstructed)
			r.updateStats(func(s *Stats) { s.PingsReconstructed++ })
		}
	}
	if p.Has(records.PartBathymetry) && !p.Synthesized.Has(records.PartBathymetry) {
		if !r.swap.Locked() {
			r.swap.Observe(p.Bathymetry)
			r.updateSwapState()
		}
		r.swap.Apply(p.Bathymetry)
	}

	epoch := r.acc.geometryEpoch
	switch {
	case r.acc.corrected:
		epoch = r.acc.correctedEpoch
	case epoch == 0:
		epoch = p.Time().Epoch()
	}
	r.emitted(epoch)
	r.acc.Clear()

	if salvaged {
		r.metrics.ping(pingSalvaged)
	}
	r.metrics.ping(pingEmitted)
	r.updateStats(func(s *Stats) {
		s.PingsEmitted++
		if salvaged {
			s.PingsSalvaged++
		}
	})
	return &Result{
		Kind:     records.KindData,
		Epoch:    epoch,
		Ping:     p,
		Salvaged: salvaged,
	}
}

func (r *Reader) handleStandalone(hdr layers.Header, data []byte, offset int64) *Result {
	rec, ok := r.standalone[hdr.RecordType]
	if !ok {
		codec, err := records.Lookup(hdr.RecordType)
		if err != nil {
			r.unintelligible(hdr.RecordType, offset, err)
			return nil
		}
		rec = codec.New()
		r.standalone[hdr.RecordType] = rec
	}
	if err := decode(hdr, data, rec); err != nil {
		r.unintelligible(hdr.RecordType, offset, err)
		return nil
	}
	epoch := r.feed(rec)
	r.emitted(epoch)
	r.updateStats(func(s *Stats) { s.Standalone++ })
	return &Result{
		Kind:   rec.Kind(),
		Epoch:  epoch,
		Record: rec,
	}
}

func deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// feed passes the samples of a standalone record to the session state
// and returns the canonical time of the record
func (r *Reader) feed(rec records.Record) float64 {
	epoch := rec.Header().Epoch()
	switch v := rec.(type) {
	case *records.Position:
		if v.PositionType == records.PositionGeographic {
			r.nav.AddNavigationSample(epoch, deg(v.Longitude), deg(v.Latitude), 0)
		}
	case *records.Navigation:
		r.nav.AddNavigationSample(epoch, deg(v.Longitude), deg(v.Latitude), float64(v.SpeedOverGround))
		r.nav.AddHeadingSample(epoch, deg(float64(v.Heading)))
	case *records.RollPitchHeave:
		r.nav.AddAttitudeSample(epoch, deg(float64(v.Roll)), deg(float64(v.Pitch)), float64(v.Heave))
	case *records.Attitude:
		for i := 0; i < int(v.Samples) && i < len(v.Roll); i++ {
			t := v.SampleEpoch(i)
			r.nav.AddAttitudeSample(t, deg(float64(v.Roll[i])), deg(float64(v.Pitch[i])), float64(v.Heave[i]))
			r.nav.AddHeadingSample(t, deg(float64(v.Heading[i])))
		}
	case *records.Heading:
		r.nav.AddHeadingSample(epoch, deg(float64(v.Heading)))
	case *records.Altitude:
		r.nav.AddAltitudeSample(epoch, float64(v.Altitude))
	case *records.Depth:
		r.nav.AddDepthSample(epoch, float64(v.Depth))
	case *records.InstallationParameters:
		r.installation = *v
		r.env.Installation = &r.installation
	case *records.Bluefin:
		if speed, ok := v.SoundSpeed(); ok {
			r.env.SoundSpeed = speed
		}
		if v.DataFormat == records.BluefinNavigation {
			for i := 0; i < int(v.Frames) && i < len(v.Nav); i++ {
				f := &v.Nav[i]
				r.nav.AddNavigationSample(f.Timestamp, deg(f.Longitude), deg(f.Latitude), float64(f.Speed))
				r.nav.AddAttitudeSample(f.Timestamp, deg(float64(f.Roll)), deg(float64(f.Pitch)), 0)
				r.nav.AddHeadingSample(f.Timestamp, deg(float64(f.Yaw)))
				r.nav.AddDepthSample(f.Timestamp, float64(f.Depth))
				r.nav.AddAltitudeSample(f.Timestamp, float64(f.Altitude))
			}
		}
	case *records.Edgetech:
		device := v.DeviceEpoch()
		r.clock.observe(v.Hdr, device)
		if device > 0 {
			epoch = device
		}
	}
	return epoch
}
