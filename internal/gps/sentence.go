package gps

import (
	"bytes"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	"go.uber.org/zap"

	"gpstaild/pkg/log"
)

// Standard knots to meters-per-second factor used for RMC ground speed.
const knotsToMps = 0.514

// lineAssembler re-assembles newline-terminated sentences from fixed-size
// read chunks. A trailing partial line is kept until the next chunk
// completes it.
type lineAssembler struct {
	buf []byte
}

// feed appends chunk and returns every complete line it unlocked, trimmed
// and with empty lines dropped.
func (a *lineAssembler) feed(chunk []byte) []string {
	a.buf = append(a.buf, chunk...)

	var lines []string
	for {
		i := bytes.IndexByte(a.buf, '\n')
		if i < 0 {
			break
		}

		line := strings.TrimSpace(string(a.buf[:i]))
		a.buf = a.buf[i+1:]

		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

func (a *lineAssembler) reset() {
	a.buf = nil
}

// rebuildRaw reconstructs the canonical $CMD,FIELDS*CC text from a parsed
// sentence. Built once per sentence and shared by every callback it feeds.
func rebuildRaw(b nmea.BaseSentence) string {
	return "$" + b.Talker + b.Type + "," + strings.Join(b.Fields, ",") + "*" + b.Checksum
}

// handleLine runs one sentence through the grammar and, when the command is
// one we care about, packages a dispatch task for the pool. Checksum or
// grammar failures drop the line without any callback; the session keeps
// reading.
func (s *Session) handleLine(line string) {
	sent, err := nmea.Parse(line)
	if err != nil {
		log.Debug("dropping malformed sentence", zap.String("session", s.id), zap.Error(err))
		return
	}

	switch sent.DataType() {
	case nmea.TypeGGA:
		gga := sent.(nmea.GGA)
		raw := rebuildRaw(gga.BaseSentence)
		s.pool.enqueue(func(now int64) { s.dispatchGGA(gga, raw, now) })

	case nmea.TypeRMC:
		rmc := sent.(nmea.RMC)
		raw := rebuildRaw(rmc.BaseSentence)
		s.pool.enqueue(func(now int64) { s.dispatchRMC(rmc, raw, now) })

	case nmea.TypeGSV:
		gsv := sent.(nmea.GSV)
		raw := rebuildRaw(gsv.BaseSentence)
		s.pool.enqueue(func(now int64) { s.dispatchGSV(gsv, raw, now) })

	case nmea.TypeGSA:
		// DOP/mode carries no domain struct, subscribers only get the text
		gsa := sent.(nmea.GSA)
		raw := rebuildRaw(gsa.BaseSentence)
		s.pool.enqueue(func(now int64) { s.emitRaw(raw, now) })

	default:
		// Recognized by the grammar but not by us, nothing to dispatch
	}
}

func (s *Session) dispatchGGA(m nmea.GGA, raw string, now int64) {
	s.mu.Lock()
	s.fix.Latitude = m.Latitude
	s.fix.Longitude = m.Longitude
	s.fix.Altitude = m.Altitude
	s.fix.Accuracy = m.HDOP
	s.fix.Timestamp = now
	fix := s.fix
	s.mu.Unlock()

	if s.cb.OnFix != nil {
		s.cb.OnFix(fix)
	}
	s.emitRaw(raw, now)
}

func (s *Session) dispatchRMC(m nmea.RMC, raw string, now int64) {
	s.mu.Lock()
	s.fix.Latitude = m.Latitude
	s.fix.Longitude = m.Longitude
	s.fix.Speed = m.Speed * knotsToMps
	s.fix.Course = m.Course
	s.fix.Timestamp = now
	fix := s.fix
	s.mu.Unlock()

	if s.cb.OnFix != nil {
		s.cb.OnFix(fix)
	}
	s.emitRaw(raw, now)
}

func (s *Session) dispatchGSV(m nmea.GSV, raw string, now int64) {
	view := SatelliteView{}
	for _, info := range m.Info {
		if view.Count >= MaxSatellites {
			break
		}
		view.Satellites = append(view.Satellites, Satellite{
			ID:        int(info.SVPRNNumber),
			SNR:       int(info.SNR),
			Elevation: float64(info.Elevation),
			Azimuth:   float64(info.Azimuth),
		})
		view.Count++
	}

	s.mu.Lock()
	s.view = view
	s.mu.Unlock()

	if s.cb.OnSatellites != nil {
		s.cb.OnSatellites(view)
	}
	s.emitRaw(raw, now)
}

func (s *Session) emitRaw(raw string, now int64) {
	if s.cb.OnRaw != nil {
		s.cb.OnRaw(RawSentence{Text: raw, Timestamp: now})
	}
}
